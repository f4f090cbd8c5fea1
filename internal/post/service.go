package post

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"

	"github.com/redmonkez12/devconnect-api/internal/account"
)

var ErrAuthorNotFound = errors.New("author not found")

// AccountLookup resolves the author's display name
type AccountLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error)
}

// CreateInput is the body of a create-post request
type CreateInput struct {
	Text string `json:"text"`
}

func (in CreateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Text, validation.Required.Error("Text is required")),
	)
}

type Service struct {
	repo     *Repository
	accounts AccountLookup
}

func NewService(repo *Repository, accounts AccountLookup) *Service {
	return &Service{repo: repo, accounts: accounts}
}

// Create stores a post, copying the author's name onto it
func (s *Service) Create(ctx context.Context, accountID uuid.UUID, in CreateInput) (*Post, error) {
	in.Text = strings.TrimSpace(in.Text)
	if err := in.Validate(); err != nil {
		return nil, err
	}

	author, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to load author: %w", err)
	}

	return s.repo.Create(ctx, accountID, in.Text, author.Name)
}

// ListByAccount returns the posts of one account
func (s *Service) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*Post, error) {
	return s.repo.ListByAccount(ctx, accountID)
}
