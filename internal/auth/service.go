package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/redmonkez12/devconnect-api/internal/account"
	"github.com/redmonkez12/devconnect-api/internal/logging"
)

var (
	ErrDuplicateAccount   = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotFound    = errors.New("account not found")
)

// minPasswordLength is the shortest password register accepts
const minPasswordLength = 6

// AuthResult is returned by Register and Login
type AuthResult struct {
	Token string `json:"token"`
}

// RegisterInput represents the registration request body
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required.Error("Name is required")),
		validation.Field(&in.Email,
			validation.Required.Error("Please include a valid email"),
			is.Email.Error("Please include a valid email"),
		),
		validation.Field(&in.Password,
			validation.Required.Error("Please enter a password with 6 or more characters"),
			validation.Length(minPasswordLength, 0).Error("Please enter a password with 6 or more characters"),
		),
	)
}

// LoginInput represents the login request body
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in LoginInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email,
			validation.Required.Error("Please include a valid email"),
			is.Email.Error("Please include a valid email"),
		),
		validation.Field(&in.Password, validation.Required.Error("Password is required")),
	)
}

// Service handles registration, login and identity lookups
type Service struct {
	accounts     AccountStore
	tokenService TokenService
	logger       *logging.Logger
	bcryptCost   int
}

func NewService(accounts AccountStore, tokenService TokenService, logger *logging.Logger, bcryptCost int) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}

	return &Service{
		accounts:     accounts,
		tokenService: tokenService,
		logger:       logger,
		bcryptCost:   bcryptCost,
	}
}

// Register creates an account and returns a token for it
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	if err := in.Validate(); err != nil {
		return nil, err
	}

	// fast path; the unique index still decides under concurrent registration
	if _, err := s.accounts.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrDuplicateAccount
	} else if !errors.Is(err, account.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.accounts.Create(ctx, in.Name, in.Email, string(hash))
	if err != nil {
		if errors.Is(err, account.ErrDuplicateEmail) {
			return nil, ErrDuplicateAccount
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	token, err := s.tokenService.CreateToken(created.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	s.logger.Info("account registered", "account_id", created.ID)

	return &AuthResult{Token: token}, nil
}

// Login verifies credentials. Unknown email and wrong password fail identically.
func (s *Service) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)

	if err := in.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.accounts.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(existing.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokenService.CreateToken(existing.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	return &AuthResult{Token: token}, nil
}

// WhoAmI returns the account behind a verified token
func (s *Service) WhoAmI(ctx context.Context, accountID uuid.UUID) (*account.Account, error) {
	acc, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return acc, nil
}
