package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/devconnect-api/internal/account"
	"github.com/redmonkez12/devconnect-api/internal/logging"
)

var ErrAccountNotFound = errors.New("account not found")

// AccountLookup confirms the profile owner still exists
type AccountLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error)
}

// Service owns the profile upsert and the experience/education lists.
//
// Adding or removing entries is read-modify-write on the whole list with no
// revision check: two concurrent edits of one profile race and the last write wins.
type Service struct {
	repo     *Repository
	accounts AccountLookup
	logger   *logging.Logger
	now      func() time.Time
}

func NewService(repo *Repository, accounts AccountLookup, logger *logging.Logger) *Service {
	return &Service{
		repo:     repo,
		accounts: accounts,
		logger:   logger,
		now:      time.Now,
	}
}

// Upsert validates the submission and creates or merges the caller's profile
func (s *Service) Upsert(ctx context.Context, accountID uuid.UUID, in ProfileInput) (*Profile, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	// tokens outlive deleted accounts; a profile must not
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	p, err := s.repo.Upsert(ctx, accountID, in.apply)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("profile upserted", "account_id", accountID, "profile_id", p.ID)
	return p, nil
}

// GetOwn returns the caller's profile
func (s *Service) GetOwn(ctx context.Context, accountID uuid.UUID) (*Profile, error) {
	return s.repo.GetByAccount(ctx, accountID)
}

// GetByAccount returns the profile of any account
func (s *Service) GetByAccount(ctx context.Context, accountID uuid.UUID) (*Profile, error) {
	return s.repo.GetByAccount(ctx, accountID)
}

// List returns all profiles
func (s *Service) List(ctx context.Context) ([]*Profile, error) {
	return s.repo.List(ctx)
}

// AddExperience puts a new entry at the front of the caller's experience list
func (s *Service) AddExperience(ctx context.Context, accountID uuid.UUID, in ExperienceInput) (*Profile, error) {
	entry, err := in.Entry()
	if err != nil {
		return nil, err
	}

	p, err := s.repo.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	entry.ID = uuid.New()
	p.Experience = append([]Experience{entry}, p.Experience...)
	p.UpdatedAt = s.now().UTC()

	if err := s.repo.SaveExperience(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to add experience: %w", err)
	}
	return p, nil
}

// RemoveExperience drops the entry with entryID. An unknown ID changes nothing.
func (s *Service) RemoveExperience(ctx context.Context, accountID uuid.UUID, entryID string) (*Profile, error) {
	p, err := s.repo.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(entryID)
	if err != nil {
		return p, nil
	}

	kept := make([]Experience, 0, len(p.Experience))
	for _, e := range p.Experience {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(p.Experience) {
		return p, nil
	}

	p.Experience = kept
	p.UpdatedAt = s.now().UTC()

	if err := s.repo.SaveExperience(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to remove experience: %w", err)
	}
	return p, nil
}

// AddEducation puts a new entry at the front of the caller's education list
func (s *Service) AddEducation(ctx context.Context, accountID uuid.UUID, in EducationInput) (*Profile, error) {
	entry, err := in.Entry()
	if err != nil {
		return nil, err
	}

	p, err := s.repo.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	entry.ID = uuid.New()
	p.Education = append([]Education{entry}, p.Education...)
	p.UpdatedAt = s.now().UTC()

	if err := s.repo.SaveEducation(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to add education: %w", err)
	}
	return p, nil
}

// RemoveEducation drops the entry with entryID. An unknown ID changes nothing.
func (s *Service) RemoveEducation(ctx context.Context, accountID uuid.UUID, entryID string) (*Profile, error) {
	p, err := s.repo.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(entryID)
	if err != nil {
		return p, nil
	}

	kept := make([]Education, 0, len(p.Education))
	for _, e := range p.Education {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(p.Education) {
		return p, nil
	}

	p.Education = kept
	p.UpdatedAt = s.now().UTC()

	if err := s.repo.SaveEducation(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to remove education: %w", err)
	}
	return p, nil
}
