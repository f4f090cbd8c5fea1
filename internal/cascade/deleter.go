// Package cascade removes an account together with everything it owns.
package cascade

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/redmonkez12/devconnect-api/internal/logging"
)

// PostStore deletes all posts of an owner
type PostStore interface {
	DeleteByAccount(ctx context.Context, accountID uuid.UUID) error
}

// ProfileStore deletes the profile of an owner
type ProfileStore interface {
	DeleteByAccount(ctx context.Context, accountID uuid.UUID) error
}

// AccountStore deletes an account by ID
type AccountStore interface {
	Delete(ctx context.Context, id uuid.UUID) error
}

type Step string

const (
	StepPosts   Step = "posts"
	StepProfile Step = "profile"
	StepAccount Step = "account"
)

// Outcome is the result of one deletion step
type Outcome struct {
	Step  Step   `json:"step"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`

	err error
}

// Report lists every step's outcome in a fixed order: posts, profile, account
type Report struct {
	AccountID uuid.UUID `json:"account_id"`
	Steps     []Outcome `json:"steps"`
}

func (r *Report) Succeeded() []Step {
	var out []Step
	for _, o := range r.Steps {
		if o.OK {
			out = append(out, o.Step)
		}
	}
	return out
}

func (r *Report) Failed() []Step {
	var out []Step
	for _, o := range r.Steps {
		if !o.OK {
			out = append(out, o.Step)
		}
	}
	return out
}

// PartialDeleteError is returned when at least one step failed. Steps that
// succeeded are not rolled back.
type PartialDeleteError struct {
	Report *Report
}

func (e *PartialDeleteError) Error() string {
	var failures []string
	for _, o := range e.Report.Steps {
		if !o.OK {
			failures = append(failures, fmt.Sprintf("%s: %s", o.Step, o.Error))
		}
	}
	return fmt.Sprintf("account %s partially deleted: %s", e.Report.AccountID, strings.Join(failures, "; "))
}

// Unwrap exposes the failed steps' errors to errors.Is / errors.As
func (e *PartialDeleteError) Unwrap() []error {
	var errs []error
	for _, o := range e.Report.Steps {
		if o.err != nil {
			errs = append(errs, o.err)
		}
	}
	return errs
}

// Deleter removes an account's posts, profile and account record concurrently
type Deleter struct {
	posts    PostStore
	profiles ProfileStore
	accounts AccountStore
	logger   *logging.Logger
}

func NewDeleter(posts PostStore, profiles ProfileStore, accounts AccountStore, logger *logging.Logger) *Deleter {
	return &Deleter{
		posts:    posts,
		profiles: profiles,
		accounts: accounts,
		logger:   logger,
	}
}

// DeleteAccount runs all three deletions to completion, even when one fails,
// and reports each outcome.
func (d *Deleter) DeleteAccount(ctx context.Context, accountID uuid.UUID) (*Report, error) {
	steps := []struct {
		step Step
		run  func(context.Context, uuid.UUID) error
	}{
		{StepPosts, d.posts.DeleteByAccount},
		{StepProfile, d.profiles.DeleteByAccount},
		{StepAccount, d.accounts.Delete},
	}

	report := &Report{
		AccountID: accountID,
		Steps:     make([]Outcome, len(steps)),
	}

	// plain Group: a failing step must not cancel the others
	var g errgroup.Group
	for i, s := range steps {
		g.Go(func() error {
			err := s.run(ctx, accountID)
			report.Steps[i] = Outcome{Step: s.step, OK: err == nil, err: err}
			if err != nil {
				report.Steps[i].Error = err.Error()
			}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		d.logger.Error("account delete incomplete",
			"account_id", accountID,
			"succeeded", report.Succeeded(),
			"failed", report.Failed(),
		)
		return report, &PartialDeleteError{Report: report}
	}

	d.logger.Info("account deleted", "account_id", accountID)
	return report, nil
}

// IsPartial reports whether err came from an incomplete cascade
func IsPartial(err error) (*PartialDeleteError, bool) {
	var pde *PartialDeleteError
	if errors.As(err, &pde) {
		return pde, true
	}
	return nil, false
}
