package cascade

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/devconnect-api/internal/account"
	"github.com/redmonkez12/devconnect-api/internal/auth"
	"github.com/redmonkez12/devconnect-api/internal/database/dbtest"
	"github.com/redmonkez12/devconnect-api/internal/httputil"
	"github.com/redmonkez12/devconnect-api/internal/logging"
	"github.com/redmonkez12/devconnect-api/internal/post"
	"github.com/redmonkez12/devconnect-api/internal/profile"
)

func discardLogger() *logging.Logger {
	return logging.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// stepFunc adapts a function to all three store interfaces
type stepFunc func(ctx context.Context, id uuid.UUID) error

func (f stepFunc) DeleteByAccount(ctx context.Context, id uuid.UUID) error { return f(ctx, id) }
func (f stepFunc) Delete(ctx context.Context, id uuid.UUID) error          { return f(ctx, id) }

func counting(calls *atomic.Int32, err error) stepFunc {
	return func(context.Context, uuid.UUID) error {
		calls.Add(1)
		return err
	}
}

func TestDeleteAccount_AllSucceed(t *testing.T) {
	var calls atomic.Int32
	d := NewDeleter(counting(&calls, nil), counting(&calls, nil), counting(&calls, nil), discardLogger())

	id := uuid.New()
	report, err := d.DeleteAccount(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, id, report.AccountID)
	assert.Equal(t, []Step{StepPosts, StepProfile, StepAccount}, report.Succeeded())
	assert.Empty(t, report.Failed())
}

func TestDeleteAccount_PartialFailureRunsEveryStep(t *testing.T) {
	var calls atomic.Int32
	boom := errors.New("posts table locked")
	d := NewDeleter(counting(&calls, boom), counting(&calls, nil), counting(&calls, nil), discardLogger())

	report, err := d.DeleteAccount(context.Background(), uuid.New())
	require.Error(t, err)

	assert.Equal(t, int32(3), calls.Load())
	assert.ErrorIs(t, err, boom)

	pde, ok := IsPartial(err)
	require.True(t, ok)
	assert.Same(t, report, pde.Report)
	assert.Equal(t, []Step{StepPosts}, report.Failed())
	assert.Equal(t, []Step{StepProfile, StepAccount}, report.Succeeded())
	assert.Contains(t, err.Error(), "posts: posts table locked")
}

func TestDeleteAccount_StepsRunConcurrently(t *testing.T) {
	started := make(chan struct{}, 3)
	release := make(chan struct{})

	wait := stepFunc(func(ctx context.Context, _ uuid.UUID) error {
		started <- struct{}{}
		select {
		case <-release:
			return nil
		case <-time.After(5 * time.Second):
			return errors.New("step was never released")
		}
	})

	d := NewDeleter(wait, wait, wait, discardLogger())

	done := make(chan error, 1)
	go func() {
		_, err := d.DeleteAccount(context.Background(), uuid.New())
		done <- err
	}()

	// every step must be in flight before any of them is allowed to finish
	for range 3 {
		select {
		case <-started:
		case <-time.After(2 * time.Second):
			t.Fatal("steps did not start concurrently")
		}
	}
	close(release)

	require.NoError(t, <-done)
}

func TestDeleteAccount_EndToEnd(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	accounts := account.NewRepository(db)
	profiles := profile.NewRepository(db)
	posts := post.NewRepository(db)

	ada, err := accounts.Create(ctx, "Ada", "ada@example.com", "hash")
	require.NoError(t, err)
	bob, err := accounts.Create(ctx, "Bob", "bob@example.com", "hash")
	require.NoError(t, err)

	for _, id := range []uuid.UUID{ada.ID, bob.ID} {
		_, err := profiles.Upsert(ctx, id, func(p *profile.Profile) {
			p.Status = "Developer"
			p.Skills = []string{"go"}
		})
		require.NoError(t, err)
		_, err = posts.Create(ctx, id, "hello", "someone")
		require.NoError(t, err)
	}

	d := NewDeleter(posts, profiles, accounts, discardLogger())
	_, err = d.DeleteAccount(ctx, ada.ID)
	require.NoError(t, err)

	_, err = profiles.GetByAccount(ctx, ada.ID)
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)
	_, err = accounts.GetByID(ctx, ada.ID)
	assert.ErrorIs(t, err, account.ErrNotFound)
	left, err := posts.ListByAccount(ctx, ada.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	// the other account is untouched
	_, err = profiles.GetByAccount(ctx, bob.ID)
	assert.NoError(t, err)
	left, err = posts.ListByAccount(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, left, 1)

	// deleting again is not an error
	_, err = d.DeleteAccount(ctx, ada.ID)
	assert.NoError(t, err)
}

func TestHandler_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var calls atomic.Int32
		h := NewHandler(NewDeleter(counting(&calls, nil), counting(&calls, nil), counting(&calls, nil), discardLogger()))

		req := httptest.NewRequest(http.MethodDelete, "/api/profiles", nil)
		req = req.WithContext(auth.WithAccountID(req.Context(), uuid.New()))
		rec := httptest.NewRecorder()
		h.Delete(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"msg":"User deleted"}`, rec.Body.String())
	})

	t.Run("partial failure", func(t *testing.T) {
		var calls atomic.Int32
		h := NewHandler(NewDeleter(counting(&calls, nil), counting(&calls, nil), counting(&calls, errors.New("gone")), discardLogger()))

		req := httptest.NewRequest(http.MethodDelete, "/api/profiles", nil)
		req = req.WithContext(auth.WithAccountID(req.Context(), uuid.New()))
		rec := httptest.NewRecorder()
		h.Delete(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var body DeleteResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, httputil.CodeDeleteIncomplete, body.Code)
		require.NotNil(t, body.Report)
		assert.Equal(t, []Step{StepAccount}, body.Report.Failed())
		assert.Equal(t, "gone", body.Report.Steps[2].Error)
	})

	t.Run("no account in context", func(t *testing.T) {
		var calls atomic.Int32
		h := NewHandler(NewDeleter(counting(&calls, nil), counting(&calls, nil), counting(&calls, nil), discardLogger()))

		rec := httptest.NewRecorder()
		h.Delete(rec, httptest.NewRequest(http.MethodDelete, "/api/profiles", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Zero(t, calls.Load())
	})
}
