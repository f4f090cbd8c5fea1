package post

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/devconnect-api/internal/account"
	"github.com/redmonkez12/devconnect-api/internal/auth"
	"github.com/redmonkez12/devconnect-api/internal/database/dbtest"
	"github.com/redmonkez12/devconnect-api/internal/httputil"
)

func newTestService(t *testing.T) (*Service, *Repository, *account.Repository) {
	t.Helper()
	db := dbtest.New(t)
	repo := NewRepository(db)
	accounts := account.NewRepository(db)
	return NewService(repo, accounts), repo, accounts
}

func TestService_CreateListDelete(t *testing.T) {
	svc, repo, accounts := newTestService(t)
	ctx := context.Background()

	ada, err := accounts.Create(ctx, "Ada", "ada@example.com", "hash")
	require.NoError(t, err)
	bob, err := accounts.Create(ctx, "Bob", "bob@example.com", "hash")
	require.NoError(t, err)

	for _, text := range []string{"one", "two"} {
		_, err := svc.Create(ctx, ada.ID, CreateInput{Text: text})
		require.NoError(t, err)
	}
	p, err := svc.Create(ctx, bob.ID, CreateInput{Text: "bob's"})
	require.NoError(t, err)
	assert.Equal(t, "Bob", p.Name)

	posts, err := svc.ListByAccount(ctx, ada.ID)
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	require.NoError(t, repo.DeleteByAccount(ctx, ada.ID))

	posts, err = svc.ListByAccount(ctx, ada.ID)
	require.NoError(t, err)
	assert.Empty(t, posts)

	posts, err = svc.ListByAccount(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestService_CreateValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{Text: "  "})
	fields, ok := httputil.FieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, []httputil.FieldError{{Msg: "Text is required", Field: "text"}}, fields)

	_, err = svc.Create(context.Background(), uuid.New(), CreateInput{Text: "hi"})
	assert.ErrorIs(t, err, ErrAuthorNotFound)
}

func TestHandler_CreateAndList(t *testing.T) {
	svc, _, accounts := newTestService(t)
	ada, err := accounts.Create(context.Background(), "Ada", "ada@example.com", "hash")
	require.NoError(t, err)

	h := NewHandler(svc)
	r := chi.NewRouter()
	r.Post("/api/posts", h.Create)
	r.Get("/api/posts/user/{id}", h.ListByAccount)

	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(`{"text":"hello"}`))
	req = req.WithContext(auth.WithAccountID(req.Context(), ada.ID))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/posts/user/"+ada.ID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var posts []Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "hello", posts[0].Text)
	assert.Equal(t, ada.ID, posts[0].AccountID)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/posts/user/nope", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
