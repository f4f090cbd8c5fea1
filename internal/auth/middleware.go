package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/redmonkez12/devconnect-api/internal/httputil"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const AccountIDContextKey ContextKey = "account_id"

// TokenHeader is the custom header clients send the token in
const TokenHeader = "x-auth-token"

var ErrMissingToken = errors.New("missing token")

const (
	msgNoToken      = "No token, authorization denied"
	msgInvalidToken = "Token is not valid"
)

// Decision is the outcome of authenticating one request: either an account
// ID or a rejection, never both.
type Decision struct {
	accountID uuid.UUID
	rejection *Rejection
}

// Rejection says why a request was refused
type Rejection struct {
	Err  error
	Msg  string
	Code string
}

func authorized(id uuid.UUID) Decision {
	return Decision{accountID: id}
}

func rejected(err error, msg, code string) Decision {
	return Decision{rejection: &Rejection{Err: err, Msg: msg, Code: code}}
}

// Authorized returns the caller's account ID when the request was accepted
func (d Decision) Authorized() (uuid.UUID, bool) {
	return d.accountID, d.rejection == nil
}

// Rejected returns the rejection when the request was refused
func (d Decision) Rejected() (*Rejection, bool) {
	return d.rejection, d.rejection != nil
}

// Middleware handles authentication for protected routes
type Middleware struct {
	tokenService TokenService
}

func NewMiddleware(tokenService TokenService) *Middleware {
	return &Middleware{tokenService: tokenService}
}

// Authenticate extracts and verifies the request token without writing anything.
func (m *Middleware) Authenticate(r *http.Request) Decision {
	token := extractToken(r)
	if token == "" {
		return rejected(ErrMissingToken, msgNoToken, httputil.CodeMissingAuth)
	}

	claims, err := m.tokenService.VerifyToken(token)
	if err != nil {
		if errors.Is(err, ErrExpiredToken) {
			return rejected(err, msgInvalidToken, httputil.CodeTokenExpired)
		}
		return rejected(err, msgInvalidToken, httputil.CodeInvalidToken)
	}

	return authorized(claims.AccountID)
}

// RequireAuth rejects with 401 and stops, or calls next once with the
// account ID in the request context.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := m.Authenticate(r)

		if rej, ok := decision.Rejected(); ok {
			httputil.RespondMessage(w, rej.Msg, rej.Code, http.StatusUnauthorized)
			return
		}

		accountID, _ := decision.Authorized()
		next.ServeHTTP(w, r.WithContext(WithAccountID(r.Context(), accountID)))
	})
}

// extractToken reads x-auth-token, falling back to an Authorization bearer token
func extractToken(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get(TokenHeader)); token != "" {
		return token
	}

	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// WithAccountID stores the authenticated account ID in ctx
func WithAccountID(ctx context.Context, accountID uuid.UUID) context.Context {
	return context.WithValue(ctx, AccountIDContextKey, accountID)
}

// GetAccountIDFromContext extracts the account ID from the request context
func GetAccountIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	accountID, ok := ctx.Value(AccountIDContextKey).(uuid.UUID)
	return accountID, ok
}
