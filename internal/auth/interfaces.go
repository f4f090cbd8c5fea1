package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/redmonkez12/devconnect-api/internal/account"
)

// TokenService defines the interface for token creation and validation.
// Implementations include JWTService (HS256) and PasetoService (PASETO v4.local).
type TokenService interface {
	CreateToken(accountID uuid.UUID) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// AccountStore is the account persistence the auth service needs
type AccountStore interface {
	Create(ctx context.Context, name, email, passwordHash string) (*account.Account, error)
	GetByEmail(ctx context.Context, email string) (*account.Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error)
}

// RateLimiter throttles unauthenticated endpoints per client IP
type RateLimiter interface {
	CheckIPRateLimitWithPurpose(ctx context.Context, ip, purpose string) (bool, error)
	RecordIPRequestWithPurpose(ctx context.Context, ip, purpose string) error
	Remaining(ctx context.Context, ip, purpose string) (int, error)
}
