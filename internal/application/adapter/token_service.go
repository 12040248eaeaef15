package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenClaims represents the validated claims of an auth token.
type TokenClaims struct {
	UserID    uuid.UUID
	Username  string
	Privilege int
	ExpiresAt time.Time
}

// TokenService defines the interface for minting and validating the auth
// cookie token. Root-privilege tokens are minted without an expiry.
type TokenService interface {
	// GenerateToken mints a signed token for the user and registers the
	// session so it can be revoked on logout.
	GenerateToken(ctx context.Context, userID uuid.UUID, username string, privilege int) (string, error)

	// ValidateToken checks a token's signature, expiry, and session
	// registration, returning its claims.
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)

	// InvalidateToken revokes the session behind a token.
	InvalidateToken(ctx context.Context, token string) error
}

// SessionRepository stores issued session tokens with their lifetime.
type SessionRepository interface {
	// SaveSession registers a session token for a username. A zero TTL means
	// the session never expires.
	SaveSession(ctx context.Context, token, username string, ttl time.Duration) error

	// IsSessionValid reports whether a session token is still registered.
	IsSessionValid(ctx context.Context, token string) (bool, error)

	// DeleteSession removes a session token.
	DeleteSession(ctx context.Context, token string) error
}
