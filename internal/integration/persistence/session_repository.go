package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/snowbudget/backend/internal/application/adapter"
)

const sessionKeyPrefix = "session:"

// sessionRepository implements the adapter.SessionRepository interface on
// redis. Sessions with a zero TTL are stored without an expiry.
type sessionRepository struct {
	client *redis.Client
}

// NewSessionRepository creates a new redis-backed session repository.
func NewSessionRepository(client *redis.Client) adapter.SessionRepository {
	return &sessionRepository{
		client: client,
	}
}

// SaveSession registers a session token for a username.
func (r *sessionRepository) SaveSession(ctx context.Context, token, username string, ttl time.Duration) error {
	if err := r.client.Set(ctx, sessionKeyPrefix+token, username, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// IsSessionValid reports whether a session token is still registered.
func (r *sessionRepository) IsSessionValid(ctx context.Context, token string) (bool, error) {
	err := r.client.Get(ctx, sessionKeyPrefix+token).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up session: %w", err)
	}
	return true, nil
}

// DeleteSession removes a session token.
func (r *sessionRepository) DeleteSession(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
