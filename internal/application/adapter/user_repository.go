package adapter

import (
	"context"

	"github.com/snowbudget/backend/internal/domain/entity"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create creates a new user.
	Create(ctx context.Context, user *entity.User) error

	// FindByUsername retrieves a user by username.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindAll retrieves every registered user.
	FindAll(ctx context.Context) ([]*entity.User, error)

	// ExistsByUsername checks whether a username is already registered.
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}
