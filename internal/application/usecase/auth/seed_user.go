package auth

import (
	"context"
	"fmt"

	"github.com/snowbudget/backend/internal/application/adapter"
	"github.com/snowbudget/backend/internal/domain/entity"
)

// SeedUserInput represents one configured user to ensure exists.
type SeedUserInput struct {
	Username  string
	Email     string
	Password  string
	Privilege int
}

// SeedUserUseCase ensures a configured user exists in the store. The budget
// has a fixed user list; there is no self-service registration.
type SeedUserUseCase struct {
	userRepo        adapter.UserRepository
	passwordService adapter.PasswordService
}

// NewSeedUserUseCase creates a new SeedUserUseCase instance.
func NewSeedUserUseCase(userRepo adapter.UserRepository, passwordService adapter.PasswordService) *SeedUserUseCase {
	return &SeedUserUseCase{
		userRepo:        userRepo,
		passwordService: passwordService,
	}
}

// Execute creates the user unless the username is already registered.
func (uc *SeedUserUseCase) Execute(ctx context.Context, input SeedUserInput) (*entity.User, error) {
	exists, err := uc.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username existence: %w", err)
	}
	if exists {
		user, err := uc.userRepo.FindByUsername(ctx, input.Username)
		if err != nil {
			return nil, fmt.Errorf("failed to load existing user: %w", err)
		}
		return user, nil
	}

	hash, err := uc.passwordService.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := entity.NewUser(input.Username, input.Email, hash, input.Privilege)
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}
