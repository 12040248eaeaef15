// Package auth contains authentication-related use cases.
package auth

import (
	"context"
	"fmt"

	"github.com/snowbudget/backend/internal/application/adapter"
	"github.com/snowbudget/backend/internal/domain/entity"
	domainerror "github.com/snowbudget/backend/internal/domain/error"
)

// LoginUserInput represents the input for user login.
type LoginUserInput struct {
	Username string
	Password string
}

// LoginUserOutput represents the output of user login.
type LoginUserOutput struct {
	Token string
	User  *entity.User
}

// LoginUserUseCase handles user login logic.
type LoginUserUseCase struct {
	userRepo        adapter.UserRepository
	passwordService adapter.PasswordService
	tokenService    adapter.TokenService
}

// NewLoginUserUseCase creates a new LoginUserUseCase instance.
func NewLoginUserUseCase(
	userRepo adapter.UserRepository,
	passwordService adapter.PasswordService,
	tokenService adapter.TokenService,
) *LoginUserUseCase {
	return &LoginUserUseCase{
		userRepo:        userRepo,
		passwordService: passwordService,
		tokenService:    tokenService,
	}
}

// Execute performs the user login.
func (uc *LoginUserUseCase) Execute(ctx context.Context, input LoginUserInput) (*LoginUserOutput, error) {
	// Find user by username
	user, err := uc.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		// Return a generic error to prevent username enumeration
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeInvalidCredentials,
			"invalid username or password",
			domainerror.ErrInvalidCredentials,
		)
	}

	// Verify password
	if err := uc.passwordService.VerifyPassword(user.PasswordHash, input.Password); err != nil {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeInvalidCredentials,
			"invalid username or password",
			domainerror.ErrInvalidCredentials,
		)
	}

	// Mint the auth cookie token and register the session
	token, err := uc.tokenService.GenerateToken(ctx, user.ID, user.Username, user.Privilege)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginUserOutput{
		Token: token,
		User:  user,
	}, nil
}
