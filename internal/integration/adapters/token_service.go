// Package adapters implements adapter interfaces from the application layer.
package adapters

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/snowbudget/backend/internal/application/adapter"
	"github.com/snowbudget/backend/internal/domain/entity"
	domainerror "github.com/snowbudget/backend/internal/domain/error"
)

// CustomClaims represents the custom claims for auth tokens.
type CustomClaims struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Privilege int    `json:"privilege"`
	jwt.RegisteredClaims
}

// tokenService implements the adapter.TokenService interface.
type tokenService struct {
	secret        []byte
	tokenDuration time.Duration
	sessions      adapter.SessionRepository
}

// NewTokenService creates a new token service instance. Tokens minted for the
// root user carry no expiry claim and their sessions never lapse.
func NewTokenService(secret string, tokenDuration time.Duration, sessions adapter.SessionRepository) adapter.TokenService {
	return &tokenService{
		secret:        []byte(secret),
		tokenDuration: tokenDuration,
		sessions:      sessions,
	}
}

// GenerateToken mints a signed token for the user and registers the session.
func (s *tokenService) GenerateToken(ctx context.Context, userID uuid.UUID, username string, privilege int) (string, error) {
	now := time.Now().UTC()
	claims := CustomClaims{
		UserID:    userID.String(),
		Username:  username,
		Privilege: privilege,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "snowbudget",
			Subject:   userID.String(),
		},
	}

	ttl := s.tokenDuration
	if privilege == entity.RootPrivilege {
		// Root sessions do not expire.
		ttl = 0
	} else {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.tokenDuration))
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	if err := s.sessions.SaveSession(ctx, token, username, ttl); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return token, nil
}

// ValidateToken checks a token's signature, expiry, and session registration.
func (s *tokenService) ValidateToken(ctx context.Context, token string) (*adapter.TokenClaims, error) {
	claims, err := s.parseJWT(token)
	if err != nil {
		return nil, err
	}

	valid, err := s.sessions.IsSessionValid(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if !valid {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeExpiredToken,
			"session is no longer active",
			domainerror.ErrSessionNotFound,
		)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in token: %w", err)
	}

	result := &adapter.TokenClaims{
		UserID:    userID,
		Username:  claims.Username,
		Privilege: claims.Privilege,
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}
	return result, nil
}

// InvalidateToken revokes the session behind a token.
func (s *tokenService) InvalidateToken(ctx context.Context, token string) error {
	return s.sessions.DeleteSession(ctx, token)
}

// parseJWT parses and validates a signed token.
func (s *tokenService) parseJWT(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeInvalidToken,
			"token is invalid or expired",
			domainerror.ErrInvalidToken,
		)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeInvalidToken,
			"token claims are invalid",
			domainerror.ErrInvalidToken,
		)
	}
	return claims, nil
}
