// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/snowbudget/backend/internal/application/adapter"
	"github.com/snowbudget/backend/internal/integration/entrypoint/dto"
)

// AuthCookieName is the cookie the auth token travels in.
const AuthCookieName = "sb_auth"

// ContextKey is a type for context keys.
type ContextKey string

// ClaimsKey is the context key for the authenticated session's claims.
const ClaimsKey ContextKey = "auth_claims"

// AuthMiddleware enforces cookie-based authentication, with an Authorization
// Bearer header accepted as a fallback for non-browser clients.
type AuthMiddleware struct {
	tokenService adapter.TokenService
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(tokenService adapter.TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
	}
}

// Authenticate returns a Gin middleware handler that enforces authentication.
// Unauthenticated requests get a bare 404, not a 401, so the API does not
// advertise which paths exist.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			c.JSON(http.StatusNotFound, dto.StatusOnly("File not found."))
			c.Abort()
			return
		}

		claims, err := m.tokenService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusNotFound, dto.StatusOnly("File not found."))
			c.Abort()
			return
		}

		c.Set(string(ClaimsKey), claims)
		c.Next()
	}
}

// ExtractToken pulls the auth token from the request cookie, falling back to
// an Authorization Bearer header.
func ExtractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AuthCookieName); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// GetClaimsFromContext extracts the session claims from the Gin context.
func GetClaimsFromContext(c *gin.Context) (*adapter.TokenClaims, bool) {
	value, exists := c.Get(string(ClaimsKey))
	if !exists {
		return nil, false
	}
	claims, ok := value.(*adapter.TokenClaims)
	return claims, ok
}
