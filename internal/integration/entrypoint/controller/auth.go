package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/snowbudget/backend/internal/application/adapter"
	"github.com/snowbudget/backend/internal/application/usecase/auth"
	"github.com/snowbudget/backend/internal/integration/entrypoint/dto"
	"github.com/snowbudget/backend/internal/integration/entrypoint/middleware"
)

// cookieMaxAge is the lifetime of the auth cookie when served over HTTPS.
const cookieMaxAge = 30 * 24 * 60 * 60

// AuthController handles authentication endpoints.
type AuthController struct {
	loginUseCase  *auth.LoginUserUseCase
	logoutUseCase *auth.LogoutUserUseCase
	tokenService  adapter.TokenService
	secureCookies bool
}

// NewAuthController creates a new auth controller instance.
func NewAuthController(
	loginUseCase *auth.LoginUserUseCase,
	logoutUseCase *auth.LogoutUserUseCase,
	tokenService adapter.TokenService,
	secureCookies bool,
) *AuthController {
	return &AuthController{
		loginUseCase:  loginUseCase,
		logoutUseCase: logoutUseCase,
		tokenService:  tokenService,
		secureCookies: secureCookies,
	}
}

// Login handles POST /auth/login requests. On success the auth token is sent
// back as a cookie.
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.StatusOnly("Failed to parse request body."))
		return
	}
	if req.Username == "" || req.Password == "" {
		ctx.JSON(http.StatusOK, dto.Fail("Missing JSON fields."))
		return
	}

	output, err := c.loginUseCase.Execute(ctx.Request.Context(), auth.LoginUserInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		ctx.JSON(http.StatusOK, dto.Fail("Authentication failed."))
		return
	}

	cookie := fmt.Sprintf("%s=%s; Path=/", middleware.AuthCookieName, output.Token)
	if c.secureCookies {
		cookie += fmt.Sprintf("; Max-Age=%d; Secure", cookieMaxAge)
	}
	ctx.Header("Set-Cookie", cookie)
	ctx.JSON(http.StatusOK, dto.OK(fmt.Sprintf("Authentication succeeded. Hello, %s.", output.User.Username), nil))
}

// Check handles GET /auth/check requests. It runs outside the auth
// middleware; both outcomes are successful responses, only the message
// differs.
func (c *AuthController) Check(ctx *gin.Context) {
	token := middleware.ExtractToken(ctx)
	if token != "" {
		if _, err := c.tokenService.ValidateToken(ctx.Request.Context(), token); err == nil {
			ctx.JSON(http.StatusOK, dto.OK("You are authenticated.", nil))
			return
		}
	}
	ctx.JSON(http.StatusOK, dto.OK("You are not authenticated.", nil))
}

// Logout handles POST /auth/logout requests, revoking the session behind the
// presented token.
func (c *AuthController) Logout(ctx *gin.Context) {
	token := middleware.ExtractToken(ctx)
	if token == "" {
		ctx.JSON(http.StatusOK, dto.Fail("You are not authenticated."))
		return
	}

	if err := c.logoutUseCase.Execute(ctx.Request.Context(), auth.LogoutUserInput{Token: token}); err != nil {
		ctx.JSON(http.StatusOK, dto.Fail("Logout failed."))
		return
	}
	ctx.JSON(http.StatusOK, dto.OK("Logged out.", nil))
}
