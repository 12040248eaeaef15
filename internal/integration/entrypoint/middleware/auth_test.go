package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/snowbudget/backend/internal/application/adapter"
	"github.com/snowbudget/backend/internal/integration/adapters"
	"github.com/snowbudget/backend/internal/integration/persistence"
)

func newAuthTestEngine(t *testing.T) (*gin.Engine, adapter.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	tokenService := adapters.NewTokenService("test-secret", time.Hour,
		persistence.NewSessionRepository(client))

	engine := gin.New()
	authed := engine.Group("/", NewAuthMiddleware(tokenService).Authenticate())
	authed.GET("/get/all", func(c *gin.Context) {
		claims, ok := GetClaimsFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no claims"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": claims.Username})
	})
	return engine, tokenService
}

func TestAuthMiddleware(t *testing.T) {
	engine, tokenService := newAuthTestEngine(t)
	token, err := tokenService.GenerateToken(context.Background(), uuid.New(), "alice", 1)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	t.Run("unauthenticated requests get a bare 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/get/all", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
		if want := `{"message":"File not found."}`; w.Body.String() != want {
			t.Errorf("expected %s, got %s", want, w.Body.String())
		}
	})

	t.Run("a forged cookie gets the same 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/get/all", nil)
		req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "forged"})
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})

	t.Run("a valid cookie passes and exposes the claims", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/get/all", nil)
		req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: token})
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if want := `{"username":"alice"}`; w.Body.String() != want {
			t.Errorf("expected %s, got %s", want, w.Body.String())
		}
	})

	t.Run("a bearer header works as a fallback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/get/all", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})

	t.Run("a revoked session is rejected", func(t *testing.T) {
		if err := tokenService.InvalidateToken(context.Background(), token); err != nil {
			t.Fatalf("InvalidateToken failed: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/get/all", nil)
		req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: token})
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404 after logout, got %d", w.Code)
		}
	})
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := NewRateLimiterWithConfig(2, time.Minute)
	engine := gin.New()
	engine.POST("/auth/login", limiter.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	hit := func() int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w.Code
	}

	if hit() != http.StatusOK || hit() != http.StatusOK {
		t.Fatal("expected the first two attempts to pass")
	}
	if hit() != http.StatusTooManyRequests {
		t.Error("expected the third attempt to be limited")
	}

	limiter.Reset()
	if hit() != http.StatusOK {
		t.Error("expected a reset client to pass again")
	}
}
