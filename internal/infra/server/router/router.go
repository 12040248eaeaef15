// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/snowbudget/backend/internal/integration/entrypoint/controller"
	"github.com/snowbudget/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine           *gin.Engine
	healthController *controller.HealthController
	authController   *controller.AuthController
	budgetController *controller.BudgetController
	loginRateLimiter *middleware.RateLimiter
	authMiddleware   *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	authController *controller.AuthController,
	budgetController *controller.BudgetController,
	loginRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController: healthController,
		authController:   authController,
		budgetController: budgetController,
		loginRateLimiter: loginRateLimiter,
		authMiddleware:   authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	r.engine = gin.Default()

	r.setupHealthRoutes()
	r.setupAuthRoutes()
	r.setupBudgetRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAuthRoutes configures the authentication endpoints. Login and check
// run outside the auth middleware.
func (r *Router) setupAuthRoutes() {
	auth := r.engine.Group("/auth")
	{
		auth.POST("/login", r.loginRateLimiter.Middleware(), r.authController.Login)
		auth.GET("/check", r.authController.Check)
		auth.POST("/logout", r.authController.Logout)
	}
}

// setupBudgetRoutes configures the budget endpoints, all of which require
// authentication.
func (r *Router) setupBudgetRoutes() {
	authed := r.engine.Group("/")
	authed.Use(r.authMiddleware.Authenticate())
	{
		get := authed.Group("/get")
		{
			get.GET("/all", r.budgetController.GetAll)
			get.POST("/all", r.budgetController.GetAll)
			get.POST("/class", r.budgetController.GetClass)
			get.POST("/transaction", r.budgetController.GetTransaction)
			get.GET("/resets", r.budgetController.GetResets)
			get.POST("/resets", r.budgetController.GetResets)
			get.GET("/resets/history", r.budgetController.GetResetHistory)
			get.GET("/savings", r.budgetController.GetSavings)
			get.POST("/savings", r.budgetController.GetSavings)
			get.GET("/summary", r.budgetController.GetSummary)
			get.POST("/summary", r.budgetController.GetSummary)
			get.GET("/spreadsheet", r.budgetController.GetSpreadsheet)
			get.POST("/spreadsheet", r.budgetController.GetSpreadsheet)
		}

		search := authed.Group("/search")
		{
			search.POST("/class", r.budgetController.SearchClass)
			search.POST("/transaction", r.budgetController.SearchTransaction)
		}

		create := authed.Group("/create")
		{
			create.POST("/class", r.budgetController.CreateClass)
			create.POST("/transaction", r.budgetController.CreateTransaction)
			create.POST("/transaction/search", r.budgetController.CreateTransactionSearch)
		}

		del := authed.Group("/delete")
		{
			del.POST("/class", r.budgetController.DeleteClass)
			del.POST("/transaction", r.budgetController.DeleteTransaction)
		}

		edit := authed.Group("/edit")
		{
			edit.POST("/class", r.budgetController.EditClass)
			edit.POST("/transaction", r.budgetController.EditTransaction)
		}

		authed.POST("/suggest/class", r.budgetController.SuggestClass)
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
