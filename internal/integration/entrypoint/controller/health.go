// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/snowbudget/backend/internal/integration/entrypoint/dto"
)

// HealthController handles the health check endpoint.
type HealthController struct{}

// NewHealthController creates a new health controller instance.
func NewHealthController() *HealthController {
	return &HealthController{}
}

// Check handles GET /health requests.
func (c *HealthController) Check(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.OK("Server is up.", nil))
}
