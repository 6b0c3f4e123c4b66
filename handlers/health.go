package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler checks the health status of the service
// @Summary      Health check
// @Description  Check the health status of all services (AI service, Postgres)
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string  "Service health status"
// @Router       /health [get]
func (h *Handlers) HealthHandler(c *gin.Context) {
	status := gin.H{
		"status":     "healthy",
		"ai_service": "ready",
		"database":   "not_configured",
	}

	if h.sqlService != nil && h.sqlService.IsConnected() {
		status["database"] = "connected"
	}

	c.JSON(http.StatusOK, status)
}
