package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard-api/internal/database"
)

// HealthHandler exposes liveness and readiness probes
type HealthHandler struct{}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Health handles GET /health (liveness)
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready handles GET /ready (readiness). Not ready until the database
// connection has been established.
func (h *HealthHandler) Ready(c *gin.Context) {
	if !database.IsConnected() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "database not connected",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
