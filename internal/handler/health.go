package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Analyzer  string `json:"analyzer"`
}

// HandleHealth returns the health status of the service
// Used for Cloud Run liveness probe
func (h *Handler) HandleHealth(c *gin.Context) {
	analyzerStatus := "unavailable"
	if h.analyzer != nil && h.analyzer.Ready() {
		analyzerStatus = "ready"
	}

	status := "healthy"
	if analyzerStatus == "unavailable" {
		status = "degraded"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Analyzer:  analyzerStatus,
	})
}

// HandleReadiness returns whether the service is ready to accept traffic
// Used for Cloud Run startup probe - stricter than health
func (h *Handler) HandleReadiness(c *gin.Context) {
	if h.analyzer == nil || !h.analyzer.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"reason": "api_key_not_configured",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
