package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nocturne/config"
	"nocturne/services"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	scans services.ScanService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(scans services.ScanService) *HealthHandler {
	return &HealthHandler{scans: scans}
}

// HealthCheck returns the health status of the service
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "nocturne",
		"version":   "1.0.0",
		"timestamp": time.Now().Unix(),
	})
}

// APIStatus returns the status of the API
func (h *HealthHandler) APIStatus(c *gin.Context) {
	scanned, total := h.scans.Progress()
	c.JSON(http.StatusOK, gin.H{
		"message":      "Nocturne API is running",
		"library_root": config.GetLibraryRoot(),
		"scanning":     h.scans.Scanning(),
		"scanned":      scanned,
		"total":        total,
	})
}
