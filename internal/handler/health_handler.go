package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rxlens/internal/health"
	"rxlens/internal/port"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	healthRepo port.HealthRepository
	monitor    *health.Monitor
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(healthRepo port.HealthRepository, monitor *health.Monitor) *HealthHandler {
	return &HealthHandler{healthRepo: healthRepo, monitor: monitor}
}

// Check handles GET /api/health
func (h *HealthHandler) Check(c *gin.Context) {
	status := "ok"
	code := http.StatusOK
	if err := h.healthRepo.Ping(c.Request.Context()); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, APIResponse{Success: code == http.StatusOK, Data: gin.H{
		"status":    status,
		"timestamp": time.Now().UTC(),
	}})
}

// DB handles GET /api/health/db
func (h *HealthHandler) DB(c *gin.Context) {
	report := h.monitor.Report()
	code := http.StatusOK
	if !report.Healthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, APIResponse{Success: report.Healthy, Data: report})
}
