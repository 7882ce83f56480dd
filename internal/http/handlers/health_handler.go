package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger проверяет доступность зависимости.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler предоставляет endpoint для проверки здоровья сервиса.
type HealthHandler struct {
	db      Pinger
	env     string
	started time.Time
}

// NewHealthHandler создаёт новый health handler.
func NewHealthHandler(db Pinger, env string) *HealthHandler {
	return &HealthHandler{db: db, env: env, started: time.Now()}
}

// HealthResponse представляет ответ health check.
type HealthResponse struct {
	Success     bool              `json:"success"`
	Message     string            `json:"message"`
	Timestamp   time.Time         `json:"timestamp"`
	Environment string            `json:"environment"`
	Uptime      string            `json:"uptime"`
	Checks      map[string]string `json:"checks"`
}

// Health обрабатывает GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	resp := HealthResponse{
		Success:     true,
		Message:     "Server is running",
		Timestamp:   time.Now(),
		Environment: h.env,
		Uptime:      time.Since(h.started).Round(time.Second).String(),
		Checks:      map[string]string{"database": "healthy"},
	}
	statusCode := http.StatusOK

	if err := h.db.PingContext(ctx); err != nil {
		resp.Success = false
		resp.Message = "Server is degraded"
		resp.Checks["database"] = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, resp)
}

// Welcome обрабатывает GET /.
func Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Welcome to Community Service Platform API",
		"version": "1.0.0",
		"endpoints": gin.H{
			"health":     "/health",
			"metrics":    "/metrics",
			"workers":    "/api/workers",
			"categories": "/api/categories",
		},
	})
}
