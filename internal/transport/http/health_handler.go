package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"groobi/internal/services"
	api "groobi/pkg/contracts/api/v1"
)

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	service *services.HealthService
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service *services.HealthService, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "health")),
	}
}

// Alive handles GET /health
func (h *HealthHandler) Alive(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, api.AliveResponse{Status: "alive"})
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, toHealthResponse(h.service.HealthCheck(r.Context())))
}

// ReadinessCheck handles GET /api/health/ready
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := h.service.ReadinessCheck(r.Context())
	if status.Status != "ready" {
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, toHealthResponse(status))
}

// LivenessCheck handles GET /api/health/live
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, toHealthResponse(h.service.LivenessCheck(r.Context())))
}

// Version handles GET /api/version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Version())
}

func toHealthResponse(s services.HealthStatus) api.HealthResponse {
	return api.HealthResponse{
		Status:    s.Status,
		Timestamp: s.Timestamp,
		Version:   s.Version,
		Runtime:   s.Runtime,
		Services:  s.Services,
	}
}
