// Package health contiene el controller para health checks.
package health

import (
	"encoding/json"
	"net/http"

	dto "github.com/dropDatabas3/hellojohn-social/internal/http/v2/dto/health"
	svc "github.com/dropDatabas3/hellojohn-social/internal/http/v2/services/health"
	"github.com/dropDatabas3/hellojohn-social/internal/observability/logger"
)

// HealthController maneja las rutas de health check.
type HealthController struct {
	service svc.HealthService
}

// NewHealthController crea un nuevo controller de health check.
func NewHealthController(service svc.HealthService) *HealthController {
	return &HealthController{service: service}
}

// Healthz maneja GET /healthz (liveness: el proceso responde).
func (c *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Readyz maneja GET /readyz
func (c *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("HealthController.Readyz"))

	response := c.service.Check(ctx)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if response.Version != "" {
		w.Header().Set("X-Service-Version", response.Version)
	}

	statusCode := http.StatusOK
	if response.Status == "unavailable" {
		statusCode = http.StatusServiceUnavailable
	}

	log.Debug("health check completed",
		logger.String("status", response.Status),
		logger.Int("components_count", len(response.Components)),
	)

	writeJSON(w, statusCode, response)
}

func writeJSON(w http.ResponseWriter, status int, v dto.HealthResponse) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
