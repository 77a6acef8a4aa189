// Package health contiene el service para health checks.
package health

import (
	"context"
	"time"

	dto "github.com/dropDatabas3/hellojohn-social/internal/http/v2/dto/health"
	"github.com/dropDatabas3/hellojohn-social/internal/observability/logger"
)

// HealthService define las operaciones de health check.
type HealthService interface {
	Check(ctx context.Context) dto.HealthResponse
}

// Deps contiene las dependencias inyectables para el health service.
type Deps struct {
	Version     string
	StoreName   string
	StoreCheck  func(ctx context.Context) error // ping del store de cuentas
	IssuerCheck func(ctx context.Context) error // firma de un token de prueba
	Timeout     time.Duration
}

type healthService struct {
	deps Deps
}

// NewHealthService crea un nuevo service de health check.
func NewHealthService(deps Deps) HealthService {
	if deps.Timeout <= 0 {
		deps.Timeout = 2 * time.Second
	}
	return &healthService{deps: deps}
}

const componentHealth = "health"

func (s *healthService) Check(ctx context.Context) dto.HealthResponse {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentHealth),
		logger.Op("Check"),
	)

	ctx, cancel := context.WithTimeout(ctx, s.deps.Timeout)
	defer cancel()

	response := dto.HealthResponse{
		Status:     "ready",
		Version:    s.deps.Version,
		Components: make(map[string]dto.HealthStatus, 2),
		Timestamp:  time.Now().UTC(),
	}

	check := func(name string, fn func(context.Context) error) {
		if fn == nil {
			response.Components[name] = dto.HealthStatus{Status: "error", Message: "not initialized"}
			response.Status = "unavailable"
			return
		}
		if err := fn(ctx); err != nil {
			// El detalle queda en logs; el cliente solo ve el estado.
			log.Error(name+" unavailable", logger.Err(err))
			response.Components[name] = dto.HealthStatus{Status: "error", Message: "unavailable"}
			response.Status = "unavailable"
			return
		}
		response.Components[name] = dto.HealthStatus{Status: "ok", Message: s.messageFor(name)}
	}

	check("store", s.deps.StoreCheck)
	check("issuer", s.deps.IssuerCheck)
	return response
}

func (s *healthService) messageFor(name string) string {
	if name == "store" {
		return s.deps.StoreName
	}
	return ""
}
