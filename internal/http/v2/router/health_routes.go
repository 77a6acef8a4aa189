package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	ctrl "github.com/dropDatabas3/hellojohn-social/internal/http/v2/controllers/health"
	mw "github.com/dropDatabas3/hellojohn-social/internal/http/v2/middlewares"
)

// HealthRouterDeps contiene las dependencias para el router de health.
type HealthRouterDeps struct {
	Controller *ctrl.HealthController
	Gatherer   prometheus.Gatherer
}

// RegisterHealthRoutes registra liveness, readiness y métricas. Públicas, sin auth.
func RegisterHealthRoutes(r chi.Router, deps HealthRouterDeps) {
	r.Group(func(r chi.Router) {
		r.Use(healthChain()...)

		r.Get("/healthz", deps.Controller.Healthz)
		r.Get("/readyz", deps.Controller.Readyz)
		r.Method(http.MethodGet, "/metrics", metricsHandler(deps.Gatherer))
	})
}

// healthChain: sin logging para health checks (muy frecuentes).
func healthChain() []func(http.Handler) http.Handler {
	return toChi(
		mw.WithRecover(),
		mw.WithRequestID(),
	)
}

func toChi(mws ...mw.Middleware) []func(http.Handler) http.Handler {
	out := make([]func(http.Handler) http.Handler, len(mws))
	for i, m := range mws {
		out[i] = m
	}
	return out
}
