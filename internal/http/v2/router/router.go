// Package router arma el árbol de rutas V2 sobre chi.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	healthctrl "github.com/dropDatabas3/hellojohn-social/internal/http/v2/controllers/health"
	oidcctrl "github.com/dropDatabas3/hellojohn-social/internal/http/v2/controllers/oidc"
	socialctrl "github.com/dropDatabas3/hellojohn-social/internal/http/v2/controllers/social"
	httperrors "github.com/dropDatabas3/hellojohn-social/internal/http/v2/errors"
)

// V2RouterDeps contains all dependencies for the V2 router.
type V2RouterDeps struct {
	Health *healthctrl.HealthController
	JWKS   *oidcctrl.JWKSController
	Social *socialctrl.FacebookController

	// Gatherer para /metrics; nil = default registry.
	Gatherer prometheus.Gatherer
}

// New construye el handler raíz.
func New(deps V2RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	RegisterHealthRoutes(r, HealthRouterDeps{Controller: deps.Health, Gatherer: deps.Gatherer})
	RegisterSocialRoutes(r, SocialRouterDeps{Facebook: deps.Social, JWKS: deps.JWKS})
	return r
}

func metricsHandler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
