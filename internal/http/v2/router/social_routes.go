package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	oidcctrl "github.com/dropDatabas3/hellojohn-social/internal/http/v2/controllers/oidc"
	socialctrl "github.com/dropDatabas3/hellojohn-social/internal/http/v2/controllers/social"
	mw "github.com/dropDatabas3/hellojohn-social/internal/http/v2/middlewares"
)

// SocialRouterDeps contiene las dependencias para el router de login social.
type SocialRouterDeps struct {
	Facebook *socialctrl.FacebookController
	JWKS     *oidcctrl.JWKSController
}

// RegisterSocialRoutes registra el login con Facebook y la publicación de claves.
func RegisterSocialRoutes(r chi.Router, deps SocialRouterDeps) {
	// POST /v2/auth/social/facebook
	r.Group(func(r chi.Router) {
		r.Use(authChain()...)
		r.Post("/v2/auth/social/facebook", deps.Facebook.Login)
	})

	// GET /.well-known/jwks.json
	r.Group(func(r chi.Router) {
		r.Use(toChi(mw.WithRecover(), mw.WithRequestID(), mw.WithLogging(), mw.WithMetrics())...)
		r.Get("/.well-known/jwks.json", deps.JWKS.Get)
		r.Head("/.well-known/jwks.json", deps.JWKS.Get)
	})
}

// authChain: endpoints que devuelven tokens.
func authChain() []func(http.Handler) http.Handler {
	return toChi(
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithLogging(),
		mw.WithSecurityHeaders(),
		mw.WithNoStore(),
		mw.WithMetrics(),
	)
}
