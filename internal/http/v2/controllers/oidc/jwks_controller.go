// Package oidc contiene el controller de publicación de claves.
package oidc

import (
	"net/http"

	httperrors "github.com/dropDatabas3/hellojohn-social/internal/http/v2/errors"
	"github.com/dropDatabas3/hellojohn-social/internal/observability/logger"
)

// JWKSSource expone el JWKS del issuer; ok=false si el algoritmo es simétrico.
type JWKSSource interface {
	JWKSJSON() ([]byte, bool)
}

// JWKSController maneja GET /.well-known/jwks.json
type JWKSController struct {
	source JWKSSource
}

// NewJWKSController crea un nuevo controller JWKS.
func NewJWKSController(source JWKSSource) *JWKSController {
	return &JWKSController{source: source}
}

// Get maneja GET/HEAD /.well-known/jwks.json
func (c *JWKSController) Get(w http.ResponseWriter, r *http.Request) {
	log := logger.From(r.Context()).With(logger.Layer("controller"), logger.Op("JWKSController.Get"))

	data, ok := c.source.JWKSJSON()
	if !ok {
		// HS256: no hay clave pública que publicar.
		log.Debug("jwks requested with symmetric signing")
		httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail("no public keys published"))
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(data)
}
