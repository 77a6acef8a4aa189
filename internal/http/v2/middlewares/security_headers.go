package middlewares

import (
	"net/http"
	"strings"
)

// apiSecurityHeaders cabeceras fijas para respuestas JSON (no servimos HTML).
var apiSecurityHeaders = map[string]string{
	"Referrer-Policy":              "no-referrer",
	"X-Content-Type-Options":       "nosniff",
	"X-Frame-Options":              "DENY",
	"Cross-Origin-Resource-Policy": "same-site",
	"Content-Security-Policy":      "default-src 'none'; frame-ancestors 'none'",
}

// WithSecurityHeaders inyecta cabeceras de seguridad para la API; HSTS solo
// si el request llegó por HTTPS (directo o detrás de proxy).
func WithSecurityHeaders() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for k, v := range apiSecurityHeaders {
				h.Set(k, v)
			}
			if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
				h.Set("Strict-Transport-Security", "max-age=15552000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}
