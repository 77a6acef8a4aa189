package middlewares

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// HeaderRequestID header de entrada/salida del request ID.
const HeaderRequestID = "X-Request-ID"

// maxRequestIDLen evita que un cliente inyecte IDs enormes en los logs.
const maxRequestIDLen = 128

// WithRequestID genera o propaga un Request ID único para cada request.
// Si el cliente envía X-Request-ID, lo usa. Si no, genera uno nuevo.
func WithRequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := strings.TrimSpace(r.Header.Get(HeaderRequestID))
			if rid == "" || len(rid) > maxRequestIDLen {
				rid = uuid.NewString()
			}

			w.Header().Set(HeaderRequestID, rid)
			next.ServeHTTP(w, r.WithContext(setRequestID(r.Context(), rid)))
		})
	}
}
