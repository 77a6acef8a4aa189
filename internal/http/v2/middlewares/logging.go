package middlewares

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dropDatabas3/hellojohn-social/internal/metrics"
	"github.com/dropDatabas3/hellojohn-social/internal/observability/logger"
)

// statusRecorder captura el status escrito por el handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (r *statusRecorder) code() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

// WithLogging inyecta un logger con request_id/method/path en el contexto
// y loguea una línea por request al terminar.
func WithLogging() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			log := logger.L().With(
				logger.RequestID(GetRequestID(r.Context())),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
			)
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r.WithContext(logger.ToContext(r.Context(), log)))

			status := rec.code()
			fields := []zap.Field{logger.Status(status), logger.Duration(time.Since(start)), logger.Int("bytes", rec.bytes)}
			switch {
			case status >= 500:
				log.Error("http", fields...)
			case status >= 400:
				log.Warn("http", fields...)
			default:
				log.Info("http", fields...)
			}
		})
	}
}

// WithMetrics cuenta requests por patrón de ruta chi y status.
func WithMetrics() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.code())).Inc()
		})
	}
}
