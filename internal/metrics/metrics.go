package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes de un intento de login social.
const (
	OutcomeSuccess      = "success"
	OutcomeAuthFailed   = "auth_failed"
	OutcomeAccountError = "account_error"
	OutcomeTokenError   = "token_error"
)

var (
	SocialLoginAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "social_login_attempts_total",
		Help: "Intentos de login social por proveedor y resultado",
	}, []string{"provider", "outcome"})

	ProviderStepSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "provider_exchange_step_seconds",
		Help:    "Latencia de cada paso del intercambio de tokens con el proveedor",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
	}, []string{"provider", "step"})

	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Requests HTTP por ruta y status",
	}, []string{"route", "status"})
)

// Register registers the service metrics on the given registry (or default if nil).
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{SocialLoginAttempts, ProviderStepSeconds, HTTPRequests} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
