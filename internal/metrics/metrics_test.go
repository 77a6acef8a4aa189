package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRegister_Idempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	require.NoError(t, Register(reg))
}

func TestSocialLoginAttempts_CountsByOutcome(t *testing.T) {
	c := SocialLoginAttempts.WithLabelValues("facebook", OutcomeAuthFailed)
	before := testutil.ToFloat64(c)
	c.Inc()
	require.Equal(t, before+1, testutil.ToFloat64(c))
}
