package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMaskEmail(t *testing.T) {
	cases := map[string]string{
		"jane@x.com": "ja***@x.com",
		"a@b.co":     "a@***",
		"ab":         "***",
		"noatsign":   "no***",
	}
	for in, want := range cases {
		assert.Equal(t, want, MaskEmail(in), in)
	}
}

func TestFrom_FallsBackToSingleton(t *testing.T) {
	nop := zap.NewNop()
	Replace(nop)

	assert.Same(t, nop, From(context.Background()))

	scoped := nop.With(RequestID("r-1"))
	ctx := ToContext(context.Background(), scoped)
	assert.Same(t, scoped, From(ctx))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "debug", parseLevel("DEBUG").String())
	assert.Equal(t, "warn", parseLevel("warning").String())
	assert.Equal(t, "info", parseLevel("").String())
}
