package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ok(context.Context) error { return nil }

func TestCheck_Ready(t *testing.T) {
	svc := NewHealthService(Deps{Version: "1.2.3", StoreName: "memory", StoreCheck: ok, IssuerCheck: ok})

	resp := svc.Check(context.Background())

	assert.Equal(t, "ready", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Equal(t, "ok", resp.Components["store"].Status)
	assert.Equal(t, "memory", resp.Components["store"].Message)
	assert.Equal(t, "ok", resp.Components["issuer"].Status)
}

func TestCheck_StoreDownHidesCause(t *testing.T) {
	svc := NewHealthService(Deps{
		StoreCheck:  func(context.Context) error { return errors.New("dial tcp 10.1.1.1:5432") },
		IssuerCheck: ok,
	})

	resp := svc.Check(context.Background())

	assert.Equal(t, "unavailable", resp.Status)
	assert.Equal(t, "error", resp.Components["store"].Status)
	assert.NotContains(t, resp.Components["store"].Message, "10.1.1.1")
}

func TestCheck_MissingDependency(t *testing.T) {
	resp := NewHealthService(Deps{StoreCheck: ok}).Check(context.Background())

	assert.Equal(t, "unavailable", resp.Status)
	assert.Equal(t, "not initialized", resp.Components["issuer"].Message)
}
