package pg

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	store "github.com/dropDatabas3/hellojohn-social/internal/store/v2"
	"github.com/dropDatabas3/hellojohn-social/internal/store/v2/storetest"
)

// Requiere STORAGE_DSN apuntando a una base descartable.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("STORAGE_DSN")
	if dsn == "" {
		t.Skip("STORAGE_DSN not set")
	}

	storetest.Run(t, func(t *testing.T) store.Store {
		ctx := context.Background()
		s, err := Open(ctx, store.Config{DSN: dsn})
		require.NoError(t, err)
		_, err = s.Migrate(ctx)
		require.NoError(t, err)
		_, err = s.pool.Exec(ctx, "TRUNCATE account")
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}
