// Package storetest contiene la suite de conformidad que todo adapter de
// cuentas debe pasar.
package storetest

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/hellojohn-social/internal/domain/repository"
	store "github.com/dropDatabas3/hellojohn-social/internal/store/v2"
)

// Factory crea un store vacío para cada subtest.
type Factory func(t *testing.T) store.Store

// Run ejecuta la suite completa contra el adapter.
func Run(t *testing.T, newStore Factory) {
	t.Run("LoadMissingReturnsNotFound", func(t *testing.T) {
		s := newStore(t)
		acc, err := s.LoadByEmail(context.Background(), "nobody@example.com")
		assert.Nil(t, acc)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("InsertThenLoad", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		id, err := s.Save(ctx, repository.UpsertAccountInput{ProviderID: "fb-1", Email: "jane@example.com", Name: "Jane"})
		require.NoError(t, err)
		require.NotEmpty(t, id)

		acc, err := s.LoadByEmail(ctx, "jane@example.com")
		require.NoError(t, err)
		assert.Equal(t, id, acc.ID)
		assert.Equal(t, "Jane", acc.Name)
		assert.Equal(t, "fb-1", acc.ProviderID)
		assert.Equal(t, "jane@example.com", acc.Email)
		assert.False(t, acc.CreatedAt.IsZero())
	})

	t.Run("EmailLookupIgnoresCase", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		id, err := s.Save(ctx, repository.UpsertAccountInput{ProviderID: "fb-1", Email: "Jane@Example.com", Name: "Jane"})
		require.NoError(t, err)

		acc, err := s.LoadByEmail(ctx, "jane@example.com")
		require.NoError(t, err)
		assert.Equal(t, id, acc.ID)
	})

	t.Run("UpdateByID", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		id, err := s.Save(ctx, repository.UpsertAccountInput{Email: "bob@example.com", Name: "Bob"})
		require.NoError(t, err)

		got, err := s.Save(ctx, repository.UpsertAccountInput{ID: id, ProviderID: "fb-2", Email: "bob@example.com", Name: "Bob"})
		require.NoError(t, err)
		assert.Equal(t, id, got)

		acc, err := s.LoadByEmail(ctx, "bob@example.com")
		require.NoError(t, err)
		assert.Equal(t, "fb-2", acc.ProviderID)
		assert.Equal(t, "Bob", acc.Name)
	})

	t.Run("UpdateUnknownIDReturnsNotFound", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Save(context.Background(), repository.UpsertAccountInput{
			ID:    "00000000-0000-0000-0000-000000000000",
			Email: "ghost@example.com",
		})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("UpdateToEmailInUseIsRejected", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.Save(ctx, repository.UpsertAccountInput{Email: "ann@example.com", Name: "Ann"})
		require.NoError(t, err)
		id, err := s.Save(ctx, repository.UpsertAccountInput{Email: "bea@example.com", Name: "Bea"})
		require.NoError(t, err)

		_, err = s.Save(ctx, repository.UpsertAccountInput{ID: id, Email: "ann@example.com", Name: "Bea"})
		assert.ErrorIs(t, err, repository.ErrInvalidInput)

		acc, err := s.LoadByEmail(ctx, "bea@example.com")
		require.NoError(t, err)
		assert.Equal(t, id, acc.ID)
	})

	t.Run("InsertForExistingEmailUpdatesKeepingLocalName", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		id, err := s.Save(ctx, repository.UpsertAccountInput{Email: "ann@example.com", Name: "Ann Local"})
		require.NoError(t, err)

		again, err := s.Save(ctx, repository.UpsertAccountInput{ProviderID: "fb-3", Email: "ann@example.com", Name: "Ann FB"})
		require.NoError(t, err)
		assert.Equal(t, id, again)

		acc, err := s.LoadByEmail(ctx, "ann@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Ann Local", acc.Name)
		assert.Equal(t, "fb-3", acc.ProviderID)
	})

	t.Run("InsertForExistingEmailAdoptsNameWhenBlank", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		id, err := s.Save(ctx, repository.UpsertAccountInput{Email: "nn@example.com"})
		require.NoError(t, err)

		again, err := s.Save(ctx, repository.UpsertAccountInput{ProviderID: "fb-4", Email: "nn@example.com", Name: "From FB"})
		require.NoError(t, err)
		assert.Equal(t, id, again)

		acc, err := s.LoadByEmail(ctx, "nn@example.com")
		require.NoError(t, err)
		assert.Equal(t, "From FB", acc.Name)
	})

	t.Run("ConcurrentInsertsSameEmailYieldOneAccount", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		const n = 8
		ids := make([]string, n)
		errs := make([]error, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				ids[i], errs[i] = s.Save(ctx, repository.UpsertAccountInput{ProviderID: "fb-5", Email: "race@example.com", Name: "Racer"})
			}(i)
		}
		wg.Wait()

		for i := 0; i < n; i++ {
			require.NoError(t, errs[i])
			assert.Equal(t, ids[0], ids[i])
		}
	})

	t.Run("Ping", func(t *testing.T) {
		s := newStore(t)
		assert.NoError(t, s.Ping(context.Background()))
	})
}
