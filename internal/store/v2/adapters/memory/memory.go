// Package memory implementa el store de cuentas en memoria (dev y tests).
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/dropDatabas3/hellojohn-social/internal/domain/account"
	"github.com/dropDatabas3/hellojohn-social/internal/domain/repository"
	store "github.com/dropDatabas3/hellojohn-social/internal/store/v2"
)

func init() {
	store.RegisterAdapter("memory", func(ctx context.Context, cfg store.Config) (store.Store, error) {
		return New(), nil
	})
}

// Store guarda cuentas por id, con índice por email normalizado.
// Las entradas nunca expiran.
type Store struct {
	mu      sync.Mutex
	byID    *gocache.Cache // id -> repository.Account
	byEmail *gocache.Cache // email normalizado -> id
	now     func() time.Time
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		byID:    gocache.New(gocache.NoExpiration, 0),
		byEmail: gocache.New(gocache.NoExpiration, 0),
		now:     time.Now,
	}
}

func (s *Store) Name() string                   { return "memory" }
func (s *Store) Ping(ctx context.Context) error { return nil }
func (s *Store) Close() error                   { return nil }

func (s *Store) LoadByEmail(ctx context.Context, email string) (*repository.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail.Get(store.NormalizeEmail(email))
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s.get(id.(string))
}

func (s *Store) Save(ctx context.Context, in repository.UpsertAccountInput) (string, error) {
	key := store.NormalizeEmail(in.Email)
	if key == "" {
		return "", repository.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()

	if in.IsInsert() {
		id := uuid.NewString()
		if err := s.byEmail.Add(key, id, gocache.NoExpiration); err != nil {
			// Ya existe una cuenta con ese email: se actualiza esa.
			existing, _ := s.byEmail.Get(key)
			return s.update(existing.(string), in, key, now, true)
		}
		s.byID.Set(id, repository.Account{
			ID:         id,
			Email:      in.Email,
			Name:       in.Name,
			ProviderID: in.ProviderID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}, gocache.NoExpiration)
		return id, nil
	}
	return s.update(in.ID, in, key, now, false)
}

func (s *Store) update(id string, in repository.UpsertAccountInput, key string, now time.Time, mergeName bool) (string, error) {
	cur, err := s.get(id)
	if err != nil {
		return "", err
	}
	prevKey := store.NormalizeEmail(cur.Email)
	if prevKey != key {
		if err := s.byEmail.Add(key, id, gocache.NoExpiration); err != nil {
			return "", repository.ErrInvalidInput
		}
		s.byEmail.Delete(prevKey)
	}

	name := in.Name
	if mergeName {
		name = account.MergeName(cur.Name, in.Name)
	}
	cur.Email = in.Email
	cur.Name = name
	cur.ProviderID = in.ProviderID
	cur.UpdatedAt = now
	s.byID.Set(id, *cur, gocache.NoExpiration)
	return id, nil
}

func (s *Store) get(id string) (*repository.Account, error) {
	v, ok := s.byID.Get(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	acc := v.(repository.Account)
	return &acc, nil
}
