// Package redis implementa el store de cuentas sobre Redis.
//
// Cada cuenta es un hash {prefix}account:{id}; el índice
// {prefix}account:email:{email normalizado} apunta al id. Los inserts se
// hacen con WATCH sobre la clave del índice para no duplicar cuentas.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/hellojohn-social/internal/domain/account"
	"github.com/dropDatabas3/hellojohn-social/internal/domain/repository"
	store "github.com/dropDatabas3/hellojohn-social/internal/store/v2"
)

func init() {
	store.RegisterAdapter("redis", func(ctx context.Context, cfg store.Config) (store.Store, error) {
		return Open(ctx, cfg.Redis)
	})
}

const maxTxRetries = 16

// Store implementa store.Store sobre Redis.
type Store struct {
	rdb    *redis.Client
	prefix string
}

// Open conecta y verifica con PING.
func Open(ctx context.Context, cfg store.RedisConfig) (*Store, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis: %w: addr required", store.ErrNotConfigured)
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "hjs:"
	}
	return &Store{rdb: rdb, prefix: prefix}, nil
}

func (s *Store) Name() string                   { return "redis" }
func (s *Store) Ping(ctx context.Context) error { return s.rdb.Ping(ctx).Err() }
func (s *Store) Close() error                   { return s.rdb.Close() }

func (s *Store) accountKey(id string) string { return s.prefix + "account:" + id }

func (s *Store) emailKey(email string) string {
	return s.prefix + "account:email:" + store.NormalizeEmail(email)
}

func (s *Store) LoadByEmail(ctx context.Context, email string) (*repository.Account, error) {
	id, err := s.rdb.Get(ctx, s.emailKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis: load email index: %w", err)
	}
	return s.load(ctx, s.rdb, id)
}

func (s *Store) Save(ctx context.Context, in repository.UpsertAccountInput) (string, error) {
	if store.NormalizeEmail(in.Email) == "" {
		return "", repository.ErrInvalidInput
	}

	var id string
	txf := func(tx *redis.Tx) error {
		var err error
		id, err = s.saveTx(ctx, tx, in)
		return err
	}

	keys := []string{s.emailKey(in.Email)}
	if !in.IsInsert() {
		keys = append(keys, s.accountKey(in.ID))
	}
	for i := 0; i < maxTxRetries; i++ {
		err := s.rdb.Watch(ctx, txf, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue // otra escritura tocó las claves; reintentar
		}
		if err != nil {
			return "", err
		}
		return id, nil
	}
	return "", fmt.Errorf("redis: save account: too much contention on %s", keys[0])
}

func (s *Store) saveTx(ctx context.Context, tx *redis.Tx, in repository.UpsertAccountInput) (string, error) {
	now := time.Now().UTC()
	emailKey := s.emailKey(in.Email)

	var (
		cur       *repository.Account
		mergeName bool
	)
	if in.IsInsert() {
		existingID, err := tx.Get(ctx, emailKey).Result()
		switch {
		case errors.Is(err, redis.Nil):
			// email nuevo
		case err != nil:
			return "", fmt.Errorf("redis: read email index: %w", err)
		default:
			if cur, err = s.load(ctx, tx, existingID); err != nil {
				return "", err
			}
			mergeName = true
		}
	} else {
		var err error
		if cur, err = s.load(ctx, tx, in.ID); err != nil {
			return "", err
		}
		if owner, err := tx.Get(ctx, emailKey).Result(); err == nil && owner != in.ID {
			return "", fmt.Errorf("redis: %w: email already in use", repository.ErrInvalidInput)
		}
	}

	if cur == nil {
		cur = &repository.Account{ID: uuid.NewString(), CreatedAt: now}
	}
	prevEmailKey := ""
	if cur.Email != "" {
		prevEmailKey = s.emailKey(cur.Email)
	}

	name := in.Name
	if mergeName {
		name = account.MergeName(cur.Name, in.Name)
	}
	cur.Email = in.Email
	cur.Name = name
	cur.ProviderID = in.ProviderID
	cur.UpdatedAt = now

	_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.accountKey(cur.ID), map[string]any{
			"id":          cur.ID,
			"email":       cur.Email,
			"name":        cur.Name,
			"provider_id": cur.ProviderID,
			"created_at":  cur.CreatedAt.UnixMilli(),
			"updated_at":  cur.UpdatedAt.UnixMilli(),
		})
		if prevEmailKey != "" && prevEmailKey != emailKey {
			pipe.Del(ctx, prevEmailKey)
		}
		pipe.Set(ctx, emailKey, cur.ID, 0)
		return nil
	})
	if err != nil {
		return "", err
	}
	return cur.ID, nil
}

func (s *Store) load(ctx context.Context, c redis.Cmdable, id string) (*repository.Account, error) {
	fields, err := c.HGetAll(ctx, s.accountKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: load account: %w", err)
	}
	if len(fields) == 0 {
		return nil, repository.ErrNotFound
	}
	createdAt, _ := strconv.ParseInt(fields["created_at"], 10, 64)
	updatedAt, _ := strconv.ParseInt(fields["updated_at"], 10, 64)
	return &repository.Account{
		ID:         fields["id"],
		Email:      fields["email"],
		Name:       fields["name"],
		ProviderID: fields["provider_id"],
		CreatedAt:  time.UnixMilli(createdAt).UTC(),
		UpdatedAt:  time.UnixMilli(updatedAt).UTC(),
	}, nil
}
