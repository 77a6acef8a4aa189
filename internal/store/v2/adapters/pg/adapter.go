// Package pg implementa el adapter PostgreSQL del store de cuentas.
// Usa pgxpool directamente.
package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/hellojohn-social/internal/domain/repository"
	store "github.com/dropDatabas3/hellojohn-social/internal/store/v2"
	"github.com/dropDatabas3/hellojohn-social/migrations"
)

func init() {
	store.RegisterAdapter("postgres", func(ctx context.Context, cfg store.Config) (store.Store, error) {
		return Open(ctx, cfg)
	})
}

// uniqueViolation es el SQLSTATE de unique_violation.
const uniqueViolation = "23505"

// Store implementa store.Store sobre PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// Open crea el pool y verifica la conexión.
func Open(ctx context.Context, cfg store.Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("pg: %w: dsn required", store.ErrNotConfigured)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parse DSN: %w", err)
	}

	// Configurar pool
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	} else {
		poolCfg.MaxConns = 10
	}
	if cfg.MaxIdleConns > 0 {
		poolCfg.MinConns = int32(cfg.MaxIdleConns)
	} else {
		poolCfg.MinConns = 2
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}

	// Verificar conexión
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping failed: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Name() string { return "postgres" }

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Migrate aplica el schema embebido.
func (s *Store) Migrate(ctx context.Context) (*store.MigrationResult, error) {
	m := store.NewMigrator(migrations.FS, migrations.PostgresDir, "postgres")
	return m.Run(ctx, &pgxExecutor{pool: s.pool})
}

func (s *Store) LoadByEmail(ctx context.Context, email string) (*repository.Account, error) {
	const query = `
		SELECT id::text, email, name, provider_id, created_at, updated_at
		FROM account
		WHERE lower(email) = lower($1)`

	var acc repository.Account
	err := s.pool.QueryRow(ctx, query, email).Scan(
		&acc.ID, &acc.Email, &acc.Name, &acc.ProviderID, &acc.CreatedAt, &acc.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg: load account: %w", err)
	}
	return &acc, nil
}

func (s *Store) Save(ctx context.Context, in repository.UpsertAccountInput) (string, error) {
	if store.NormalizeEmail(in.Email) == "" {
		return "", repository.ErrInvalidInput
	}
	now := time.Now().UTC()

	if in.IsInsert() {
		// Un insert concurrente para el mismo email termina en update de la
		// fila ganadora, preservando su nombre si no está vacío.
		const query = `
			INSERT INTO account (id, email, name, provider_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
			ON CONFLICT ((lower(email))) DO UPDATE SET
				email       = EXCLUDED.email,
				provider_id = EXCLUDED.provider_id,
				name        = CASE WHEN btrim(account.name) <> '' THEN account.name ELSE EXCLUDED.name END,
				updated_at  = EXCLUDED.updated_at
			RETURNING id::text`

		var id string
		if err := s.pool.QueryRow(ctx, query, uuid.NewString(), in.Email, in.Name, in.ProviderID, now).Scan(&id); err != nil {
			return "", fmt.Errorf("pg: insert account: %w", err)
		}
		return id, nil
	}

	const query = `
		UPDATE account
		SET email = $2, name = $3, provider_id = $4, updated_at = $5
		WHERE id = $1
		RETURNING id::text`

	var id string
	err := s.pool.QueryRow(ctx, query, in.ID, in.Email, in.Name, in.ProviderID, now).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return "", fmt.Errorf("pg: %w: email already in use", repository.ErrInvalidInput)
	}
	if err != nil {
		return "", fmt.Errorf("pg: update account: %w", err)
	}
	return id, nil
}

// pgxExecutor adapta pgxpool.Pool a store.SQLExecutor.
type pgxExecutor struct {
	pool *pgxpool.Pool
}

func (e *pgxExecutor) ExecSQL(ctx context.Context, query string, args ...any) error {
	_, err := e.pool.Exec(ctx, query, args...)
	return err
}

func (e *pgxExecutor) QueryVersions(ctx context.Context, query string) ([]int, error) {
	rows, err := e.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int])
}
