// Package sqlite implementa el adapter SQLite del store de cuentas
// (driver puro Go, sin cgo).
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/dropDatabas3/hellojohn-social/internal/domain/repository"
	store "github.com/dropDatabas3/hellojohn-social/internal/store/v2"
	"github.com/dropDatabas3/hellojohn-social/migrations"
)

func init() {
	store.RegisterAdapter("sqlite", func(ctx context.Context, cfg store.Config) (store.Store, error) {
		return Open(ctx, cfg.DSN)
	})
}

func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMillis(v int64) time.Time { return time.UnixMilli(v).UTC() }

// Store implementa store.Store sobre un archivo SQLite.
type Store struct {
	db *sql.DB
}

// Open abre (o crea) la base en path.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite: %w: path required", store.ErrNotConfigured)
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// Un solo writer: serializa los upserts sin SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Name() string { return "sqlite" }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error { return s.db.Close() }

// Migrate aplica el schema embebido.
func (s *Store) Migrate(ctx context.Context) (*store.MigrationResult, error) {
	m := store.NewMigrator(migrations.FS, migrations.SQLiteDir, "sqlite")
	return m.Run(ctx, &sqlExecutor{db: s.db})
}

func (s *Store) LoadByEmail(ctx context.Context, email string) (*repository.Account, error) {
	const query = `
		SELECT id, email, name, provider_id, created_at, updated_at
		FROM account
		WHERE email = ?`

	var (
		acc                  repository.Account
		createdAt, updatedAt int64
	)
	err := s.db.QueryRowContext(ctx, query, strings.TrimSpace(email)).Scan(
		&acc.ID, &acc.Email, &acc.Name, &acc.ProviderID, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: load account: %w", err)
	}
	acc.CreatedAt = fromMillis(createdAt)
	acc.UpdatedAt = fromMillis(updatedAt)
	return &acc, nil
}

func (s *Store) Save(ctx context.Context, in repository.UpsertAccountInput) (string, error) {
	if store.NormalizeEmail(in.Email) == "" {
		return "", repository.ErrInvalidInput
	}
	now := toMillis(time.Now())
	email := strings.TrimSpace(in.Email)

	if in.IsInsert() {
		const query = `
			INSERT INTO account (id, email, name, provider_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(email) DO UPDATE SET
				email       = excluded.email,
				provider_id = excluded.provider_id,
				name        = CASE WHEN trim(account.name) <> '' THEN account.name ELSE excluded.name END,
				updated_at  = excluded.updated_at
			RETURNING id`

		var id string
		if err := s.db.QueryRowContext(ctx, query, uuid.NewString(), email, in.Name, in.ProviderID, now, now).Scan(&id); err != nil {
			return "", fmt.Errorf("sqlite: insert account: %w", err)
		}
		return id, nil
	}

	const query = `
		UPDATE account
		SET email = ?, name = ?, provider_id = ?, updated_at = ?
		WHERE id = ?
		RETURNING id`

	var id string
	err := s.db.QueryRowContext(ctx, query, email, in.Name, in.ProviderID, now, in.ID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	if isUniqueViolation(err) {
		return "", fmt.Errorf("sqlite: %w: email already in use", repository.ErrInvalidInput)
	}
	if err != nil {
		return "", fmt.Errorf("sqlite: update account: %w", err)
	}
	return id, nil
}

// isUniqueViolation acepta el código extendido o el primario (sin extended result codes).
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || se.Code() == sqlite3.SQLITE_CONSTRAINT
}

// sqlExecutor adapta *sql.DB a store.SQLExecutor.
type sqlExecutor struct {
	db *sql.DB
}

func (e *sqlExecutor) ExecSQL(ctx context.Context, query string, args ...any) error {
	_, err := e.db.ExecContext(ctx, query, args...)
	return err
}

func (e *sqlExecutor) QueryVersions(ctx context.Context, query string) ([]int, error) {
	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
