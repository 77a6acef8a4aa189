package store

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"time"
)

// Las migraciones SQL se embeben en el binario (ver /migrations).
// Formato de archivo: {version}_{name}.sql (ej: 0001_accounts.sql)

// SQLExecutor abstrae pgx vs database/sql para el Migrator.
type SQLExecutor interface {
	// ExecSQL ejecuta una o más sentencias.
	ExecSQL(ctx context.Context, query string, args ...any) error
	// QueryVersions retorna la columna entera de la query.
	QueryVersions(ctx context.Context, query string) ([]int, error)
}

// Migrator aplica migraciones SQL a una base de datos.
type Migrator struct {
	migrationsFS  fs.FS
	migrationsDir string
	driver        string // postgres | sqlite
}

// NewMigrator crea un nuevo Migrator.
func NewMigrator(migrationsFS fs.FS, migrationsDir, driver string) *Migrator {
	return &Migrator{
		migrationsFS:  migrationsFS,
		migrationsDir: migrationsDir,
		driver:        driver,
	}
}

// Migration representa una migración individual.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// MigrationResult resultado de aplicar migraciones.
type MigrationResult struct {
	Applied  []int
	Skipped  []int
	Duration time.Duration
}

// migrationFilePattern patrón para nombres de archivo de migración.
var migrationFilePattern = regexp.MustCompile(`^(\d+)_(.+)\.sql$`)

// ParseMigrations lee y parsea las migraciones del FS embebido, ordenadas por versión.
func (m *Migrator) ParseMigrations() ([]Migration, error) {
	entries, err := fs.ReadDir(m.migrationsFS, m.migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", m.migrationsDir, err)
	}

	var migrations []Migration
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		matches := migrationFilePattern.FindStringSubmatch(e.Name())
		if matches == nil {
			continue // Ignorar archivos que no coinciden
		}
		version, _ := strconv.Atoi(matches[1])
		content, err := fs.ReadFile(m.migrationsFS, path.Join(m.migrationsDir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		migrations = append(migrations, Migration{Version: version, Name: matches[2], SQL: string(content)})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// Run aplica migraciones pendientes. Es idempotente.
func (m *Migrator) Run(ctx context.Context, exec SQLExecutor) (*MigrationResult, error) {
	start := time.Now()
	result := &MigrationResult{}

	if err := exec.ExecSQL(ctx, m.createTableSQL()); err != nil {
		return result, fmt.Errorf("creating migrations table: %w", err)
	}

	versions, err := exec.QueryVersions(ctx, "SELECT version FROM _migrations")
	if err != nil {
		return result, fmt.Errorf("getting applied migrations: %w", err)
	}
	applied := make(map[int]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}

	migrations, err := m.ParseMigrations()
	if err != nil {
		return result, fmt.Errorf("parsing migrations: %w", err)
	}

	for _, mig := range migrations {
		if applied[mig.Version] {
			result.Skipped = append(result.Skipped, mig.Version)
			continue
		}
		if err := exec.ExecSQL(ctx, mig.SQL); err != nil {
			return result, fmt.Errorf("applying migration %d_%s: %w", mig.Version, mig.Name, err)
		}
		if err := exec.ExecSQL(ctx, m.insertVersionSQL(), mig.Version, mig.Name); err != nil {
			return result, fmt.Errorf("recording migration %d_%s: %w", mig.Version, mig.Name, err)
		}
		result.Applied = append(result.Applied, mig.Version)
	}

	result.Duration = time.Since(start)
	return result, nil
}

func (m *Migrator) createTableSQL() string {
	if m.driver == "postgres" {
		return `
			CREATE TABLE IF NOT EXISTS _migrations (
				version INT PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				applied_at TIMESTAMPTZ DEFAULT NOW()
			)`
	}
	return `
		CREATE TABLE IF NOT EXISTS _migrations (
			version INT PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`
}

func (m *Migrator) insertVersionSQL() string {
	if m.driver == "postgres" {
		return "INSERT INTO _migrations (version, name) VALUES ($1, $2)"
	}
	return "INSERT INTO _migrations (version, name) VALUES (?, ?)"
}
