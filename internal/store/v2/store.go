// Package store abre el store de cuentas según el driver configurado.
//
// Los adapters viven en adapters/<driver> y se registran en init(); el
// binario los importa con blank import:
//
//	import _ "github.com/dropDatabas3/hellojohn-social/internal/store/v2/adapters/pg"
package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dropDatabas3/hellojohn-social/internal/domain/repository"
)

// Store es un AccountRepository con ciclo de vida.
type Store interface {
	repository.AccountRepository

	// Name retorna el driver ("memory", "postgres", ...).
	Name() string
	Ping(ctx context.Context) error
	Close() error
}

// Migratable lo implementan los adapters SQL.
type Migratable interface {
	Migrate(ctx context.Context) (*MigrationResult, error)
}

// Config configuración para abrir un Store.
type Config struct {
	Driver string // memory | postgres | sqlite | redis
	DSN    string // postgres URL o path de sqlite

	// Pool (solo postgres). 0 = defaults del adapter.
	MaxOpenConns int
	MaxIdleConns int

	Redis RedisConfig
}

// RedisConfig configuración del adapter redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// OpenFunc abre un adapter.
type OpenFunc func(ctx context.Context, cfg Config) (Store, error)

var (
	regMu    sync.RWMutex
	adapters = map[string]OpenFunc{}
)

// RegisterAdapter registra un adapter por nombre. Llamar desde init().
func RegisterAdapter(name string, open OpenFunc) {
	regMu.Lock()
	defer regMu.Unlock()
	adapters[strings.ToLower(name)] = open
}

// Drivers lista los drivers registrados, ordenados.
func Drivers() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(adapters))
	for name := range adapters {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Open abre el store del driver configurado ("" = memory).
func Open(ctx context.Context, cfg Config) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		driver = "memory"
	}

	regMu.RLock()
	open, ok := adapters[driver]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %s)", ErrUnknownDriver, driver, strings.Join(Drivers(), ", "))
	}

	s, err := open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", driver, err)
	}
	return s, nil
}

// NormalizeEmail es la clave de unicidad de cuentas: trim + lower.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
