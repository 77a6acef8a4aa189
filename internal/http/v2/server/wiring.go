// Package server arma el handler HTTP V2 con todas sus dependencias a partir
// de la configuración.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dropDatabas3/hellojohn-social/internal/config"
	healthctrl "github.com/dropDatabas3/hellojohn-social/internal/http/v2/controllers/health"
	oidcctrl "github.com/dropDatabas3/hellojohn-social/internal/http/v2/controllers/oidc"
	socialctrl "github.com/dropDatabas3/hellojohn-social/internal/http/v2/controllers/social"
	"github.com/dropDatabas3/hellojohn-social/internal/http/v2/providers"
	"github.com/dropDatabas3/hellojohn-social/internal/http/v2/providers/facebook"
	"github.com/dropDatabas3/hellojohn-social/internal/http/v2/router"
	healthsvc "github.com/dropDatabas3/hellojohn-social/internal/http/v2/services/health"
	socialsvc "github.com/dropDatabas3/hellojohn-social/internal/http/v2/services/social"
	"github.com/dropDatabas3/hellojohn-social/internal/jwt"
	"github.com/dropDatabas3/hellojohn-social/internal/metrics"
	"github.com/dropDatabas3/hellojohn-social/internal/observability/logger"
	store "github.com/dropDatabas3/hellojohn-social/internal/store/v2"

	// Adapters de store registrados por init().
	_ "github.com/dropDatabas3/hellojohn-social/internal/store/v2/adapters/memory"
	_ "github.com/dropDatabas3/hellojohn-social/internal/store/v2/adapters/pg"
	_ "github.com/dropDatabas3/hellojohn-social/internal/store/v2/adapters/redis"
	_ "github.com/dropDatabas3/hellojohn-social/internal/store/v2/adapters/sqlite"
)

// Version se setea con -ldflags en el build.
var Version = "dev"

// App agrupa lo que necesitan los comandos del CLI.
type App struct {
	Handler  http.Handler
	Store    store.Store
	Issuer   *jwt.Issuer
	Services socialsvc.Services
}

// Close libera el store.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

type options struct {
	registry  *prometheus.Registry
	getClient providers.GetClient
}

// Option personaliza Build (principalmente para tests).
type Option func(*options)

// WithRegistry usa un registry propio para /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// WithGetClient reemplaza el cliente HTTP hacia la Graph API.
func WithGetClient(c providers.GetClient) Option {
	return func(o *options) { o.getClient = c }
}

// Build abre el store, arma issuer, gateway, services, controllers y router.
func Build(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := options{}
	for _, fn := range opts {
		fn(&o)
	}
	log := logger.From(ctx).With(logger.Layer("server"), logger.Op("Build"))

	// 1. Store
	st, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Storage.Migrate {
		if err := Migrate(ctx, st); err != nil {
			_ = st.Close()
			return nil, err
		}
	}

	// 2. Issuer
	issuer, err := BuildIssuer(cfg)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	// 3. Gateway de Facebook
	client := o.getClient
	if client == nil {
		client = providers.NewHTTPGetClient(cfg.Providers.Facebook.Timeout)
	}
	fb := facebook.New(client, facebook.Config{
		ClientID:     cfg.Providers.Facebook.ClientID,
		ClientSecret: cfg.Providers.Facebook.ClientSecret,
		BaseURL:      cfg.Providers.Facebook.BaseURL,
	})

	// 4. Services
	services := socialsvc.NewServices(socialsvc.Deps{
		Facebook: fb,
		Accounts: st,
		Issuer:   issuer,
	})
	health := healthsvc.NewHealthService(healthsvc.Deps{
		Version:     Version,
		StoreName:   st.Name(),
		StoreCheck:  st.Ping,
		IssuerCheck: issuerProbe(issuer),
	})

	// 5. Métricas
	var reg prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if o.registry != nil {
		reg, gatherer = o.registry, o.registry
	}
	if err := metrics.Register(reg); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("server: register metrics: %w", err)
	}

	// 6. Router
	handler := router.New(router.V2RouterDeps{
		Health:   healthctrl.NewHealthController(health),
		JWKS:     oidcctrl.NewJWKSController(issuer),
		Social:   socialctrl.NewFacebookController(services.Facebook),
		Gatherer: gatherer,
	})

	log.Info("v2 handler ready",
		logger.String("store", st.Name()),
		logger.String("jwt_alg", issuer.Alg()),
		logger.Provider(fb.Name()),
	)
	return &App{Handler: handler, Store: st, Issuer: issuer, Services: services}, nil
}

// OpenStore abre el store de cuentas configurado.
func OpenStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	return store.Open(ctx, store.Config{
		Driver:       cfg.Storage.Driver,
		DSN:          cfg.Storage.DSN,
		MaxOpenConns: cfg.Storage.Postgres.MaxOpenConns,
		MaxIdleConns: cfg.Storage.Postgres.MaxIdleConns,
		Redis: store.RedisConfig{
			Addr:     cfg.Storage.Redis.Addr,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
			Prefix:   cfg.Storage.Redis.Prefix,
		},
	})
}

// ErrNotMigratable el driver no tiene schema (memory, redis).
var ErrNotMigratable = errors.New("server: store driver has no schema to migrate")

// Migrate aplica las migraciones si el store las soporta.
func Migrate(ctx context.Context, st store.Store) error {
	m, ok := st.(store.Migratable)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotMigratable, st.Name())
	}
	res, err := m.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("server: migrate %s: %w", st.Name(), err)
	}
	logger.From(ctx).Info("migrations applied",
		logger.String("store", st.Name()),
		logger.Int("applied", len(res.Applied)),
		logger.Int("skipped", len(res.Skipped)),
	)
	return nil
}

// BuildIssuer arma el issuer según jwt.alg.
func BuildIssuer(cfg *config.Config) (*jwt.Issuer, error) {
	switch cfg.JWT.Alg {
	case jwt.AlgEdDSA:
		var (
			ks  *jwt.KeySet
			err error
		)
		if cfg.JWT.SigningSeed != "" {
			ks, err = jwt.KeySetFromSeed(cfg.JWT.KID, cfg.JWT.SigningSeed)
		} else {
			ks, err = jwt.NewDevEd25519(cfg.JWT.KID)
		}
		if err != nil {
			return nil, fmt.Errorf("server: eddsa keys: %w", err)
		}
		return jwt.NewEdDSAIssuer(cfg.JWT.Issuer, ks)
	default:
		return jwt.NewHMACIssuer(cfg.JWT.Issuer, []byte(cfg.JWT.Secret))
	}
}

// issuerProbe firma y verifica un token efímero.
func issuerProbe(issuer *jwt.Issuer) func(context.Context) error {
	return func(ctx context.Context) error {
		tok, err := issuer.Issue(ctx, "readyz", 60_000)
		if err != nil {
			return err
		}
		_, err = issuer.Parse(tok)
		return err
	}
}
