package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/hellojohn-social/internal/http/v2/server"
	"github.com/dropDatabas3/hellojohn-social/internal/observability/logger"
)

func newServeCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(f, false)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := server.Build(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := app.Close(); err != nil {
					logger.L().Warn("store close error", logger.Err(err))
				}
			}()

			srv := &http.Server{
				Addr:         cfg.Server.Addr,
				Handler:      app.Handler,
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				logger.L().Info("http server listening", logger.String("addr", cfg.Server.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				logger.L().Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}
}
