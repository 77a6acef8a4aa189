package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/hellojohn-social/internal/config"
	"github.com/dropDatabas3/hellojohn-social/internal/http/v2/server"
	"github.com/dropDatabas3/hellojohn-social/internal/observability/logger"
)

type rootFlags struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}

	root := &cobra.Command{
		Use:           "hellojohn-social",
		Short:         "Login social con Facebook: verifica el token y emite un access token propio",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       server.Version,
	}
	root.PersistentFlags().StringVarP(&f.configPath, "config", "c", envOr("CONFIG_PATH", "config.yaml"),
		"Ruta al YAML de configuración (env CONFIG_PATH); si no existe se usan env + defaults")

	root.AddCommand(
		newServeCmd(f),
		newMigrateCmd(f),
		newAuthenticateCmd(f),
		newKeysCmd(),
	)
	return root
}

// loadConfig carga config e inicializa el logger. stderrOnly manda los logs a
// stderr para no mezclarlos con la salida del comando.
func loadConfig(f *rootFlags, stderrOnly bool) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	lc := logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: cfg.App.Name,
		Version:     server.Version,
	}
	if stderrOnly {
		lc.OutputPaths = []string{"stderr"}
	}
	logger.Init(lc)
	return cfg, nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
