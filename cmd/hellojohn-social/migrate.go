package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/hellojohn-social/internal/http/v2/server"
)

func newMigrateCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica el schema de cuentas (postgres | sqlite)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(f, true)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			st, err := server.OpenStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := server.Migrate(ctx, st); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations ok (%s)\n", st.Name())
			return nil
		},
	}
}
