package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/hellojohn-social/internal/http/v2/server"
)

func newAuthenticateCmd(f *rootFlags) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "authenticate",
		Short: "Intercambia un token de Facebook por un access token (uso operativo/debug)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(token) == "" {
				return errors.New("--token es requerido")
			}
			cfg, err := loadConfig(f, true)
			if err != nil {
				return err
			}
			app, err := server.Build(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			cred, err := app.Services.Facebook.Perform(cmd.Context(), token)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cred.Token)
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "Access token de Facebook emitido al cliente")
	return cmd
}
