package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/hellojohn-social/internal/security/secretbox"
)

func newKeysCmd() *cobra.Command {
	keys := &cobra.Command{
		Use:   "keys",
		Short: "Utilidades de claves y secretos de configuración",
	}

	gen := &cobra.Command{
		Use:   "gen",
		Short: "Genera una clave maestra nueva (base64, 32 bytes) para " + secretbox.MasterKeyEnv,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := secretbox.GenerateKey()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), k)
			return nil
		},
	}

	encrypt := &cobra.Command{
		Use:   "encrypt [value]",
		Short: "Cifra un secreto (p.ej. el client secret) y lo imprime con prefijo enc:",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := os.Getenv(secretbox.MasterKeyEnv)
			if key == "" {
				return fmt.Errorf("%s no seteada", secretbox.MasterKeyEnv)
			}
			value, err := readValue(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			ct, err := secretbox.EncryptWithKey(key, value)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), secretbox.Prefix+ct)
			return nil
		},
	}

	keys.AddCommand(gen, encrypt)
	return keys
}

// readValue toma el valor del argumento o, si no hay, de stdin (evita dejarlo en el historial).
func readValue(in io.Reader, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	b, err := io.ReadAll(io.LimitReader(in, 64<<10))
	if err != nil {
		return "", err
	}
	v := strings.TrimSpace(string(b))
	if v == "" {
		return "", errors.New("valor vacío")
	}
	return v, nil
}
