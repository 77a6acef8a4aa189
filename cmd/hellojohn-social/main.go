// Command hellojohn-social sirve y opera el login social con Facebook.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// .env es opcional; las variables del sistema tienen prioridad.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
