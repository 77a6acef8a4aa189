package store

import "errors"

// Errores comunes del store.
var (
	// ErrUnknownDriver indica que no hay adapter registrado para el driver.
	ErrUnknownDriver = errors.New("store: unknown driver")

	// ErrNotConfigured indica que falta DSN/addr para el driver elegido.
	ErrNotConfigured = errors.New("store: driver not configured")
)

// IsUnknownDriver helper para verificar si el error es por driver desconocido.
func IsUnknownDriver(err error) bool {
	return errors.Is(err, ErrUnknownDriver)
}
