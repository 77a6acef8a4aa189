package logger

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// =================================================================================
// CAMPOS ESTÁNDAR - HTTP
// =================================================================================

// RequestID crea un campo para el ID del request.
func RequestID(v string) zap.Field { return zap.String("request_id", v) }

// Method crea un campo para el método HTTP.
func Method(v string) zap.Field { return zap.String("method", v) }

// Path crea un campo para el path del request.
func Path(v string) zap.Field { return zap.String("path", v) }

// Status crea un campo para el status code HTTP.
func Status(v int) zap.Field { return zap.Int("status", v) }

// Duration crea un campo para la duración de una operación.
func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }

// =================================================================================
// CAMPOS ESTÁNDAR - SOCIAL LOGIN
// =================================================================================

// Provider crea un campo para el proveedor de identidad ("facebook").
func Provider(v string) zap.Field { return zap.String("provider", v) }

// ProviderID crea un campo para el ID del usuario en el proveedor.
func ProviderID(v string) zap.Field { return zap.String("provider_id", v) }

// Step crea un campo para el paso del intercambio de tokens.
func Step(v string) zap.Field { return zap.String("step", v) }

// UserID crea un campo para el ID de la cuenta local.
func UserID(v string) zap.Field { return zap.String("user_id", v) }

// EmailMasked crea un campo con el email enmascarado (primeros 2 chars + @dominio).
func EmailMasked(email string) zap.Field { return zap.String("email_masked", MaskEmail(email)) }

// MaskEmail enmascara un email para logs.
func MaskEmail(email string) string {
	if len(email) < 3 {
		return "***"
	}
	at := strings.IndexByte(email, '@')
	if at < 2 {
		return email[:2] + "***"
	}
	return email[:2] + "***" + email[at:]
}

// =================================================================================
// CAMPOS ESTÁNDAR - SISTEMA
// =================================================================================

// Component crea un campo para el componente/módulo.
func Component(v string) zap.Field { return zap.String("component", v) }

// Op crea un campo para la operación actual.
func Op(v string) zap.Field { return zap.String("op", v) }

// Layer crea un campo para la capa (controller, service, repository).
func Layer(v string) zap.Field { return zap.String("layer", v) }

// Err crea un campo para un error.
func Err(err error) zap.Field { return zap.Error(err) }

// String crea un campo string genérico.
func String(key, v string) zap.Field { return zap.String(key, v) }

// Int crea un campo int genérico.
func Int(key string, v int) zap.Field { return zap.Int(key, v) }

// Any crea un campo genérico para cualquier tipo.
func Any(key string, v any) zap.Field { return zap.Any(key, v) }
