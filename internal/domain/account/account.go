// Package account contiene el modelo de reconciliación entre el perfil
// verificado por el proveedor y la cuenta local.
package account

import (
	"strings"

	"github.com/dropDatabas3/hellojohn-social/internal/domain/repository"
)

// ProviderProfile son los datos de identidad verificados por el proveedor en
// un intento de login. Solo el gateway del proveedor los construye.
type ProviderProfile struct {
	ProviderID string
	Name       string
	Email      string
}

// Reconcile combina el perfil recién verificado con la cuenta existente (o nil).
//
// ProviderID y Email vienen siempre del perfil. El ID se conserva si hay
// cuenta existente. El nombre local no vacío gana; si no hay, se adopta el
// del proveedor.
func Reconcile(profile ProviderProfile, existing *repository.Account) repository.UpsertAccountInput {
	out := repository.UpsertAccountInput{
		ProviderID: profile.ProviderID,
		Email:      profile.Email,
		Name:       profile.Name,
	}
	if existing == nil {
		return out
	}
	out.ID = existing.ID
	if strings.TrimSpace(existing.Name) != "" {
		out.Name = existing.Name
	}
	return out
}

// MergeName aplica la misma regla de precedencia de nombres; la usan los
// adapters cuando un insert concurrente termina actualizando una fila existente.
func MergeName(stored, incoming string) string {
	if strings.TrimSpace(stored) != "" {
		return stored
	}
	return incoming
}
