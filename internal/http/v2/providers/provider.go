// Package providers defines the contract between the login orchestrator and
// the identity provider gateways, plus the HTTP GET client they share.
//
// Each provider lives in its own sub-package. Only Facebook is implemented;
// the orchestrator depends on the narrow UserLoader interface so a gateway
// can be swapped for a fake in tests.
package providers

import (
	"context"
	"errors"

	"github.com/dropDatabas3/hellojohn-social/internal/domain/account"
)

// ErrProfileUnavailable es el único error que los gateways exponen hacia
// arriba: token inválido, proveedor caído o respuesta sin datos mapeables
// colapsan acá. La causa va envuelta solo para logs.
var ErrProfileUnavailable = errors.New("provider profile unavailable")

// UserLoader convierte un token presentado por el cliente en un perfil verificado.
type UserLoader interface {
	// LoadUser retorna nil y un error que envuelve ErrProfileUnavailable
	// cuando el perfil no puede verificarse.
	LoadUser(ctx context.Context, clientToken string) (*account.ProviderProfile, error)
}
