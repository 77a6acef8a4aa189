package repository

import (
	"context"
	"time"
)

// Account es el registro local de un usuario, dueño de su identidad más allá
// de un intento de login.
type Account struct {
	ID         string
	Email      string
	Name       string // vacío = sin nombre local
	ProviderID string // vacío = nunca vinculada a Facebook
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// UpsertAccountInput es el registro reconciliado que se persiste.
// ID vacío => insert; ID presente => update de esa cuenta.
type UpsertAccountInput struct {
	ID         string
	ProviderID string
	Email      string
	Name       string
}

// IsInsert indica si el input dispara el camino de creación.
func (in UpsertAccountInput) IsInsert() bool { return in.ID == "" }

// AccountLoader busca cuentas por email.
type AccountLoader interface {
	// LoadByEmail retorna ErrNotFound si no existe una cuenta con ese email.
	LoadByEmail(ctx context.Context, email string) (*Account, error)
}

// AccountSaver persiste cuentas reconciliadas.
type AccountSaver interface {
	// Save inserta o actualiza según in.ID y retorna el ID de la cuenta.
	// Un insert para un email que ya existe actualiza esa cuenta en vez de
	// duplicarla, preservando un nombre local no vacío.
	Save(ctx context.Context, in UpsertAccountInput) (string, error)
}

// AccountRepository agrupa las capacidades que implementan los adapters.
type AccountRepository interface {
	AccountLoader
	AccountSaver
}
