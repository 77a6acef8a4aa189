// Package social contiene los services del dominio social login.
package social

import (
	"github.com/dropDatabas3/hellojohn-social/internal/domain/repository"
	"github.com/dropDatabas3/hellojohn-social/internal/http/v2/providers"
	"github.com/dropDatabas3/hellojohn-social/internal/jwt"
)

// Deps contiene las dependencias para crear los services social.
type Deps struct {
	Facebook providers.UserLoader         // gateway de Facebook
	Accounts repository.AccountRepository // store de cuentas (load + save)
	Issuer   jwt.TokenIssuer              // firma de access tokens
}

// Services agrupa todos los services del dominio social.
type Services struct {
	Facebook FacebookAuthService
}

// NewServices crea el agregador de services social.
func NewServices(d Deps) Services {
	return Services{
		Facebook: NewFacebookAuthService(FacebookAuthDeps{
			Users:    d.Facebook,
			Accounts: d.Accounts,
			Saver:    d.Accounts,
			Tokens:   d.Issuer,
		}),
	}
}
