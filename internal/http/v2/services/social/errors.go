package social

import "errors"

// Service errors.
//
// ErrAuthentication es el único resultado de una verificación fallida y no
// lleva detalle. Los fallos posteriores a una verificación exitosa usan sus
// propios tipos y envuelven la causa con %w para logs.
var (
	ErrAuthentication     = errors.New("authentication failed")
	ErrAccountUnavailable = errors.New("account store unavailable")
	ErrTokenIssue         = errors.New("access token issue failed")
)
