package jwt

import (
	"context"
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

const (
	AlgHS256 = "HS256"
	AlgEdDSA = "EdDSA"
)

var (
	ErrNoSigningKey      = errors.New("no_signing_key")
	ErrInvalidExpiration = errors.New("invalid_expiration")
)

// TokenIssuer emite credenciales firmadas con vencimiento.
type TokenIssuer interface {
	// Issue firma un token para subject que vence en expirationInMs milisegundos.
	Issue(ctx context.Context, subject string, expirationInMs int64) (string, error)
}

// Issuer firma access tokens con HS256 (secreto compartido) o EdDSA (KeySet).
//
// expirationInMs se convierte a segundos con división entera (trunca hacia
// cero): 1999ms => 1s. Un resultado menor a 1s se rechaza.
type Issuer struct {
	Iss string // "iss"; vacío = se omite el claim

	method    jwtv5.SigningMethod
	signKey   any
	verifyKey any
	keys      *KeySet // solo EdDSA
	now       func() time.Time
}

var _ TokenIssuer = (*Issuer)(nil)

// NewHMACIssuer crea un issuer HS256 con el secreto dado.
func NewHMACIssuer(iss string, secret []byte) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, ErrNoSigningKey
	}
	return &Issuer{
		Iss:       iss,
		method:    jwtv5.SigningMethodHS256,
		signKey:   secret,
		verifyKey: secret,
		now:       time.Now,
	}, nil
}

// NewEdDSAIssuer crea un issuer EdDSA que publica su clave en JWKS.
func NewEdDSAIssuer(iss string, ks *KeySet) (*Issuer, error) {
	if ks == nil || len(ks.Priv) == 0 {
		return nil, ErrNoSigningKey
	}
	return &Issuer{
		Iss:       iss,
		method:    jwtv5.SigningMethodEdDSA,
		signKey:   ks.Priv,
		verifyKey: ks.Pub,
		keys:      ks,
		now:       time.Now,
	}, nil
}

// Alg devuelve el algoritmo de firma ("HS256" | "EdDSA").
func (i *Issuer) Alg() string { return i.method.Alg() }

// ExpiresInSeconds aplica la conversión ms => s que usa Issue.
func ExpiresInSeconds(expirationInMs int64) int64 {
	return expirationInMs / 1000
}

// Issue emite el access token. El payload lleva "key" con el subject
// (compatibilidad con clientes existentes) además de "sub".
func (i *Issuer) Issue(ctx context.Context, subject string, expirationInMs int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	secs := ExpiresInSeconds(expirationInMs)
	if secs <= 0 {
		return "", ErrInvalidExpiration
	}

	now := i.now().UTC()
	claims := jwtv5.MapClaims{
		"key": subject,
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(time.Duration(secs) * time.Second).Unix(),
	}
	if i.Iss != "" {
		claims["iss"] = i.Iss
	}

	tk := jwtv5.NewWithClaims(i.method, claims)
	tk.Header["typ"] = "JWT"
	if i.keys != nil {
		tk.Header["kid"] = i.keys.KID
	}
	return tk.SignedString(i.signKey)
}

// JWKSJSON devuelve el JWKS público; ok=false para HS256 (no hay clave pública).
func (i *Issuer) JWKSJSON() ([]byte, bool) {
	if i.keys == nil {
		return nil, false
	}
	return i.keys.JWKSJSON(), true
}
