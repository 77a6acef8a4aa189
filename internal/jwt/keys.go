package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// KeySet mantiene una sola clave Ed25519 activa. Sin rotación: un reinicio con
// seed configurado conserva el KID y la clave.
type KeySet struct {
	Priv ed25519.PrivateKey
	Pub  ed25519.PublicKey
	KID  string
	Alg  string // "EdDSA"
}

// NewDevEd25519 genera una clave Ed25519 en memoria con un KID dado.
func NewDevEd25519(kid string) (*KeySet, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &KeySet{Priv: priv, Pub: pub, KID: kid, Alg: AlgEdDSA}, nil
}

// KeySetFromSeed reconstruye la clave desde un seed de 32 bytes en base64 (std o url).
func KeySetFromSeed(kid, seedB64 string) (*KeySet, error) {
	seedB64 = strings.TrimSpace(seedB64)
	seed, err := base64.StdEncoding.DecodeString(seedB64)
	if err != nil {
		if seed, err = base64.RawURLEncoding.DecodeString(seedB64); err != nil {
			return nil, fmt.Errorf("decode ed25519 seed: %w", err)
		}
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("ed25519 seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return &KeySet{
		Priv: priv,
		Pub:  priv.Public().(ed25519.PublicKey),
		KID:  kid,
		Alg:  AlgEdDSA,
	}, nil
}

// ----- JWKS (serialización) -----

type jwk struct {
	Kty string `json:"kty"` // "OKP"
	Crv string `json:"crv"` // "Ed25519"
	Kid string `json:"kid"`
	Alg string `json:"alg"` // "EdDSA"
	Use string `json:"use"` // "sig"
	X   string `json:"x"`   // base64url(pub)
}

type jwks struct {
	Keys []jwk `json:"keys"`
}

// JWKSJSON devuelve el JWKS (solo la pública) en JSON.
func (k *KeySet) JWKSJSON() []byte {
	b, _ := json.Marshal(jwks{Keys: []jwk{{
		Kty: "OKP",
		Crv: "Ed25519",
		Kid: k.KID,
		Alg: k.Alg,
		Use: "sig",
		X:   base64.RawURLEncoding.EncodeToString(k.Pub),
	}}})
	return b
}
