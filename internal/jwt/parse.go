package jwt

import (
	"errors"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

var ErrInvalidIssuer = errors.New("invalid_issuer")

// Parse valida firma, algoritmo y exp/iat con la clave del issuer, y
// chequea iss si el issuer tiene uno. Devuelve las claims como map[string]any.
func (i *Issuer) Parse(token string) (map[string]any, error) {
	keyfunc := func(t *jwtv5.Token) (any, error) {
		return i.verifyKey, nil
	}

	tok, err := jwtv5.Parse(token, keyfunc,
		jwtv5.WithValidMethods([]string{i.method.Alg()}),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithIssuedAt(),
		jwtv5.WithTimeFunc(i.now),
	)
	if err != nil || !tok.Valid {
		return nil, errors.New("invalid_jwt")
	}

	claims, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return nil, errors.New("claims_type")
	}
	if i.Iss != "" {
		if iss, _ := claims["iss"].(string); iss != i.Iss {
			return nil, ErrInvalidIssuer
		}
	}

	out := make(map[string]any, len(claims))
	for k, v := range claims {
		out[k] = v
	}
	return out, nil
}
