package jwt

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func newHMAC(t *testing.T) *Issuer {
	t.Helper()
	iss, err := NewHMACIssuer("", []byte("any_secret"))
	require.NoError(t, err)
	return iss
}

func TestIssue_SignsKeyAndExpiresInSeconds(t *testing.T) {
	iss := newHMAC(t)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	iss.now = fixedClock(now)

	tok, err := iss.Issue(context.Background(), "any_key", 1000)
	require.NoError(t, err)

	claims := jwtv5.MapClaims{}
	_, err = jwtv5.ParseWithClaims(tok, claims, func(*jwtv5.Token) (any, error) {
		return []byte("any_secret"), nil
	}, jwtv5.WithTimeFunc(fixedClock(now)))
	require.NoError(t, err)

	assert.Equal(t, "any_key", claims["key"])
	assert.Equal(t, "any_key", claims["sub"])
	assert.EqualValues(t, now.Unix(), claims["iat"])
	assert.EqualValues(t, now.Unix()+1, claims["exp"])
	_, hasIss := claims["iss"]
	assert.False(t, hasIss)
}

func TestIssue_TruncatesMilliseconds(t *testing.T) {
	assert.EqualValues(t, 1, ExpiresInSeconds(1999))
	assert.EqualValues(t, 1800, ExpiresInSeconds(30*60*1000))
	assert.EqualValues(t, 0, ExpiresInSeconds(999))

	_, err := newHMAC(t).Issue(context.Background(), "any_key", 999)
	assert.ErrorIs(t, err, ErrInvalidExpiration)
}

func TestIssue_RespectsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newHMAC(t).Issue(ctx, "any_key", 1000)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewHMACIssuer_RequiresSecret(t *testing.T) {
	_, err := NewHMACIssuer("iss", nil)
	assert.ErrorIs(t, err, ErrNoSigningKey)
}

func TestParse_RoundTripAndExpiry(t *testing.T) {
	iss, err := NewHMACIssuer("https://auth.example", []byte("s3cret"))
	require.NoError(t, err)
	now := time.Now().UTC().Truncate(time.Second)
	iss.now = fixedClock(now)

	tok, err := iss.Issue(context.Background(), "acct-1", 60_000)
	require.NoError(t, err)

	claims, err := iss.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "acct-1", claims["sub"])
	assert.Equal(t, "https://auth.example", claims["iss"])

	iss.now = fixedClock(now.Add(2 * time.Minute))
	_, err = iss.Parse(tok)
	assert.Error(t, err)
}

func TestParse_RejectsForeignSignature(t *testing.T) {
	other, err := NewHMACIssuer("", []byte("other"))
	require.NoError(t, err)
	tok, err := other.Issue(context.Background(), "acct-1", 60_000)
	require.NoError(t, err)

	_, err = newHMAC(t).Parse(tok)
	assert.Error(t, err)
}

func TestEdDSAIssuer_PublishesJWKS(t *testing.T) {
	ks, err := NewDevEd25519("dev-1")
	require.NoError(t, err)
	iss, err := NewEdDSAIssuer("", ks)
	require.NoError(t, err)
	assert.Equal(t, AlgEdDSA, iss.Alg())

	tok, err := iss.Issue(context.Background(), "acct-1", 60_000)
	require.NoError(t, err)

	parsed, _, err := jwtv5.NewParser().ParseUnverified(tok, jwtv5.MapClaims{})
	require.NoError(t, err)
	assert.Equal(t, "dev-1", parsed.Header["kid"])

	claims, err := iss.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "acct-1", claims["key"])

	raw, ok := iss.JWKSJSON()
	require.True(t, ok)
	var set struct {
		Keys []map[string]string `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(raw, &set))
	require.Len(t, set.Keys, 1)
	assert.Equal(t, "dev-1", set.Keys[0]["kid"])
	assert.Equal(t, "OKP", set.Keys[0]["kty"])

	_, ok = newHMAC(t).JWKSJSON()
	assert.False(t, ok)
}

func TestKeySetFromSeed_IsDeterministic(t *testing.T) {
	seed := "AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8="
	a, err := KeySetFromSeed("k", seed)
	require.NoError(t, err)
	b, err := KeySetFromSeed("k", seed)
	require.NoError(t, err)
	assert.Equal(t, a.Pub, b.Pub)

	_, err = KeySetFromSeed("k", "c2hvcnQ=")
	assert.Error(t, err)
}
