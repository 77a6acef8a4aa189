package secretbox

import (
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() string {
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = byte(i + 1)
	}
	return base64.StdEncoding.EncodeToString(raw)
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	msg := "hola mundo ✓ secreto"

	ct, err := EncryptWithKey(testKey(), msg)
	require.NoError(t, err)
	assert.Contains(t, ct, "|")

	pt, err := DecryptWithKey(testKey(), ct)
	require.NoError(t, err)
	assert.Equal(t, msg, pt)
}

func TestDecrypt_DetectsTamper(t *testing.T) {
	ct, err := EncryptWithKey(testKey(), "top secret")
	require.NoError(t, err)

	parts := strings.Split(ct, "|")
	require.Len(t, parts, 2)
	bs, err := base64.StdEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	bs[0] ^= 0xFF
	tampered := parts[0] + "|" + base64.StdEncoding.EncodeToString(bs)

	_, err = DecryptWithKey(testKey(), tampered)
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestDecrypt_WrongKey(t *testing.T) {
	ct, err := EncryptWithKey(testKey(), "top secret")
	require.NoError(t, err)

	other, err := GenerateKey()
	require.NoError(t, err)

	_, err = DecryptWithKey(other, ct)
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestDecrypt_Malformed(t *testing.T) {
	_, err := DecryptWithKey(testKey(), "no-separator")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParseKey_Formats(t *testing.T) {
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = byte(200 - i)
	}

	for name, in := range map[string]string{
		"base64":     base64.StdEncoding.EncodeToString(raw),
		"base64-raw": base64.RawStdEncoding.EncodeToString(raw),
		"hex":        hex.EncodeToString(raw),
	} {
		t.Run(name, func(t *testing.T) {
			k, err := ParseKey(in)
			require.NoError(t, err)
			assert.Equal(t, raw, k[:])
		})
	}

	_, err := ParseKey("short")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestReveal(t *testing.T) {
	plain, err := Reveal("", "not-encrypted")
	require.NoError(t, err)
	assert.Equal(t, "not-encrypted", plain)

	ct, err := EncryptWithKey(testKey(), "fb-secret")
	require.NoError(t, err)

	plain, err = Reveal(testKey(), Prefix+ct)
	require.NoError(t, err)
	assert.Equal(t, "fb-secret", plain)

	_, err = Reveal("", Prefix+ct)
	assert.ErrorIs(t, err, ErrInvalidKey)
}
