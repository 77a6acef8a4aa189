// Package secretbox cifra secretos de configuración (p.ej. el client secret
// del proveedor) con NaCl secretbox (XSalsa20-Poly1305).
//
// Formato: base64(nonce)|base64(ciphertext). La clave maestra son 32 bytes
// en base64, hex o raw.
package secretbox

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	// MasterKeyEnv es la variable de entorno con la clave maestra.
	MasterKeyEnv = "SECRETBOX_MASTER_KEY"

	// Prefix marca un valor de config cifrado.
	Prefix = "enc:"

	keyLength = 32
	nonceSize = 24
	sep       = "|" // nonce|ciphertext (ambos en base64)
)

var (
	// ErrInvalidKey la clave no decodifica a 32 bytes.
	ErrInvalidKey = errors.New("secretbox: invalid key")
	// ErrMalformed el texto cifrado no respeta el formato.
	ErrMalformed = errors.New("secretbox: malformed ciphertext")
	// ErrDecrypt autenticación fallida (clave incorrecta o texto alterado).
	ErrDecrypt = errors.New("secretbox: decryption failed")
)

// ParseKey acepta base64 (std o raw), hex (64 chars) o 32 bytes crudos.
func ParseKey(key string) (*[keyLength]byte, error) {
	key = strings.TrimSpace(key)

	var kb []byte
	if b, err := base64.StdEncoding.DecodeString(key); err == nil && len(b) == keyLength {
		kb = b
	} else if b, err := base64.RawStdEncoding.DecodeString(key); err == nil && len(b) == keyLength {
		kb = b
	} else if len(key) == 2*keyLength {
		if h, err := hex.DecodeString(key); err == nil {
			kb = h
		}
	}
	if kb == nil {
		kb = []byte(key)
	}
	if len(kb) != keyLength {
		return nil, fmt.Errorf("%w: %d bytes (requiere %d)", ErrInvalidKey, len(kb), keyLength)
	}

	var out [keyLength]byte
	copy(out[:], kb)
	return &out, nil
}

// GenerateKey retorna una clave nueva en base64.
func GenerateKey() (string, error) {
	var k [keyLength]byte
	if _, err := io.ReadFull(rand.Reader, k[:]); err != nil {
		return "", fmt.Errorf("secretbox: random key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(k[:]), nil
}

// EncryptWithKey cifra plainText y devuelve base64(nonce)|base64(ciphertext).
func EncryptWithKey(key, plainText string) (string, error) {
	k, err := ParseKey(key)
	if err != nil {
		return "", err
	}

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("secretbox: nonce random: %w", err)
	}
	ct := secretbox.Seal(nil, []byte(plainText), &nonce, k)

	return base64.StdEncoding.EncodeToString(nonce[:]) + sep + base64.StdEncoding.EncodeToString(ct), nil
}

// DecryptWithKey descifra base64(nonce)|base64(ciphertext).
func DecryptWithKey(key, cipherText string) (string, error) {
	k, err := ParseKey(key)
	if err != nil {
		return "", err
	}

	parts := strings.Split(strings.TrimSpace(cipherText), sep)
	if len(parts) != 2 {
		return "", fmt.Errorf("%w: esperado base64(nonce)|base64(ciphertext)", ErrMalformed)
	}
	nonceBytes, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil || len(nonceBytes) != nonceSize {
		return "", fmt.Errorf("%w: nonce", ErrMalformed)
	}
	ct, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("%w: ciphertext", ErrMalformed)
	}

	var nonce [nonceSize]byte
	copy(nonce[:], nonceBytes)
	pt, ok := secretbox.Open(nil, ct, &nonce, k)
	if !ok {
		return "", ErrDecrypt
	}
	return string(pt), nil
}

// Reveal devuelve value tal cual, o lo descifra si lleva el prefijo "enc:".
func Reveal(key, value string) (string, error) {
	if !strings.HasPrefix(value, Prefix) {
		return value, nil
	}
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("%w: %s no seteada; genere una clave con: hellojohn-social keys gen", ErrInvalidKey, MasterKeyEnv)
	}
	return DecryptWithKey(key, strings.TrimPrefix(value, Prefix))
}
