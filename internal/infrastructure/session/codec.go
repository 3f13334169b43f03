// Package session seals the session id into the tamper-evident encrypted
// cookie carried by the browser. The server-side record itself lives in the
// session store; the cookie only transports the id.
package session

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

var ErrInvalidToken = errors.New("invalid session token")

// Codec seals and opens session ids with XChaCha20-Poly1305.
type Codec struct {
	aead cipher.AEAD
}

// NewCodec creates a Codec from a 32-byte key.
func NewCodec(key []byte) (*Codec, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("session codec: %w", err)
	}
	return &Codec{aead: aead}, nil
}

// Seal encrypts the session id into an opaque URL-safe token.
func (c *Codec) Seal(sessionID string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("session codec: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(sessionID), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open decrypts a token produced by Seal. Any tampering or truncation yields
// ErrInvalidToken.
func (c *Codec) Open(token string) (string, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(sealed) < c.aead.NonceSize() {
		return "", ErrInvalidToken
	}
	nonce, ciphertext := sealed[:c.aead.NonceSize()], sealed[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrInvalidToken
	}
	return string(plain), nil
}
