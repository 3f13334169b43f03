package service

import (
	"crypto/rand"
)

const (
	nonceLength  = 15
	nonceCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// generateNonce returns a random alphanumeric challenge string. A CSPRNG
// failure is unrecoverable; a challenge must never degrade to predictable
// bytes.
func generateNonce() string {
	b := make([]byte, nonceLength)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	for i := range b {
		b[i] = nonceCharset[int(b[i])%len(nonceCharset)]
	}
	return string(b)
}
