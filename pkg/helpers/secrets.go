package helpers

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateSecretKey returns n random bytes hex-encoded. Used for the JWT
// secret, session ids, and the encryption key when none is configured.
func GenerateSecretKey(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing means the process has no usable entropy source.
		panic(err)
	}
	return hex.EncodeToString(b)
}

// GenerateSessionID returns a 64-hex-char session identifier.
func GenerateSessionID() string {
	return GenerateSecretKey(32)
}
