package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomHex returns n random bytes hex encoded.
func RandomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateSealKey generates a key suitable for TOKEN_SEAL_KEY.
func GenerateSealKey() (string, error) {
	return RandomHex(32)
}
