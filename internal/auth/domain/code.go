package domain

import (
	"crypto/rand"
	"math/big"
)

// GenerateCode returns a 6-digit one-time code drawn from a
// cryptographically secure source. Codes are hashed before storage and
// never logged in plaintext.
func GenerateCode() (string, error) {
	const digits = "0123456789"

	code := make([]byte, CodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		code[i] = digits[n.Int64()]
	}

	return string(code), nil
}
