package security

import (
	"crypto/rand"
	"encoding/base64"
)

const verificationTokenBytes = 32

func NewRandomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// NewVerificationToken returns a fresh raw verification secret with 256
// bits of entropy.
func NewVerificationToken() (string, error) {
	return NewRandomString(verificationTokenBytes)
}
