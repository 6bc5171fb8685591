package security

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashVerificationToken derives the storable digest of a raw verification
// secret. The raw value itself must never be persisted; lookups always go
// through this digest.
func HashVerificationToken(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:])
}

func HashRefreshToken(raw, pepper string) string {
	h := sha256.Sum256([]byte(raw + ":" + pepper))
	return hex.EncodeToString(h[:])
}
