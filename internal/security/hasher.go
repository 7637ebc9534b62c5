package security

import (
	"crypto/sha256"
	"encoding/hex"
)

// PasswordHasher converts a plain password into the comparable form stored
// on the customer record. Credential lookup is exact-match over this form,
// so the hash must be deterministic.
type PasswordHasher interface {
	Hash(plain string) string
}

// SHA256Hasher is the default comparable form: hex-encoded SHA-256.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
