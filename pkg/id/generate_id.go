package id

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID32 returns a fresh public identifier: exactly 32 lowercase hex
// characters, no separators or prefixes.
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Valid reports whether s has the NewID32 shape. Useful to short-circuit
// lookups for identifiers that cannot possibly exist.
func Valid(s string) bool {
	if len(s) != 32 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
