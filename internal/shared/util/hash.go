package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashText returns the hex-encoded SHA-256 of s.
func HashText(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
