package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// NormalizeSecretAnswer canonicalizes a secret-gate answer before hashing.
// Answers are compared case-insensitively with surrounding whitespace ignored,
// so "Blue " and "blue" unlock the same profile.
func NormalizeSecretAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

// HashSecretAnswer returns the hex-encoded SHA-256 digest of the normalized
// answer. The secret gate is a casual barrier, not a credential store, so a
// plain digest without salt or stretching is intentional.
func HashSecretAnswer(answer string) string {
	digest := sha256.Sum256([]byte(NormalizeSecretAnswer(answer)))
	return hex.EncodeToString(digest[:])
}

// VerifySecretAnswer reports whether the answer matches the stored hash.
func VerifySecretAnswer(answer, storedHash string) bool {
	computed := HashSecretAnswer(answer)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}
