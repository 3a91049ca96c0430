package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// NewBearerToken returns a cryptographically secure random bearer
// token. Tokens are durable and never revoked; only their SHA-256
// hash is stored so a leaked database cannot be replayed against the
// API.
func NewBearerToken() (string, error) {
	return RandomHex(24) // 24 bytes -> 48 hex chars
}

// NewChallenge returns the random single-use challenge bound to one
// auth session.
func NewChallenge() (string, error) {
	return RandomHex(32)
}

// HashToken returns the SHA-256 hash of a raw bearer token as a hex
// string. This is the form stored in and looked up from the tokens
// table.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// RandomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func RandomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
