package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// tokenBytes gives 256 bits of entropy per token.
const tokenBytes = 32

// GenerateToken returns an opaque capability token: 32 bytes from a
// cryptographically secure source, hex-encoded to 64 characters. Tokens carry
// no structure and are only ever matched exactly against stored records.
func GenerateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
