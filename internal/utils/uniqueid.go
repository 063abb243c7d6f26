package utils

import (
	"crypto/rand"
	"fmt"

	"github.com/challecara/tsunagulink/internal/constants"
)

// GenerateUniqueID returns a random public profile identifier drawn from the
// 62-symbol alphanumeric alphabet. Bytes from crypto/rand are rejection
// sampled so every symbol is equally likely.
func GenerateUniqueID() (string, error) {
	return generateRandomString(constants.UniqueIDLength, constants.UniqueIDAlphabet)
}

// generateRandomString draws length symbols uniformly from alphabet.
func generateRandomString(length int, alphabet string) (string, error) {
	if length <= 0 || len(alphabet) == 0 || len(alphabet) > 256 {
		return "", fmt.Errorf("invalid random string parameters: length=%d alphabet=%d", length, len(alphabet))
	}

	// Largest multiple of len(alphabet) that fits in a byte; values at or
	// above it are redrawn to avoid modulo bias. Kept as an int: when the
	// alphabet length divides 256 the limit is 256 itself, which a byte
	// would wrap to zero and reject every draw.
	limit := 256 - (256 % len(alphabet))

	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == length {
				break
			}
		}
	}

	return string(out), nil
}
