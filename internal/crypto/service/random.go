package service

import (
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/robopass/robopass/internal/crypto/domain"
)

// Password generator bounds. The command surface uses DefaultPasswordLength;
// the generator itself accepts any length in [MinPasswordLength, MaxPasswordLength].
const (
	MinPasswordLength     = 10
	MaxPasswordLength     = 128
	DefaultPasswordLength = 16
)

// DefaultPasswordAlphabet is the character set used by the password generator.
var DefaultPasswordAlphabet = []byte(
	"abcdefghijklmnopqrstuvwxyz" +
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
		"0123456789" +
		"!@#$%^&*",
)

// RandomBytes returns n bytes drawn from the operating system's CSPRNG.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return b, nil
}

// GeneratePassword draws length characters uniformly from alphabet.
//
// Rejection sampling keeps the distribution uniform: random bytes at or above
// the largest multiple of len(alphabet) below 256 are discarded instead of
// reduced modulo the alphabet size.
func GeneratePassword(alphabet []byte, length int) (string, error) {
	if length < MinPasswordLength || length > MaxPasswordLength {
		return "", cryptoDomain.ErrInvalidPasswordLength
	}
	if len(alphabet) == 0 || len(alphabet) > 256 {
		return "", cryptoDomain.ErrInvalidPasswordLength
	}

	limit := 256 - 256%len(alphabet)
	out := make([]byte, 0, length)
	buf := make([]byte, 1)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		if int(buf[0]) >= limit {
			continue
		}
		out = append(out, alphabet[int(buf[0])%len(alphabet)])
	}
	return string(out), nil
}
