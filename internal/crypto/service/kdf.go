package service

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/robopass/robopass/internal/crypto/domain"
)

// DeriveMasterKey derives the 32-byte master key from a passphrase and username.
//
// PBKDF2-HMAC-SHA256 with 600 000 iterations and the username bytes as salt.
// Iteration count and salt choice are part of the on-disk contract: deviating
// from them makes existing vault files unreadable.
func DeriveMasterKey(passphrase, username []byte) []byte {
	return pbkdf2.Key(
		passphrase,
		username,
		cryptoDomain.KDFIterations,
		cryptoDomain.KeySize,
		sha256.New,
	)
}
