// Package domain defines core cryptographic domain models for the vault's
// two-layer key wrap: passphrase-derived master key → data key → vault blob.
package domain

import (
	"github.com/robopass/robopass/internal/errors"
)

// Cryptographic operation errors.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the cryptographic key size is invalid (must be 32 bytes).
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidNonceSize indicates the key-wrap nonce size is invalid (must be 16 bytes).
	ErrInvalidNonceSize = errors.Wrap(errors.ErrInvalidInput, "invalid nonce size")

	// ErrDecryptionFailed indicates decryption failed due to wrong key or corrupted data.
	ErrDecryptionFailed = errors.Wrap(errors.ErrUnauthorized, "decryption failed")

	// ErrInvalidBlob indicates an encrypted blob is too short to carry a nonce and tag.
	ErrInvalidBlob = errors.Wrap(errors.ErrInvalidInput, "invalid encrypted blob")

	// ErrInvalidPasswordLength indicates a generated password length outside [10, 128].
	// The generator also returns it for an empty alphabet or one longer than 256 bytes.
	ErrInvalidPasswordLength = errors.Wrap(errors.ErrInvalidInput, "password length out of range")
)
