// Package service implements the cryptographic services behind the vault:
// random generation, passphrase key derivation, authenticated blob encryption
// and data-key wrapping.
package service

import (
	cryptoDomain "github.com/robopass/robopass/internal/crypto/domain"
)

// AEAD defines authenticated encryption with associated data operations.
//
// Implementations use a 32-byte key, a 12-byte nonce and a 16-byte tag.
// A fresh random nonce is generated on every Encrypt call.
type AEAD interface {
	// Encrypt encrypts plaintext and returns the ciphertext (with tag) and the nonce used.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext with the provided nonce, verifying the tag.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)

	// NonceSize returns the nonce size in bytes.
	NonceSize() int
}

// AEADManager creates AEAD cipher instances for a given key and algorithm.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance based on the specified algorithm.
	// The key must be exactly 32 bytes.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// BlobCipher seals and opens self-describing encrypted byte strings.
//
// A sealed blob is the nonce followed by the ciphertext-with-tag; the layout is
// internal to this component, callers only rely on the blob being opaque and
// authenticated.
type BlobCipher interface {
	// Seal encrypts plaintext under key and returns a self-describing blob.
	Seal(plaintext, key []byte) ([]byte, error)

	// Open authenticates and decrypts a blob produced by Seal.
	Open(blob, key []byte) ([]byte, error)
}

// KeyWrapper wraps and unwraps the 32-byte data key under the master key.
//
// Wrapping uses a stream cipher so the wrapped ciphertext stays exactly 32
// bytes. The pair (wrapped key, nonce) is written verbatim to disk; it is not
// separately authenticated because the outer blob authenticates the vault
// content, and a corrupted wrapped key yields a data key that fails to open it.
type KeyWrapper interface {
	// Wrap encrypts dataKey under masterKey with a fresh 16-byte nonce.
	Wrap(masterKey, dataKey []byte) (wrapped, nonce []byte, err error)

	// Unwrap recovers the data key from its wrapped form.
	Unwrap(masterKey, wrapped, nonce []byte) ([]byte, error)
}
