package service

import (
	cryptoDomain "github.com/robopass/robopass/internal/crypto/domain"
)

// BlobCipherService seals and opens self-describing encrypted blobs.
//
// A sealed blob is `nonce ‖ ciphertext-with-tag`. Which AEAD produced it is not
// recorded in the blob; the configured algorithm must match on both sides.
type BlobCipherService struct {
	aeadManager AEADManager
	algorithm   cryptoDomain.Algorithm
}

// NewBlobCipher creates a BlobCipherService using the given AEAD manager and algorithm.
func NewBlobCipher(aeadManager AEADManager, alg cryptoDomain.Algorithm) *BlobCipherService {
	return &BlobCipherService{
		aeadManager: aeadManager,
		algorithm:   alg,
	}
}

// Seal encrypts plaintext under key and returns the nonce-prefixed blob.
func (b *BlobCipherService) Seal(plaintext, key []byte) ([]byte, error) {
	aead, err := b.aeadManager.CreateCipher(key, b.algorithm)
	if err != nil {
		return nil, err
	}

	ciphertext, nonce, err := aead.Encrypt(plaintext, nil)
	if err != nil {
		return nil, err
	}

	blob := make([]byte, 0, len(nonce)+len(ciphertext))
	blob = append(blob, nonce...)
	blob = append(blob, ciphertext...)
	return blob, nil
}

// Open authenticates and decrypts a blob produced by Seal.
// Returns ErrInvalidBlob when the blob is too short to carry a nonce and tag,
// and ErrDecryptionFailed when the tag does not verify.
func (b *BlobCipherService) Open(blob, key []byte) ([]byte, error) {
	aead, err := b.aeadManager.CreateCipher(key, b.algorithm)
	if err != nil {
		return nil, err
	}

	// Both supported AEADs append a 16-byte tag.
	const tagSize = 16
	nonceSize := aead.NonceSize()
	if len(blob) < nonceSize+tagSize {
		return nil, cryptoDomain.ErrInvalidBlob
	}

	return aead.Decrypt(blob[nonceSize:], blob[:nonceSize], nil)
}
