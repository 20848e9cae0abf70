package service

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	cryptoDomain "github.com/robopass/robopass/internal/crypto/domain"
)

// KeyWrapperService wraps the 32-byte data key under the master key using
// AES-256-CTR with a 16-byte nonce as the initial counter block.
//
// A stream cipher keeps the wrapped ciphertext at exactly 32 bytes. The wrap is
// deliberately unauthenticated: a wrong master key produces a wrong data key,
// which then fails to open the authenticated vault blob. That failure is how
// bad passphrases are detected.
type KeyWrapperService struct{}

// NewKeyWrapper creates a new KeyWrapperService instance.
func NewKeyWrapper() *KeyWrapperService {
	return &KeyWrapperService{}
}

// Wrap encrypts dataKey under masterKey with a fresh random 16-byte nonce.
// Both keys must be exactly 32 bytes. Returns the 32-byte wrapped key and the nonce.
func (kw *KeyWrapperService) Wrap(masterKey, dataKey []byte) (wrapped, nonce []byte, err error) {
	if len(masterKey) != cryptoDomain.KeySize || len(dataKey) != cryptoDomain.KeySize {
		return nil, nil, cryptoDomain.ErrInvalidKeySize
	}

	nonce, err = RandomBytes(cryptoDomain.WrapNonceSize)
	if err != nil {
		return nil, nil, err
	}

	wrapped, err = kw.apply(masterKey, dataKey, nonce)
	if err != nil {
		return nil, nil, err
	}
	return wrapped, nonce, nil
}

// Unwrap recovers the data key from its wrapped form. CTR mode is symmetric,
// so unwrapping is the same keystream application as wrapping.
func (kw *KeyWrapperService) Unwrap(masterKey, wrapped, nonce []byte) ([]byte, error) {
	if len(masterKey) != cryptoDomain.KeySize || len(wrapped) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	if len(nonce) != cryptoDomain.WrapNonceSize {
		return nil, cryptoDomain.ErrInvalidNonceSize
	}

	return kw.apply(masterKey, wrapped, nonce)
}

// apply runs the AES-CTR keystream over src with nonce as the IV.
func (kw *KeyWrapperService) apply(key, src, nonce []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	dst := make([]byte, len(src))
	cipher.NewCTR(block, nonce).XORKeyStream(dst, src)
	return dst, nil
}
