package domain

// Algorithm represents the AEAD algorithm protecting the vault blob.
//
// Both supported algorithms provide authenticated encryption with a 32-byte key,
// a 12-byte nonce and a 16-byte tag. Both sides of the envelope must agree on the
// algorithm: the on-disk format carries no version byte, so changing it makes
// existing vault files unreadable.
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents the ChaCha20-Poly1305 authenticated encryption algorithm.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

const (
	// KeySize is the size in bytes of every symmetric key in the system:
	// the passphrase-derived master key and the random data key.
	KeySize = 32

	// WrapNonceSize is the size in bytes of the key-wrap nonce, generated once
	// at account creation and fixed for the lifetime of the vault file.
	WrapNonceSize = 16

	// KDFIterations is the PBKDF2-HMAC-SHA256 iteration count. This value is a
	// contract: changing it makes every existing vault file unreadable.
	KDFIterations = 600_000
)

// ParseAlgorithm validates an algorithm name from configuration.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
