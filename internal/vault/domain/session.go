package domain

import (
	cryptoDomain "github.com/robopass/robopass/internal/crypto/domain"
)

// Session is the sole decrypted working copy of a vault plus its key material.
// At most one session exists process-wide; the data key lives only here and is
// never serialized.
type Session struct {
	FilePath   string // absolute path to the vault file
	Nonce      []byte // 16-byte key-wrap nonce, fixed for the file's lifetime
	WrappedKey []byte // data key encrypted under the master key
	DataKey    []byte // plaintext data key, in memory only
	Vault      *Vault // decrypted credential set
}

// Close zeroizes the session's key material.
func (s *Session) Close() {
	if s == nil {
		return
	}
	cryptoDomain.Zero(s.DataKey)
	cryptoDomain.Zero(s.WrappedKey)
}
