// Package usecase implements the vault command surface: account lifecycle,
// credential mutations and the exclusive in-memory session.
package usecase

import (
	"context"

	vaultDomain "github.com/robopass/robopass/internal/vault/domain"
)

// VaultRepository persists vault envelopes keyed by file path.
type VaultRepository interface {
	// VaultPath returns the vault file path for username.
	VaultPath(username string) string

	// Exists reports whether a vault file is present at path.
	Exists(path string) bool

	// Read parses the vault file at path.
	Read(path string) (*vaultDomain.Envelope, error)

	// Write persists the envelope to path, replacing any previous content.
	Write(path string, envelope *vaultDomain.Envelope) error
}

// VaultCodec converts a vault to and from its canonical byte representation.
type VaultCodec interface {
	// Encode serializes a vault.
	Encode(vault *vaultDomain.Vault) ([]byte, error)

	// Decode deserializes vault bytes produced by Encode, rejecting malformed input.
	Decode(data []byte) (*vaultDomain.Vault, error)
}

// Clipboard is the external clipboard sink.
type Clipboard interface {
	// SetText replaces the clipboard content with text.
	SetText(text string) error
}

// VaultUseCase is the command surface of the vault core.
//
// Every operation acquires the session slot exclusively; mutating operations
// re-persist the whole vault file before returning success. Failures are
// always one of the closed set of command errors in the vault domain.
type VaultUseCase interface {
	// CreateAccount creates a vault file for username and installs a session.
	CreateAccount(ctx context.Context, username, password string) error

	// Login opens an existing vault file and installs a session.
	Login(ctx context.Context, username, password string) error

	// Logout drops the session. Always succeeds.
	Logout(ctx context.Context) error

	// CanUserAccess reports whether a session is installed.
	CanUserAccess(ctx context.Context) (bool, error)

	// AddCredential inserts a credential and returns its new opaque id.
	AddCredential(ctx context.Context, url, username, password string) (string, error)

	// UpdateCredential overwrites the credential stored under id.
	// An unknown id is a silent no-op that still re-persists and returns true.
	UpdateCredential(ctx context.Context, id, url, username, password string) (bool, error)

	// RemoveCredential deletes the credential stored under id.
	RemoveCredential(ctx context.Context, id string) error

	// ListCredentials returns all credentials sorted by URL in ascending byte order.
	ListCredentials(ctx context.Context) ([]vaultDomain.CredentialEntry, error)

	// CopyToClipboard copies the named field ("username" or "password") of the
	// credential stored under id to the system clipboard.
	CopyToClipboard(ctx context.Context, id, field string) error

	// GeneratePassword returns a fresh random password from the default
	// alphabet at the default length.
	GeneratePassword(ctx context.Context) (string, error)
}
