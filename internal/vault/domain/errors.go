// Package domain defines the core domain models for the password vault:
// credentials, the decrypted vault, the exclusive session and the closed set
// of command errors.
package domain

import (
	"github.com/robopass/robopass/internal/errors"
)

// Closed command-error taxonomy. Every failure surfaced by the command layer
// is one of these five; lower-level causes are coalesced and logged at the
// boundary. Authentication-related crypto failures map to ErrInvalidKeeper so
// callers cannot tell whether the passphrase or the file was wrong.
var (
	// ErrInvalidKeeper indicates an account-level precondition failed: empty
	// account inputs, unknown username at login, or a passphrase-derived key
	// that fails to unwrap or decrypt.
	ErrInvalidKeeper = errors.Wrap(errors.ErrUnauthorized, "invalid keeper")

	// ErrInvalidReader indicates a session precondition failed: no active
	// session, empty credential input, truncated vault file, or in-file
	// username mismatch.
	ErrInvalidReader = errors.Wrap(errors.ErrUnauthorized, "invalid reader")

	// ErrInvalidParameter indicates a well-typed but unacceptable argument:
	// unknown credential id, unknown clipboard field, out-of-range generator length.
	ErrInvalidParameter = errors.Wrap(errors.ErrInvalidInput, "invalid parameter")

	// ErrUsernameTaken indicates the target vault file already exists at account creation.
	ErrUsernameTaken = errors.Wrap(errors.ErrConflict, "username already registered")

	// ErrUnexpected covers any other failure: I/O, clipboard, or internal
	// cryptographic errors not otherwise classified.
	ErrUnexpected = errors.Wrap(errors.ErrInternal, "unexpected error occurred")
)
