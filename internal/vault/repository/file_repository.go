// Package repository implements vault persistence as a single on-disk file per user.
package repository

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/robopass/robopass/internal/errors"
	vaultDomain "github.com/robopass/robopass/internal/vault/domain"
)

// FileVaultRepository stores vault envelopes as `<folder>/<username>.pwdb`
// files. Every mutation replaces the whole file; the replacement is staged in a
// temporary file and renamed into place so a crash mid-write cannot leave a
// truncated vault behind.
type FileVaultRepository struct {
	folder string
}

// NewFileVaultRepository creates a repository rooted at folder.
func NewFileVaultRepository(folder string) *FileVaultRepository {
	return &FileVaultRepository{folder: folder}
}

// VaultPath returns the vault file path for username.
func (r *FileVaultRepository) VaultPath(username string) string {
	return filepath.Join(r.folder, username+".pwdb")
}

// Exists reports whether a vault file is present at path.
func (r *FileVaultRepository) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Read parses the vault file at path.
// Returns ErrNotFound when the file does not exist and ErrInvalidReader via
// envelope parsing when the file is shorter than the minimum envelope size.
func (r *FileVaultRepository) Read(path string) (*vaultDomain.Envelope, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrNotFound, "vault file not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read vault file: %w", err)
	}
	return vaultDomain.UnmarshalEnvelope(data)
}

// Write persists the envelope to path, replacing any previous content.
func (r *FileVaultRepository) Write(path string, envelope *vaultDomain.Envelope) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create vault folder: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp vault file: %w", err)
	}
	tmpName := tmp.Name()

	if err := writeAndClose(tmp, envelope.Marshal()); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace vault file: %w", err)
	}
	return nil
}

func writeAndClose(f *os.File, data []byte) error {
	if err := f.Chmod(0o600); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to chmod vault file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write vault file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to sync vault file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close vault file: %w", err)
	}
	return nil
}
