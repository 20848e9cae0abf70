// Package service implements the canonical vault codec.
package service

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/robopass/robopass/internal/errors"
	vaultDomain "github.com/robopass/robopass/internal/vault/domain"
)

// VaultCodec converts a vault to and from its canonical byte representation.
//
// The encoding is JSON with two top-level fields, username and credentials.
// Encode and Decode are inverse on valid vaults; Decode rejects malformed
// input, unknown fields and vaults without a username.
type VaultCodec struct{}

// NewVaultCodec creates a new VaultCodec instance.
func NewVaultCodec() *VaultCodec {
	return &VaultCodec{}
}

// Encode serializes a vault. All string fields are UTF-8 and stored verbatim.
func (c *VaultCodec) Encode(vault *vaultDomain.Vault) ([]byte, error) {
	if vault == nil || vault.Username == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "vault has no username")
	}
	data, err := json.Marshal(vault)
	if err != nil {
		return nil, fmt.Errorf("failed to encode vault: %w", err)
	}
	return data, nil
}

// Decode deserializes vault bytes produced by Encode.
func (c *VaultCodec) Decode(data []byte) (*vaultDomain.Vault, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var vault vaultDomain.Vault
	if err := dec.Decode(&vault); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, fmt.Sprintf("malformed vault data: %v", err))
	}
	if dec.More() {
		return nil, errors.Wrap(errors.ErrInvalidInput, "trailing data after vault")
	}
	if vault.Username == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "vault has no username")
	}
	if vault.Credentials == nil {
		vault.Credentials = make(map[string]vaultDomain.Credential)
	}
	return &vault, nil
}
