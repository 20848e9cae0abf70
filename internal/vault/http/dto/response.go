package dto

import (
	vaultDomain "github.com/robopass/robopass/internal/vault/domain"
)

// CredentialResponse is the wire form of one stored credential.
type CredentialResponse struct {
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// CredentialEntryResponse pairs a credential with its opaque id.
type CredentialEntryResponse struct {
	KeeperID   string             `json:"keeper_id"`
	Credential CredentialResponse `json:"privacy"`
}

// AddCredentialResponse returns the id assigned by add_privacy.
type AddCredentialResponse struct {
	ID string `json:"id"`
}

// UpdateCredentialResponse returns the update_privacy success flag.
type UpdateCredentialResponse struct {
	Updated bool `json:"updated"`
}

// AccessResponse returns whether a session is installed.
type AccessResponse struct {
	CanAccess bool `json:"can_access"`
}

// GeneratePasswordResponse returns a freshly generated password.
type GeneratePasswordResponse struct {
	Password string `json:"password"`
}

// MapCredentialEntries converts domain entries to their wire form, preserving order.
func MapCredentialEntries(entries []vaultDomain.CredentialEntry) []CredentialEntryResponse {
	out := make([]CredentialEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, CredentialEntryResponse{
			KeeperID: entry.KeeperID,
			Credential: CredentialResponse{
				URL:      entry.Credential.URL,
				Username: entry.Credential.Username,
				Password: entry.Credential.Password,
			},
		})
	}
	return out
}
