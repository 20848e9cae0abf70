// Package dto provides data transfer objects for the vault command surface.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/robopass/robopass/internal/validation"
)

// AccountRequest carries the arguments of create_account and login.
type AccountRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks if the account request is valid.
func (r *AccountRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Password, validation.Required),
	)
}

// AddCredentialRequest carries the arguments of add_privacy.
type AddCredentialRequest struct {
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks if the add credential request is valid.
func (r *AddCredentialRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.URL, validation.Required),
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// UpdateCredentialRequest carries the arguments of update_privacy.
type UpdateCredentialRequest struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks if the update credential request is valid.
func (r *UpdateCredentialRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ID, validation.Required),
		validation.Field(&r.URL, validation.Required),
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// RemoveCredentialRequest carries the arguments of remove_privacy.
type RemoveCredentialRequest struct {
	ID string `json:"id"`
}

// Validate checks if the remove credential request is valid.
func (r *RemoveCredentialRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ID, validation.Required),
	)
}

// CopyToClipboardRequest carries the arguments of copy_to_clipboard.
type CopyToClipboardRequest struct {
	ID    string `json:"id"`
	Field string `json:"field"`
}

// Validate checks if the copy to clipboard request is valid.
// Field membership is checked in the use case so an unknown field surfaces as
// invalid_parameter rather than a validation failure.
func (r *CopyToClipboardRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ID, validation.Required),
		validation.Field(&r.Field, validation.Required),
	)
}
