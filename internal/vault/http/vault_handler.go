// Package http provides HTTP handlers for the vault command surface.
//
// The front-end is an untrusted caller: it posts named commands with string
// arguments and receives either a success value or one of the closed set of
// command errors marshaled as {"key": ..., "error": ...}.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/robopass/robopass/internal/httputil"
	vaultDomain "github.com/robopass/robopass/internal/vault/domain"
	"github.com/robopass/robopass/internal/vault/http/dto"
	vaultUseCase "github.com/robopass/robopass/internal/vault/usecase"
)

// VaultHandler handles HTTP requests for vault commands.
type VaultHandler struct {
	vaultUseCase vaultUseCase.VaultUseCase
	logger       *slog.Logger
}

// NewVaultHandler creates a new vault handler with required dependencies.
func NewVaultHandler(useCase vaultUseCase.VaultUseCase, logger *slog.Logger) *VaultHandler {
	return &VaultHandler{
		vaultUseCase: useCase,
		logger:       logger,
	}
}

// CreateAccountHandler creates a new vault and logs the user in.
// POST /v1/accounts
func (h *VaultHandler) CreateAccountHandler(c *gin.Context) {
	var req dto.AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, vaultDomain.ErrInvalidKeeper, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, vaultDomain.ErrInvalidKeeper, h.logger)
		return
	}

	if err := h.vaultUseCase.CreateAccount(c.Request.Context(), req.Username, req.Password); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusCreated)
}

// LoginHandler opens an existing vault.
// POST /v1/login
func (h *VaultHandler) LoginHandler(c *gin.Context) {
	var req dto.AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, vaultDomain.ErrInvalidKeeper, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, vaultDomain.ErrInvalidKeeper, h.logger)
		return
	}

	if err := h.vaultUseCase.Login(c.Request.Context(), req.Username, req.Password); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// LogoutHandler drops the session.
// POST /v1/logout
func (h *VaultHandler) LogoutHandler(c *gin.Context) {
	if err := h.vaultUseCase.Logout(c.Request.Context()); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// AccessHandler reports whether a session is installed.
// GET /v1/access
func (h *VaultHandler) AccessHandler(c *gin.Context) {
	canAccess, err := h.vaultUseCase.CanUserAccess(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.AccessResponse{CanAccess: canAccess})
}

// AddCredentialHandler stores a new credential and returns its id.
// POST /v1/credentials
func (h *VaultHandler) AddCredentialHandler(c *gin.Context) {
	var req dto.AddCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, vaultDomain.ErrInvalidReader, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, vaultDomain.ErrInvalidReader, h.logger)
		return
	}

	id, err := h.vaultUseCase.AddCredential(c.Request.Context(), req.URL, req.Username, req.Password)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.AddCredentialResponse{ID: id})
}

// UpdateCredentialHandler overwrites a stored credential.
// POST /v1/credentials/update
func (h *VaultHandler) UpdateCredentialHandler(c *gin.Context) {
	var req dto.UpdateCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, vaultDomain.ErrInvalidReader, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, vaultDomain.ErrInvalidReader, h.logger)
		return
	}

	updated, err := h.vaultUseCase.UpdateCredential(
		c.Request.Context(),
		req.ID,
		req.URL,
		req.Username,
		req.Password,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.UpdateCredentialResponse{Updated: updated})
}

// RemoveCredentialHandler deletes a stored credential.
// POST /v1/credentials/remove
func (h *VaultHandler) RemoveCredentialHandler(c *gin.Context) {
	var req dto.RemoveCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, vaultDomain.ErrInvalidReader, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, vaultDomain.ErrInvalidReader, h.logger)
		return
	}

	if err := h.vaultUseCase.RemoveCredential(c.Request.Context(), req.ID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListCredentialsHandler returns all credentials sorted by URL.
// GET /v1/credentials
func (h *VaultHandler) ListCredentialsHandler(c *gin.Context) {
	entries, err := h.vaultUseCase.ListCredentials(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCredentialEntries(entries))
}

// CopyToClipboardHandler copies a credential field to the system clipboard.
// POST /v1/credentials/clipboard
func (h *VaultHandler) CopyToClipboardHandler(c *gin.Context) {
	var req dto.CopyToClipboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, vaultDomain.ErrInvalidReader, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, vaultDomain.ErrInvalidReader, h.logger)
		return
	}

	if err := h.vaultUseCase.CopyToClipboard(c.Request.Context(), req.ID, req.Field); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// GeneratePasswordHandler returns a fresh random password.
// POST /v1/passwords/generate
func (h *VaultHandler) GeneratePasswordHandler(c *gin.Context) {
	password, err := h.vaultUseCase.GeneratePassword(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.GeneratePasswordResponse{Password: password})
}
