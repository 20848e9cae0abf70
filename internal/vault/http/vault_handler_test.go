package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robopass/robopass/internal/clipboard"
	cryptoDomain "github.com/robopass/robopass/internal/crypto/domain"
	cryptoService "github.com/robopass/robopass/internal/crypto/service"
	"github.com/robopass/robopass/internal/vault/http/dto"
	vaultRepository "github.com/robopass/robopass/internal/vault/repository"
	vaultService "github.com/robopass/robopass/internal/vault/service"
	vaultUseCase "github.com/robopass/robopass/internal/vault/usecase"
)

// nopClipboard discards clipboard writes in handler tests.
type nopClipboard struct{}

func (nopClipboard) SetText(string) error { return nil }

var _ clipboard.Clipboard = nopClipboard{}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	useCase := vaultUseCase.NewVaultUseCase(
		vaultRepository.NewFileVaultRepository(t.TempDir()),
		vaultService.NewVaultCodec(),
		cryptoService.NewBlobCipher(cryptoService.NewAEADManager(), cryptoDomain.AESGCM),
		cryptoService.NewKeyWrapper(),
		nopClipboard{},
		logger,
	)
	handler := NewVaultHandler(useCase, logger)

	router := gin.New()
	v1 := router.Group("/v1")
	v1.POST("/accounts", handler.CreateAccountHandler)
	v1.POST("/login", handler.LoginHandler)
	v1.POST("/logout", handler.LogoutHandler)
	v1.GET("/access", handler.AccessHandler)
	v1.POST("/credentials", handler.AddCredentialHandler)
	v1.GET("/credentials", handler.ListCredentialsHandler)
	v1.POST("/credentials/update", handler.UpdateCredentialHandler)
	v1.POST("/credentials/remove", handler.RemoveCredentialHandler)
	v1.POST("/credentials/clipboard", handler.CopyToClipboardHandler)
	v1.POST("/passwords/generate", handler.GeneratePasswordHandler)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestVaultHandler_Accounts(t *testing.T) {
	t.Run("create account then add and fetch", func(t *testing.T) {
		router := newTestRouter(t)

		rec := doJSON(t, router, http.MethodPost, "/v1/accounts",
			gin.H{"username": "alice", "password": "correct horse"})
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = doJSON(t, router, http.MethodPost, "/v1/credentials",
			gin.H{"url": "https://example.com", "username": "alice@ex", "password": "pw1"})
		require.Equal(t, http.StatusCreated, rec.Code)

		var added dto.AddCredentialResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &added))
		assert.NotEmpty(t, added.ID)

		rec = doJSON(t, router, http.MethodGet, "/v1/credentials", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var entries []dto.CredentialEntryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
		require.Len(t, entries, 1)
		assert.Equal(t, added.ID, entries[0].KeeperID)
		assert.Equal(t, "https://example.com", entries[0].Credential.URL)
		assert.Equal(t, "alice@ex", entries[0].Credential.Username)
		assert.Equal(t, "pw1", entries[0].Credential.Password)
	})

	t.Run("empty account inputs marshal as invalid_keeper", func(t *testing.T) {
		router := newTestRouter(t)

		rec := doJSON(t, router, http.MethodPost, "/v1/accounts",
			gin.H{"username": "", "password": "pw"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		body := decodeError(t, rec)
		assert.Equal(t, "invalid_keeper", body["key"])
		assert.Equal(t, "invalid keeper", body["error"])
	})

	t.Run("wrong passphrase marshals as invalid_keeper", func(t *testing.T) {
		router := newTestRouter(t)

		rec := doJSON(t, router, http.MethodPost, "/v1/accounts",
			gin.H{"username": "alice", "password": "correct horse"})
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = doJSON(t, router, http.MethodPost, "/v1/logout", nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = doJSON(t, router, http.MethodPost, "/v1/login",
			gin.H{"username": "alice", "password": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid_keeper", decodeError(t, rec)["key"])
	})

	t.Run("duplicate account marshals as username_taken", func(t *testing.T) {
		router := newTestRouter(t)

		rec := doJSON(t, router, http.MethodPost, "/v1/accounts",
			gin.H{"username": "alice", "password": "correct horse"})
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = doJSON(t, router, http.MethodPost, "/v1/logout", nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = doJSON(t, router, http.MethodPost, "/v1/accounts",
			gin.H{"username": "alice", "password": "whatever"})
		assert.Equal(t, http.StatusConflict, rec.Code)

		body := decodeError(t, rec)
		assert.Equal(t, "username_taken", body["key"])
		assert.Equal(t, "username already registered", body["error"])
	})

	t.Run("access reflects the session state", func(t *testing.T) {
		router := newTestRouter(t)

		rec := doJSON(t, router, http.MethodGet, "/v1/access", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var access dto.AccessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &access))
		assert.False(t, access.CanAccess)

		rec = doJSON(t, router, http.MethodPost, "/v1/accounts",
			gin.H{"username": "alice", "password": "correct horse"})
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = doJSON(t, router, http.MethodGet, "/v1/access", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &access))
		assert.True(t, access.CanAccess)
	})
}

func TestVaultHandler_Credentials(t *testing.T) {
	setup := func(t *testing.T) *gin.Engine {
		router := newTestRouter(t)
		rec := doJSON(t, router, http.MethodPost, "/v1/accounts",
			gin.H{"username": "alice", "password": "correct horse"})
		require.Equal(t, http.StatusCreated, rec.Code)
		return router
	}

	t.Run("list is sorted by URL", func(t *testing.T) {
		router := setup(t)

		for _, url := range []string{"b", "a", "c"} {
			rec := doJSON(t, router, http.MethodPost, "/v1/credentials",
				gin.H{"url": url, "username": "u", "password": "p"})
			require.Equal(t, http.StatusCreated, rec.Code)
		}

		rec := doJSON(t, router, http.MethodGet, "/v1/credentials", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var entries []dto.CredentialEntryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
		require.Len(t, entries, 3)
		assert.Equal(t, "a", entries[0].Credential.URL)
		assert.Equal(t, "b", entries[1].Credential.URL)
		assert.Equal(t, "c", entries[2].Credential.URL)
	})

	t.Run("empty credential inputs marshal as invalid_reader", func(t *testing.T) {
		router := setup(t)

		rec := doJSON(t, router, http.MethodPost, "/v1/credentials",
			gin.H{"url": "", "username": "u", "password": "p"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		body := decodeError(t, rec)
		assert.Equal(t, "invalid_reader", body["key"])
		assert.Equal(t, "invalid reader", body["error"])
	})

	t.Run("remove unknown id marshals as invalid_parameter", func(t *testing.T) {
		router := setup(t)

		rec := doJSON(t, router, http.MethodPost, "/v1/credentials/remove",
			gin.H{"id": "00000000-0000-4000-8000-000000000000"})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		body := decodeError(t, rec)
		assert.Equal(t, "invalid_parameter", body["key"])
		assert.Equal(t, "invalid parameter", body["error"])
	})

	t.Run("update returns true even for unknown id", func(t *testing.T) {
		router := setup(t)

		rec := doJSON(t, router, http.MethodPost, "/v1/credentials/update", gin.H{
			"id":       "00000000-0000-4000-8000-000000000000",
			"url":      "https://example.com",
			"username": "u",
			"password": "p",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var updated dto.UpdateCredentialResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		assert.True(t, updated.Updated)
	})

	t.Run("clipboard with unknown field marshals as invalid_parameter", func(t *testing.T) {
		router := setup(t)

		rec := doJSON(t, router, http.MethodPost, "/v1/credentials",
			gin.H{"url": "https://example.com", "username": "u", "password": "p"})
		require.Equal(t, http.StatusCreated, rec.Code)
		var added dto.AddCredentialResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &added))

		rec = doJSON(t, router, http.MethodPost, "/v1/credentials/clipboard",
			gin.H{"id": added.ID, "field": "url"})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "invalid_parameter", decodeError(t, rec)["key"])
	})

	t.Run("operations without a session marshal as invalid_reader", func(t *testing.T) {
		router := newTestRouter(t)

		rec := doJSON(t, router, http.MethodGet, "/v1/credentials", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid_reader", decodeError(t, rec)["key"])
	})
}

func TestVaultHandler_GeneratePassword(t *testing.T) {
	t.Run("returns a fresh password without a session", func(t *testing.T) {
		router := newTestRouter(t)

		rec := doJSON(t, router, http.MethodPost, "/v1/passwords/generate", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var generated dto.GeneratePasswordResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &generated))
		assert.Len(t, generated.Password, cryptoService.DefaultPasswordLength)
	})

	t.Run("successive passwords differ", func(t *testing.T) {
		router := newTestRouter(t)

		passwords := make(map[string]bool)
		for i := 0; i < 3; i++ {
			rec := doJSON(t, router, http.MethodPost, "/v1/passwords/generate", nil)
			require.Equal(t, http.StatusOK, rec.Code, fmt.Sprintf("attempt %d", i))

			var generated dto.GeneratePasswordResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &generated))
			passwords[generated.Password] = true
		}
		assert.Len(t, passwords, 3)
	})
}
