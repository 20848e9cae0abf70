package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robopass/robopass/internal/config"
	cryptoDomain "github.com/robopass/robopass/internal/crypto/domain"
	cryptoService "github.com/robopass/robopass/internal/crypto/service"
	vaultHTTP "github.com/robopass/robopass/internal/vault/http"
	vaultRepository "github.com/robopass/robopass/internal/vault/repository"
	vaultService "github.com/robopass/robopass/internal/vault/service"
	vaultUseCase "github.com/robopass/robopass/internal/vault/usecase"
)

type nopClipboard struct{}

func (nopClipboard) SetText(string) error { return nil }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		AppFolder:        t.TempDir(),
		VaultAlgorithm:   "aes-gcm",
		MetricsNamespace: "robopass",
	}

	useCase := vaultUseCase.NewVaultUseCase(
		vaultRepository.NewFileVaultRepository(cfg.AppFolder),
		vaultService.NewVaultCodec(),
		cryptoService.NewBlobCipher(cryptoService.NewAEADManager(), cryptoDomain.AESGCM),
		cryptoService.NewKeyWrapper(),
		nopClipboard{},
		logger,
	)

	server := NewServer("127.0.0.1", 0, logger)
	server.SetupRouter(cfg, vaultHTTP.NewVaultHandler(useCase, logger), nil)
	return server
}

func TestServerEndpoints(t *testing.T) {
	server := newTestServer(t)

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
	})

	t.Run("ready", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())
	})

	t.Run("requests carry a request id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	})

	t.Run("vault routes are mounted", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/access", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"can_access":false}`, rec.Body.String())
	})
}

func TestParseOrigins(t *testing.T) {
	t.Run("splits and trims", func(t *testing.T) {
		origins := parseOrigins("https://a.example, https://b.example ,")
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, origins)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, parseOrigins(""))
	})
}

func TestCreateCORSMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("disabled returns nil", func(t *testing.T) {
		assert.Nil(t, createCORSMiddleware(false, "https://a.example", logger))
	})

	t.Run("enabled without origins returns nil", func(t *testing.T) {
		assert.Nil(t, createCORSMiddleware(true, "", logger))
	})

	t.Run("enabled with origins returns middleware", func(t *testing.T) {
		assert.NotNil(t, createCORSMiddleware(true, "https://a.example", logger))
	})
}
