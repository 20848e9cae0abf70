// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/robopass/robopass/internal/clipboard"
	"github.com/robopass/robopass/internal/config"
	cryptoDomain "github.com/robopass/robopass/internal/crypto/domain"
	cryptoService "github.com/robopass/robopass/internal/crypto/service"
	"github.com/robopass/robopass/internal/http"
	"github.com/robopass/robopass/internal/metrics"
	vaultHTTP "github.com/robopass/robopass/internal/vault/http"
	vaultRepository "github.com/robopass/robopass/internal/vault/repository"
	vaultService "github.com/robopass/robopass/internal/vault/service"
	vaultUseCase "github.com/robopass/robopass/internal/vault/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	logFile         *os.File
	metricsRecorder *metrics.Recorder

	// Use cases and servers
	useCase       vaultUseCase.VaultUseCase
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags for thread-safety
	loggerInit        sync.Once
	metricsInit       sync.Once
	useCaseInit       sync.Once
	httpServerInit    sync.Once
	metricsServerInit sync.Once
	initErrors        map[string]error
	initErrorsMu      sync.Mutex
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// MetricsRecorder returns the metrics recorder, or nil when metrics are disabled.
func (c *Container) MetricsRecorder() (*metrics.Recorder, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	c.metricsInit.Do(func() {
		recorder, err := metrics.NewRecorder(c.config.MetricsNamespace)
		if err != nil {
			c.storeInitError("metrics", err)
			return
		}
		c.metricsRecorder = recorder
	})
	if err := c.initError("metrics"); err != nil {
		return nil, err
	}
	return c.metricsRecorder, nil
}

// VaultUseCase returns the vault command surface, wrapped with metrics
// instrumentation when metrics are enabled.
func (c *Container) VaultUseCase() (vaultUseCase.VaultUseCase, error) {
	c.useCaseInit.Do(func() {
		useCase, err := c.initVaultUseCase()
		if err != nil {
			c.storeInitError("vault_usecase", err)
			return
		}
		c.useCase = useCase
	})
	if err := c.initError("vault_usecase"); err != nil {
		return nil, err
	}
	return c.useCase, nil
}

// HTTPServer returns the API server with all routes configured.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		err = c.initHTTPServer()
	})
	if err != nil {
		c.storeInitError("http_server", err)
	}
	if storedErr := c.initError("http_server"); storedErr != nil {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the Prometheus metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	recorder, err := c.MetricsRecorder()
	if err != nil {
		return nil, err
	}
	if recorder == nil {
		return nil, nil
	}
	c.metricsServerInit.Do(func() {
		c.metricsServer = http.NewMetricsServer(
			c.config.MetricsHost,
			c.config.MetricsPort,
			c.Logger(),
			recorder,
		)
	})
	return c.metricsServer, nil
}

// Shutdown releases container resources.
func (c *Container) Shutdown(ctx context.Context) error {
	var firstErr error
	if c.metricsRecorder != nil {
		if err := c.metricsRecorder.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// initLogger creates and configures a structured logger based on the log level.
// When file logging is enabled, log lines go to stdout and to a file under the
// app folder's logs directory. Log lines never contain secrets, passphrases,
// derived keys, or credential fields.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var out io.Writer = os.Stdout
	if c.config.LogToFile {
		if file, err := openLogFile(c.config.LogsFolder()); err == nil {
			c.logFile = file
			out = io.MultiWriter(os.Stdout, file)
		} else {
			fmt.Fprintf(os.Stderr, "file logging disabled: %v\n", err)
		}
	}

	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: logLevel}))
}

// openLogFile creates the logs folder if absent and opens the log file for appending.
func openLogFile(folder string) (*os.File, error) {
	if err := os.MkdirAll(folder, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create logs folder: %w", err)
	}
	path := filepath.Join(folder, "robopass.log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

// initVaultUseCase wires the crypto services, file repository and clipboard
// into the vault command surface.
func (c *Container) initVaultUseCase() (vaultUseCase.VaultUseCase, error) {
	algorithm, err := cryptoDomain.ParseAlgorithm(c.config.VaultAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("invalid VAULT_ALGORITHM %q: %w", c.config.VaultAlgorithm, err)
	}

	useCase := vaultUseCase.NewVaultUseCase(
		vaultRepository.NewFileVaultRepository(c.config.AppFolder),
		vaultService.NewVaultCodec(),
		cryptoService.NewBlobCipher(cryptoService.NewAEADManager(), algorithm),
		cryptoService.NewKeyWrapper(),
		clipboard.NewSystemClipboard(),
		c.Logger(),
	)

	recorder, err := c.MetricsRecorder()
	if err != nil {
		return nil, err
	}
	if recorder != nil {
		useCase = vaultUseCase.NewVaultUseCaseWithMetrics(useCase, recorder)
	}

	return useCase, nil
}

// initHTTPServer builds the API server and wires the vault handler into its router.
func (c *Container) initHTTPServer() error {
	useCase, err := c.VaultUseCase()
	if err != nil {
		return err
	}

	recorder, err := c.MetricsRecorder()
	if err != nil {
		return err
	}

	server := http.NewServer(c.config.ServerHost, c.config.ServerPort, c.Logger())
	server.SetupRouter(
		c.config,
		vaultHTTP.NewVaultHandler(useCase, c.Logger()),
		recorder,
	)
	c.httpServer = server
	return nil
}

func (c *Container) storeInitError(key string, err error) {
	c.initErrorsMu.Lock()
	defer c.initErrorsMu.Unlock()
	c.initErrors[key] = err
}

func (c *Container) initError(key string) error {
	c.initErrorsMu.Lock()
	defer c.initErrorsMu.Unlock()
	return c.initErrors[key]
}
