// Package http provides the HTTP server exposing the vault command surface
// using the Gin web framework.
//
// The server keeps the application's existing patterns:
//   - Custom slog-based logging middleware (instead of Gin's default logger)
//   - Closed-set command-error marshaling via httputil
//   - Manual http.Server configuration for timeout and graceful shutdown control
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/robopass/robopass/internal/config"
	"github.com/robopass/robopass/internal/metrics"
	vaultHTTP "github.com/robopass/robopass/internal/vault/http"
)

// Server represents the HTTP server.
type Server struct {
	server *http.Server
	logger *slog.Logger
	router *gin.Engine
}

// NewServer creates a new HTTP server.
func NewServer(host string, port int, logger *slog.Logger) *Server {
	return &Server{
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter configures the Gin router with all routes and middleware.
func (s *Server) SetupRouter(
	cfg *config.Config,
	vaultHandler *vaultHTTP.VaultHandler,
	recorder *metrics.Recorder,
) {
	// Create Gin engine without default middleware
	router := gin.New()

	router.Use(gin.Recovery())

	if corsMiddleware := createCORSMiddleware(
		cfg.CORSEnabled,
		cfg.CORSAllowOrigins,
		s.logger,
	); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if recorder != nil {
		router.Use(recorder.GinMiddleware())
	}

	// Health and readiness endpoints (outside API versioning)
	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	// IP-based rate limiting for the unauthenticated account endpoints
	var loginRateLimitMiddleware gin.HandlerFunc
	if cfg.RateLimitLoginEnabled {
		loginRateLimitMiddleware = LoginRateLimitMiddleware(
			cfg.RateLimitLoginRequestsPerSec,
			cfg.RateLimitLoginBurst,
			s.logger,
		)
	}

	v1 := router.Group("/v1")
	{
		if loginRateLimitMiddleware != nil {
			v1.POST("/accounts", loginRateLimitMiddleware, vaultHandler.CreateAccountHandler)
			v1.POST("/login", loginRateLimitMiddleware, vaultHandler.LoginHandler)
		} else {
			v1.POST("/accounts", vaultHandler.CreateAccountHandler)
			v1.POST("/login", vaultHandler.LoginHandler)
		}

		v1.POST("/logout", vaultHandler.LogoutHandler)
		v1.GET("/access", vaultHandler.AccessHandler)

		credentials := v1.Group("/credentials")
		{
			credentials.POST("", vaultHandler.AddCredentialHandler)
			credentials.GET("", vaultHandler.ListCredentialsHandler)
			credentials.POST("/update", vaultHandler.UpdateCredentialHandler)
			credentials.POST("/remove", vaultHandler.RemoveCredentialHandler)
			credentials.POST("/clipboard", vaultHandler.CopyToClipboardHandler)
		}

		v1.POST("/passwords/generate", vaultHandler.GeneratePasswordHandler)
	}

	s.router = router
	s.server.Handler = router
}

// Router returns the configured Gin engine.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start begins listening for requests. Blocks until the server stops.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("http server starting", slog.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.server.Shutdown(ctx)
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports request-serving readiness.
func (s *Server) readinessHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
