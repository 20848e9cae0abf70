// Package config provides application configuration management through environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerHost string
	ServerPort int

	// Vault storage
	AppFolder      string
	VaultAlgorithm string

	// Logging
	LogLevel  string
	LogToFile bool

	// CORS configuration
	CORSEnabled      bool
	CORSAllowOrigins string

	// Login rate limiting (per source IP, applied to login/create_account)
	RateLimitLoginEnabled        bool
	RateLimitLoginRequestsPerSec float64
	RateLimitLoginBurst          int

	// Metrics configuration
	MetricsEnabled   bool
	MetricsHost      string
	MetricsPort      int
	MetricsNamespace string
}

// Load loads configuration from environment variables.
// It first attempts to load a .env file by searching recursively from the current directory
// up to the root directory. If no .env file is found, it continues with existing environment variables.
// Returns an error when the vault folder cannot be resolved: the folder lives under a
// per-user base directory ($HOME, or %APPDATA% on Windows) and a missing base is fatal.
func Load() (*Config, error) {
	// Try to load .env file recursively
	loadDotEnv()

	appFolder, err := resolveAppFolder()
	if err != nil {
		return nil, err
	}

	return &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "127.0.0.1"),
		ServerPort: env.GetInt("SERVER_PORT", 8080),

		// Vault storage
		AppFolder:      appFolder,
		VaultAlgorithm: env.GetString("VAULT_ALGORITHM", "aes-gcm"),

		// Logging
		LogLevel:  env.GetString("LOG_LEVEL", "info"),
		LogToFile: env.GetBool("LOG_TO_FILE", true),

		// CORS configuration
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Login rate limiting
		RateLimitLoginEnabled:        env.GetBool("RATE_LIMIT_LOGIN_ENABLED", true),
		RateLimitLoginRequestsPerSec: env.GetFloat64("RATE_LIMIT_LOGIN_REQUESTS_PER_SEC", 1),
		RateLimitLoginBurst:          env.GetInt("RATE_LIMIT_LOGIN_BURST", 5),

		// Metrics configuration
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", false),
		MetricsHost:      env.GetString("METRICS_HOST", "127.0.0.1"),
		MetricsPort:      env.GetInt("METRICS_PORT", 9090),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "robopass"),
	}, nil
}

// resolveAppFolder returns the per-user folder holding vault files and logs.
// An explicit APP_FOLDER overrides the platform default of %APPDATA%\robo-pass
// on Windows and $HOME/.config/robo-pass elsewhere.
func resolveAppFolder() (string, error) {
	if folder := env.GetString("APP_FOLDER", ""); folder != "" {
		return folder, nil
	}

	if runtime.GOOS == "windows" {
		appdata := os.Getenv("APPDATA")
		if appdata == "" {
			return "", fmt.Errorf("APPDATA not set")
		}
		return filepath.Join(appdata, "robo-pass"), nil
	}

	home := os.Getenv("HOME")
	if home == "" {
		return "", fmt.Errorf("HOME not set")
	}
	return filepath.Join(home, ".config", "robo-pass"), nil
}

// LogsFolder returns the folder holding application log files.
func (c *Config) LogsFolder() string {
	return filepath.Join(c.AppFolder, "logs")
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
