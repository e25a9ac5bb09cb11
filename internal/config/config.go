// Package config loads console configuration from flags, environment
// variables and an optional .env file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	BackendSQLite   = "sqlite"
	BackendBadger   = "badger"
	BackendPostgres = "postgres"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Server    ServerConfig
	Store     StoreConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Seed      SeedConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
	Version     string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// CORSAllowedOrigins lists browser origins allowed to call the API.
	// Empty allows every origin.
	CORSAllowedOrigins []string
	// TrustProxyHeaders takes the client address from X-Forwarded-For and
	// X-Real-IP. Only enable it behind a proxy that overwrites them.
	TrustProxyHeaders bool
}

// StoreConfig selects and locates the option store.
type StoreConfig struct {
	Backend string
	// DataPath holds the sqlite database, the badger directory and the token key.
	DataPath    string
	DatabaseURL string
}

// AuthConfig holds admin token configuration.
type AuthConfig struct {
	// TokenKey is set by auth.LoadOrGenerateKey at startup.
	TokenKey      []byte
	TokenDuration time.Duration
}

// RateLimitConfig limits option writes per client IP.
type RateLimitConfig struct {
	// Rate is writes per second.
	Rate  float64
	Burst int
}

// SeedConfig points at an optional YAML seed file.
type SeedConfig struct {
	Path string
}

// Load builds the configuration with precedence:
// 1. Command-line flags.
// 2. Environment variables.
// 3. .env file.
// 4. Defaults.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("listenup-console", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := fs.String("data-path", "", "Directory for local data")
	port := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma separated allowed origins")
	backend := fs.String("store", "", "Store backend (sqlite, badger, postgres)")
	databaseURL := fs.String("database-url", "", "Postgres connection string")
	seedPath := fs.String("seed", "", "YAML file with initial options")
	tokenDuration := fs.String("token-duration", "", "Admin token lifetime (default: 24h)")
	trustProxy := fs.String("trust-proxy", "", "Trust X-Forwarded-For/X-Real-IP (true, false)")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", *envFile, err)
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
			Version:     getConfigValue("", "APP_VERSION", "dev"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port:               getConfigValue(*port, "SERVER_PORT", "8080"),
			CORSAllowedOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ALLOWED_ORIGINS", "")),
		},
		Store: StoreConfig{
			Backend:     strings.ToLower(getConfigValue(*backend, "STORE_BACKEND", BackendSQLite)),
			DataPath:    getConfigValue(*dataPath, "DATA_PATH", ""),
			DatabaseURL: getConfigValue(*databaseURL, "DATABASE_URL", ""),
		},
		Seed: SeedConfig{
			Path: getConfigValue(*seedPath, "OPTIONS_SEED_PATH", ""),
		},
	}

	var err error
	rawTrust := getConfigValue(*trustProxy, "TRUST_PROXY_HEADERS", "false")
	if cfg.Server.TrustProxyHeaders, err = strconv.ParseBool(rawTrust); err != nil {
		return nil, fmt.Errorf("invalid TRUST_PROXY_HEADERS %q: %w", rawTrust, err)
	}

	durations := []struct {
		dst      *time.Duration
		flag     string
		envKey   string
		fallback string
	}{
		{&cfg.Server.ReadTimeout, *readTimeout, "SERVER_READ_TIMEOUT", "15s"},
		{&cfg.Server.WriteTimeout, *writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"},
		{&cfg.Server.IdleTimeout, *idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"},
		{&cfg.Auth.TokenDuration, *tokenDuration, "ADMIN_TOKEN_DURATION", "24h"},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flag, d.envKey, d.fallback)
		if *d.dst, err = time.ParseDuration(raw); err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.envKey, raw, err)
		}
	}

	if cfg.RateLimit.Rate, err = getFloatConfigValue("OPTION_RATE_LIMIT", 1); err != nil {
		return nil, err
	}
	if cfg.RateLimit.Burst, err = getIntConfigValue("OPTION_RATE_BURST", 5); err != nil {
		return nil, err
	}

	if cfg.Store.DataPath, err = expandPath(cfg.Store.DataPath); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}
	if cfg.Seed.Path != "" {
		if cfg.Seed.Path, err = expandPath(cfg.Seed.Path); err != nil {
			return nil, fmt.Errorf("invalid seed path: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate checks that all config values are present and consistent.
func (c *Config) Validate() error {
	switch c.App.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("unknown environment %q", c.App.Environment)
	}

	switch strings.ToLower(c.Logger.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logger.Level)
	}

	switch c.Store.Backend {
	case BackendSQLite, BackendBadger:
		if c.Store.DataPath == "" {
			return errors.New("data path cannot be empty")
		}
	case BackendPostgres:
		if c.Store.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("invalid store backend: %s (must be sqlite, badger, or postgres)", c.Store.Backend)
	}

	if c.Auth.TokenDuration <= 0 {
		return errors.New("admin token duration must be positive")
	}
	if c.RateLimit.Rate <= 0 || c.RateLimit.Burst < 1 {
		return errors.New("option rate limit must be positive with a burst of at least 1")
	}
	return nil
}

// expandPath expands ~ and makes the path absolute. An empty path means
// ~/ListenUp/console.
func expandPath(path string) (string, error) {
	if path == "" || path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		switch path {
		case "":
			path = filepath.Join(home, "ListenUp", "console")
		case "~":
			path = home
		default:
			path = filepath.Join(home, path[2:])
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return filepath.Clean(abs), nil
}

// getConfigValue prefers the flag, then the environment, then fallback.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

func getIntConfigValue(envKey string, defaultValue int) (int, error) {
	raw := os.Getenv(envKey)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, raw, err)
	}
	return v, nil
}

func getFloatConfigValue(envKey string, defaultValue float64) (float64, error) {
	raw := os.Getenv(envKey)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, raw, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
