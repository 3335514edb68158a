// Package config loads server configuration from flags, environment variables, and .env files.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Server   ServerConfig
	Database DatabaseConfig
	Data     DataConfig
	Auth     AuthConfig
	Search   SearchConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
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
	CORSOrigins  []string
	// TrustProxy takes the client address from X-Forwarded-For/X-Real-IP.
	// Only enable it behind a reverse proxy that sets those headers.
	TrustProxy bool
}

// DatabaseConfig selects the SQL backend.
type DatabaseConfig struct {
	Driver       string // sqlite or postgres
	URL          string // file path for sqlite, connection string for postgres
	MaxOpenConns int
}

// DataConfig holds on-disk locations owned by the server.
type DataConfig struct {
	Path string // auth key, sqlite database and search index live here
}

// AuthConfig holds token and login-protection settings.
type AuthConfig struct {
	// TokenSecret is stretched into the PASETO key. Empty means use <data>/auth.key.
	TokenSecret string
	TokenTTL    time.Duration
	RateLimit   float64 // requests per second per client on /auth routes
	RateBurst   int
}

// SearchConfig toggles the full-text book index.
type SearchConfig struct {
	Enabled bool
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// LoadConfig loads configuration with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig(args []string) (*Config, error) {
	flags := flag.NewFlagSet("shelfwise", flag.ContinueOnError)

	env := flags.String("env", "", "Environment (development, staging, production)")
	logLevel := flags.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flags.String("data-path", "", "Directory for the auth key, sqlite database and search index")

	serverPort := flags.String("port", "", "Server port (default: 5000)")
	readTimeout := flags.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flags.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flags.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := flags.String("cors-origins", "", "Comma separated list of allowed CORS origins")
	trustProxy := flags.String("trust-proxy", "", "Trust X-Forwarded-For/X-Real-IP from a reverse proxy (default: false)")

	dbDriver := flags.String("db-driver", "", "Database driver: sqlite or postgres (default: sqlite)")
	dbURL := flags.String("db-url", "", "Database file (sqlite) or connection string (postgres)")
	dbMaxOpen := flags.String("db-max-open-conns", "", "Maximum open database connections (default: 10)")

	tokenSecret := flags.String("token-secret", "", "Secret used to derive the token key")
	tokenTTL := flags.String("token-ttl", "", "Access token lifetime (default: 24h)")
	authRateLimit := flags.String("auth-rate-limit", "", "Auth requests per second per client (default: 5)")
	authRateBurst := flags.String("auth-rate-burst", "", "Auth request burst per client (default: 10)")

	searchEnabled := flags.String("search", "", "Enable the full-text book search index (default: true)")

	envFile := flags.String("env-file", ".env", "Path to .env file")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := loadEnvFile(*envFile); err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port:        getConfigValue(*serverPort, "SERVER_PORT", "5000"),
			CORSOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", "http://localhost:3000")),
			TrustProxy:  getBoolConfigValue(*trustProxy, "TRUST_PROXY", false),
		},
		Database: DatabaseConfig{
			Driver:       strings.ToLower(getConfigValue(*dbDriver, "DATABASE_DRIVER", DriverSQLite)),
			URL:          getConfigValue(*dbURL, "DATABASE_URL", ""),
			MaxOpenConns: getIntConfigValue(*dbMaxOpen, "DATABASE_MAX_OPEN_CONNS", 10),
		},
		Data: DataConfig{
			Path: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Auth: AuthConfig{
			TokenSecret: getConfigValue(*tokenSecret, "TOKEN_SECRET", ""),
			RateLimit:   getFloatConfigValue(*authRateLimit, "AUTH_RATE_LIMIT", 5),
			RateBurst:   getIntConfigValue(*authRateBurst, "AUTH_RATE_BURST", 10),
		},
		Search: SearchConfig{
			Enabled: getBoolConfigValue(*searchEnabled, "SEARCH_ENABLED", true),
		},
	}

	var err error
	if cfg.Auth.TokenTTL, err = getDurationConfigValue(*tokenTTL, "TOKEN_TTL", "24h"); err != nil {
		return nil, err
	}
	if cfg.Server.ReadTimeout, err = getDurationConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = getDurationConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = getDurationConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if cfg.Database.Driver == DriverSQLite && cfg.Database.URL == "" {
		cfg.Database.URL = filepath.Join(cfg.Data.Path, "shelfwise.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	switch c.App.Environment {
	case "development", "staging", "production":
	case "":
		return errors.New("ENV is required")
	default:
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	switch strings.ToLower(c.Logger.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("invalid database driver: %s (must be sqlite or postgres)", c.Database.Driver)
	}
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}

	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid server port: %q", c.Server.Port)
	}

	if c.Auth.TokenTTL <= 0 {
		return errors.New("token TTL must be positive")
	}

	if c.Data.Path == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	return nil
}

// expandDataPath expands ~ and makes the data path absolute, defaulting to ~/Shelfwise.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	expanded, err := expandPath(c.Data.Path, filepath.Join(homeDir, "Shelfwise"))
	if err != nil {
		return err
	}
	c.Data.Path = expanded
	return nil
}

// expandPath expands ~ and makes the path absolute.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// loadEnvFile loads a .env file into the environment. A missing file is fine;
// variables already set in the environment are never overwritten.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue accepts "true", "1", "yes" (case-insensitive) as true.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int, falling back to the default on parse failure.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float, falling back to the default on parse failure.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		return defaultValue
	}
	return result
}

func getDurationConfigValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToLower(envKey), strValue, err)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for part := range strings.SplitSeq(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
