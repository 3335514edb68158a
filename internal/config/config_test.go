package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:      AppConfig{Environment: "development"},
		Logger:   LoggerConfig{Level: "info"},
		Server:   ServerConfig{Port: "5000"},
		Database: DatabaseConfig{Driver: DriverSQLite, URL: "/tmp/shelfwise.db"},
		Data:     DataConfig{Path: "/tmp"},
		Auth:     AuthConfig{TokenTTL: 24 * time.Hour},
	}
}

// unsetEnv clears keys for the duration of the test. godotenv treats an empty
// but present variable as set, so t.Setenv(key, "") alone is not enough.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

// noEnvFile points LoadConfig at a path that does not exist so a developer's .env cannot leak in.
func noEnvFile(t *testing.T) string {
	return "-env-file=" + filepath.Join(t.TempDir(), "missing.env")
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_LogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"INFO", true},
		{"warn", true},
		{"error", true},
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_Database(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Driver = "mysql"
	assert.ErrorContains(t, cfg.Validate(), "invalid database driver")

	cfg = validConfig()
	cfg.Database.Driver = DriverPostgres
	cfg.Database.URL = ""
	assert.ErrorContains(t, cfg.Validate(), "DATABASE_URL is required")
}

func TestValidate_PortAndTTL(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = "http"
	assert.ErrorContains(t, cfg.Validate(), "invalid server port")

	cfg = validConfig()
	cfg.Server.Port = "70000"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Auth.TokenTTL = 0
	assert.ErrorContains(t, cfg.Validate(), "token TTL")
}

func TestLoadConfig_Defaults(t *testing.T) {
	unsetEnv(t, "ENV", "LOG_LEVEL", "SERVER_PORT", "DATABASE_DRIVER", "DATABASE_URL", "DATA_PATH",
		"TOKEN_TTL", "CORS_ORIGINS", "TOKEN_SECRET", "SEARCH_ENABLED", "TRUST_PROXY")
	dataDir := t.TempDir()

	cfg, err := LoadConfig([]string{noEnvFile(t), "-data-path=" + dataDir})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, filepath.Join(dataDir, "shelfwise.db"), cfg.Database.URL)
	assert.True(t, cfg.Search.Enabled)
	assert.False(t, cfg.Server.TrustProxy)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_FlagBeatsEnv(t *testing.T) {
	unsetEnv(t, "DATABASE_DRIVER", "DATABASE_URL")
	t.Setenv("SERVER_PORT", "6000")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := LoadConfig([]string{noEnvFile(t), "-port=7000", "-data-path=" + t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	_, err := LoadConfig([]string{noEnvFile(t), "-token-ttl=soon", "-data-path=" + t.TempDir()})
	assert.ErrorContains(t, err, "token_ttl")
}

func TestLoadConfig_PostgresRequiresURL(t *testing.T) {
	unsetEnv(t, "DATABASE_URL")

	_, err := LoadConfig([]string{noEnvFile(t), "-db-driver=postgres", "-data-path=" + t.TempDir()})
	assert.ErrorContains(t, err, "DATABASE_URL is required")
}

func TestLoadConfig_EnvFileDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "# local overrides\nLOG_LEVEL=debug\nSERVER_PORT=8081\nCORS_ORIGINS=\"https://shelf.example\"\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	unsetEnv(t, "LOG_LEVEL", "CORS_ORIGINS", "DATABASE_DRIVER", "DATABASE_URL")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := LoadConfig([]string{"-env-file=" + envFile, "-data-path=" + dir})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://shelf.example"}, cfg.Server.CORSOrigins)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("", "/default")
	require.NoError(t, err)
	assert.Equal(t, "/default", got)

	got, err = expandPath("~/shelf", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "shelf"), got)

	got, err = expandPath("relative/dir", "")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.Contains(t, got, filepath.Join("relative", "dir"))
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("SHELFWISE_TEST_KEY", "env-value")

	assert.Equal(t, "flag-value", getConfigValue("flag-value", "SHELFWISE_TEST_KEY", "default"))
	assert.Equal(t, "env-value", getConfigValue("", "SHELFWISE_TEST_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "SHELFWISE_MISSING_KEY", "default"))
}

func TestTypedConfigValues(t *testing.T) {
	assert.True(t, getBoolConfigValue("YES", "UNUSED", false))
	assert.False(t, getBoolConfigValue("nope", "UNUSED", true))
	assert.True(t, getBoolConfigValue("", "SHELFWISE_MISSING_KEY", true))

	assert.Equal(t, 12, getIntConfigValue("12", "UNUSED", 3))
	assert.Equal(t, 3, getIntConfigValue("twelve", "UNUSED", 3))

	assert.InDelta(t, 2.5, getFloatConfigValue("2.5", "UNUSED", 1), 0.0001)
	assert.InDelta(t, 1.0, getFloatConfigValue("x", "UNUSED", 1), 0.0001)
}
