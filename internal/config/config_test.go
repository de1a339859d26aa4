package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/users-api/internal/config"
)

var configEnvKeys = []string{
	"CONFIG_PATH", "PORT", "APP_PORT", "CORS_ORIGIN", "REQUEST_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT",
	"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
	"DB_MAX_CONNS", "DB_MIN_CONNS", "DB_MAX_CONN_LIFETIME", "DB_AUTO_MIGRATE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
	}
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestNewConfig_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_NAME", "crud_app")

	cfg, err := config.NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.App.Port)
	assert.Equal(t, []string{"*"}, cfg.App.CORSOrigins())
	assert.Equal(t, 10*time.Second, cfg.App.RequestTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "5432", cfg.Postgres.Port)
	assert.Equal(t, "disable", cfg.Postgres.SSLMode)
	assert.Equal(t, int32(10), cfg.Postgres.MaxConns)
	assert.Equal(t, int32(2), cfg.Postgres.MinConns)
	assert.Equal(t, 30*time.Minute, cfg.Postgres.MaxConnLifetime)
	assert.True(t, cfg.Postgres.AutoMigrate)
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "users")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("CORS_ORIGIN", "http://localhost:3000/, https://example.com")
	t.Setenv("DB_MAX_CONNS", "20")
	t.Setenv("DB_MIN_CONNS", "5")
	t.Setenv("DB_MAX_CONN_LIFETIME", "1h")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("REQUEST_TIMEOUT", "3s")

	cfg, err := config.NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, []string{"http://localhost:3000", "https://example.com"}, cfg.App.CORSOrigins())
	assert.Equal(t, "secret", cfg.Postgres.Password)
	assert.Equal(t, int32(20), cfg.Postgres.MaxConns)
	assert.Equal(t, int32(5), cfg.Postgres.MinConns)
	assert.Equal(t, time.Hour, cfg.Postgres.MaxConnLifetime)
	assert.False(t, cfg.Postgres.AutoMigrate)
	assert.Equal(t, 3*time.Second, cfg.App.RequestTimeout)
}

func TestNewConfig_YAMLFileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
app:
  port: "9090"
  cors_origin: "https://app.example.com"
postgres:
  host: yaml-host
  user: yaml-user
  dbname: yaml-db
  max_conns: 4
  min_conns: 1
  max_conn_lifetime: 5m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("DB_HOST", "env-host")

	cfg, err := config.NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "env-host", cfg.Postgres.Host)
	assert.Equal(t, "yaml-user", cfg.Postgres.User)
	assert.Equal(t, int32(4), cfg.Postgres.MaxConns)
	assert.Equal(t, 5*time.Minute, cfg.Postgres.MaxConnLifetime)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.App.CORSOrigins())
}

func TestNewConfig_DotEnvFile(t *testing.T) {
	clearEnv(t)
	for _, key := range []string{"DB_HOST", "DB_USER", "DB_NAME"} {
		require.NoError(t, os.Unsetenv(key))
	}

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DB_HOST=dotenv-host\nDB_USER=dotenv-user\nDB_NAME=dotenv-db\n"), 0o600))
	t.Setenv("ENV_FILE", path)
	t.Cleanup(func() {
		for _, key := range []string{"DB_HOST", "DB_USER", "DB_NAME"} {
			_ = os.Unsetenv(key)
		}
	})

	cfg, err := config.NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "dotenv-host", cfg.Postgres.Host)
	assert.Equal(t, "dotenv-user", cfg.Postgres.User)
	assert.Equal(t, "dotenv-db", cfg.Postgres.DBName)
}

func TestNewConfig_MissingRequired(t *testing.T) {
	clearEnv(t)

	cfg, err := config.NewConfig()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "DB_HOST")
	assert.Contains(t, err.Error(), "DB_USER")
	assert.Contains(t, err.Error(), "DB_NAME")
}

func TestNewConfig_InvalidNumber(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_NAME", "crud_app")
	t.Setenv("DB_MAX_CONNS", "many")

	_, err := config.NewConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_MAX_CONNS")
}

func TestNewConfig_MinConnsAboveMax(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_NAME", "crud_app")
	t.Setenv("DB_MAX_CONNS", "2")
	t.Setenv("DB_MIN_CONNS", "3")

	_, err := config.NewConfig()
	require.Error(t, err)
}
