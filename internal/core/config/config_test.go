package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_Defaults verifies that default values are used when env vars are missing.
func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "LOG_LEVEL", "SERVER_PORT", "STORAGE_BACKEND", "ADMIN_ACTORS", "EXPORT_ARCHIVE_ENDPOINT"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load(".")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, BackendMemory, cfg.StorageBackend)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.False(t, cfg.Archive.Enabled())
	assert.Empty(t, cfg.Admins())
}

// TestLoad_EnvVars verifies that environment variables override defaults.
func TestLoad_EnvVars(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_USER", "tracker")
	t.Setenv("DB_NAME", "reagents")
	t.Setenv("ADMIN_ACTORS", " alice, ,bob ")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, BackendPostgres, cfg.StorageBackend)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "reagents", cfg.Database.Name)
	assert.Equal(t, []string{"alice", "bob"}, cfg.Admins())
}

// TestLoad_File verifies that values are loaded from a .env file.
func TestLoad_File(t *testing.T) {
	content := []byte(`
APP_ENV=staging
LOG_LEVEL=warn
SERVER_PORT=7070
STORAGE_BACKEND=redis
REDIS_URL=redis://cache:6379/2
`)
	err := os.WriteFile(".env", content, 0644)
	require.NoError(t, err)
	defer os.Remove(".env")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 7070, cfg.ServerPort)
	assert.Equal(t, BackendRedis, cfg.StorageBackend)
	assert.Equal(t, "redis://cache:6379/2", cfg.Redis.URL)
}

// TestLoad_ValidationFailure verifies that inconsistent settings return an error.
func TestLoad_ValidationFailure(t *testing.T) {
	t.Run("UnknownBackend", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "mongo")

		cfg, err := Load(".")
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "unknown STORAGE_BACKEND")
	})

	t.Run("PostgresWithoutCredentials", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "postgres")
		t.Setenv("DB_USER", "")
		t.Setenv("DB_NAME", "")

		_, err := Load(".")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_USER")
	})

	t.Run("ArchiveWithoutKeys", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "memory")
		t.Setenv("EXPORT_ARCHIVE_ENDPOINT", "minio:9000")

		_, err := Load(".")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "EXPORT_ARCHIVE_ACCESS_KEY")
	})
}

func TestValidateRequired(t *testing.T) {
	type nested struct {
		Token string `mapstructure:"TOKEN" required:"true"`
	}
	type withRequired struct {
		Name   string `mapstructure:"NAME"`
		Nested nested `mapstructure:",squash"`
	}

	err := validateRequired(&withRequired{Name: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required configuration: TOKEN")

	assert.NoError(t, validateRequired(&withRequired{Nested: nested{Token: "t"}}))
}
