package config

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scrubEnv removes every WORKSHOP_* variable for the duration of the
// test so ambient environment cannot leak into assertions
func scrubEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, "WORKSHOP_") {
			continue
		}
		key, value, _ := strings.Cut(kv, "=")
		os.Unsetenv(key)
		t.Cleanup(func() { os.Setenv(key, value) })
	}
}

func TestLoad_Defaults(t *testing.T) {
	scrubEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "workshop-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Empty(t, cfg.Database.Password)
	assert.Equal(t, "workshop", cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	scrubEnv(t)
	t.Setenv("WORKSHOP_APP_NAME", "test-app")
	t.Setenv("WORKSHOP_APP_ENV", "testing")
	t.Setenv("WORKSHOP_APP_PORT", "9000")
	t.Setenv("WORKSHOP_DATABASE_HOST", "testdb.local")
	t.Setenv("WORKSHOP_DATABASE_PORT", "5433")
	t.Setenv("WORKSHOP_DATABASE_USER", "testuser")
	t.Setenv("WORKSHOP_DATABASE_PASSWORD", "testpass")
	t.Setenv("WORKSHOP_DATABASE_DBNAME", "testdb")
	t.Setenv("WORKSHOP_DATABASE_SSLMODE", "require")
	t.Setenv("WORKSHOP_DATABASE_MAX_OPEN_CONNS", "50")
	t.Setenv("WORKSHOP_DATABASE_MAX_IDLE_CONNS", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-app", cfg.App.Name)
	assert.Equal(t, "testing", cfg.App.Env)
	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "testdb.local", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "testuser", cfg.Database.User)
	assert.Equal(t, "testpass", cfg.Database.Password)
	assert.Equal(t, "testdb", cfg.Database.DBName)
	assert.Equal(t, "require", cfg.Database.SSLMode)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, 10, cfg.Database.MaxIdleConns)
}

func TestLoad_PoolValidation(t *testing.T) {
	t.Run("idle conns cannot exceed open conns", func(t *testing.T) {
		scrubEnv(t)
		t.Setenv("WORKSHOP_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("WORKSHOP_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero open conns falls back to default", func(t *testing.T) {
		scrubEnv(t)
		t.Setenv("WORKSHOP_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("negative idle conns rejected", func(t *testing.T) {
		scrubEnv(t)
		t.Setenv("WORKSHOP_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	t.Run("password required", func(t *testing.T) {
		scrubEnv(t)
		t.Setenv("WORKSHOP_APP_ENV", "production")
		t.Setenv("WORKSHOP_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("disabled SSL rejected", func(t *testing.T) {
		scrubEnv(t)
		t.Setenv("WORKSHOP_APP_ENV", "production")
		t.Setenv("WORKSHOP_DATABASE_PASSWORD", "secure-password")
		t.Setenv("WORKSHOP_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("valid production config passes", func(t *testing.T) {
		scrubEnv(t)
		t.Setenv("WORKSHOP_APP_ENV", "production")
		t.Setenv("WORKSHOP_DATABASE_PASSWORD", "secure-password")
		t.Setenv("WORKSHOP_DATABASE_SSLMODE", "require")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	base := DatabaseConfig{
		Host:    "localhost",
		Port:    5432,
		User:    "testuser",
		DBName:  "testdb",
		SSLMode: "disable",
	}

	t.Run("includes every connection component", func(t *testing.T) {
		cfg := base
		cfg.Password = "testpass"

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in the password", func(t *testing.T) {
		cfg := base
		cfg.Password = "pass@word#123"

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})

	t.Run("tolerates an empty password", func(t *testing.T) {
		assert.NotEmpty(t, base.DSN())
	})
}
