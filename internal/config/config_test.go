package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("DB_PING_TIMEOUT_SEC", "2")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("STORAGE_BACKEND", "local")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.Equal(t, 2, cfg.Database.PingTimeoutSec)
	assert.Equal(t, 60, cfg.Database.ConnMaxIdleTimeSec)
	assert.Equal(t, "docvault", cfg.Database.ApplicationName)
	assert.True(t, cfg.Storage.MinIO.UseSSL)
	assert.Equal(t, "local", cfg.Storage.Backend)
	assert.Equal(t, "X-Principal-ID", cfg.Auth.PrincipalHeader)
	assert.Equal(t, "postgres", cfg.RecordStore)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docvault.yaml")
	content := `
port: "9090"
record_store: memory
database:
  host: file-host
  name: docs
storage:
  backend: local
  local_path: /srv/uploads
thumbnail:
  cache_dir: /srv/thumbs
rate_limit:
  rps: 5
  burst: 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DB_HOST", "env-host")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "memory", cfg.RecordStore)
	assert.Equal(t, "env-host", cfg.Database.Host, "env must win over file")
	assert.Equal(t, "docs", cfg.Database.Name)
	assert.Equal(t, "5432", cfg.Database.Port, "defaults survive a partial file")
	assert.Equal(t, "/srv/uploads", cfg.Storage.LocalPath)
	assert.Equal(t, "/srv/thumbs", cfg.Thumbnail.CacheDir)
	assert.Equal(t, 5.0, cfg.RateLimit.RPS)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
}

func TestLoad_BadFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	t.Setenv(key, "value")

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	t.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	t.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	t.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	t.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	t.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvFloat(t *testing.T) {
	key := "TEST_FLOAT_VAR"

	t.Setenv(key, "2.5")
	assert.Equal(t, 2.5, getEnvFloat(key, 0))

	t.Setenv(key, "nope")
	assert.Equal(t, 1.0, getEnvFloat(key, 1))
}
