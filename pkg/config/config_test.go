package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	return dir
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "http://localhost:8000", cfg.Backend.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 55*time.Minute, cfg.Auth.RefreshInterval)
	assert.Equal(t, 5*time.Minute, cfg.Auth.ExpiryLead)
	assert.Equal(t, 2500*time.Millisecond, cfg.Flow.NavigateDelay)
	assert.Equal(t, 3*time.Second, cfg.Flow.SettlementInterval)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowOrigins)
}

func TestLoad_FileValues(t *testing.T) {
	dir := writeConfig(t, `
port: "9100"
backend:
  base_url: "https://api.example.com"
  timeout: 10s
flow:
  navigate_delay: 3s
storage:
  driver: redis
  redis:
    addr: "cache:6379"
    db: 2
cors:
  allow_origins:
    - "https://app.example.com"
`)
	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "https://api.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 3*time.Second, cfg.Flow.NavigateDelay)
	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, "cache:6379", cfg.Storage.Redis.Addr)
	assert.Equal(t, 2, cfg.Storage.Redis.DB)
	assert.Equal(t, "betwallet:client:", cfg.Storage.Redis.KeyPrefix)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.CORS.AllowOrigins)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := writeConfig(t, `
backend:
  base_url: "https://api.example.com"
`)
	t.Setenv("BETWALLET_BACKEND_BASE_URL", "https://staging.example.com")
	t.Setenv("BETWALLET_STORAGE_DRIVER", "memory")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://staging.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, "memory", cfg.Storage.Driver)
}

func TestLoad_RejectsNavigateDelayOutOfRange(t *testing.T) {
	for _, delay := range []string{"1s", "5s"} {
		dir := writeConfig(t, "flow:\n  navigate_delay: "+delay+"\n")
		_, err := Load(dir)
		require.Error(t, err, delay)
		assert.Contains(t, err.Error(), "flow.navigate_delay")
	}
}

func TestLoad_RejectsMalformedFile(t *testing.T) {
	dir := writeConfig(t, "port: [unclosed\n")
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestValidate_ExpiryLeadShorterThanInterval(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	cfg.Auth.ExpiryLead = cfg.Auth.RefreshInterval
	assert.Error(t, cfg.Validate())
}

func TestRepositoryConfig_PasswordsFromEnv(t *testing.T) {
	t.Setenv("DB_PASS", "pg-secret")
	t.Setenv("REDIS_PASS", "redis-secret")

	cfg, err := Load(writeConfig(t, `
storage:
  driver: postgres
  postgres:
    host: db
    username: wallet
    dbname: client
    profile: tablet
`))
	require.NoError(t, err)

	rc := cfg.RepositoryConfig()
	assert.Equal(t, "postgres", rc.Driver)
	assert.Equal(t, "db", rc.Postgres.Host)
	assert.Equal(t, "5432", rc.Postgres.Port)
	assert.Equal(t, "wallet", rc.Postgres.Username)
	assert.Equal(t, "pg-secret", rc.Postgres.Password)
	assert.Equal(t, "tablet", rc.Postgres.Profile)
	assert.Equal(t, "redis-secret", rc.Redis.Password)
}
