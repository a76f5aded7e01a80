package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
env: test
api:
  base_url: "http://api.example.com/api"
  timeout: 15s
token_store:
  driver: redis
  key: "portal:token"
  redis_connection:
    addr: "localhost:6380"
    password: "redis_pass"
    user: "redis_user"
    db: 1
    max_retries: 3
    dial_timeout: 5s
    timeout: 10s
notifications:
  display_duration: 3s
http_server:
  addresshttp: ":9000"
  timeouthttp: 30s
  idle_timeout: 60s
jwttoken:
  jwt_secret_key: "test_secret_key"
  token_ttl: 24h
fake_api:
  otp_ttl: 10m
  admin_email: "admin@example.com"
  admin_password: "adminpass"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "http://api.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, "redis", cfg.TokenStore.Driver)
	assert.Equal(t, "portal:token", cfg.TokenStore.Key)
	assert.Equal(t, "localhost:6380", cfg.TokenStore.RedisConnection.Addr)
	assert.Equal(t, "redis_pass", cfg.TokenStore.RedisConnection.Password)
	assert.Equal(t, 1, cfg.TokenStore.RedisConnection.DB)
	assert.Equal(t, 3, cfg.TokenStore.RedisConnection.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.TokenStore.RedisConnection.DialTimeout)
	assert.Equal(t, 3*time.Second, cfg.Notifications.DisplayDuration)
	assert.Equal(t, ":9000", cfg.AddressHTTP)
	assert.Equal(t, 30*time.Second, cfg.TimeoutHTTP)
	assert.Equal(t, "test_secret_key", cfg.JWTSecretKey)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10*time.Minute, cfg.FakeAPI.OTPTTL)
	assert.Equal(t, "admin@example.com", cfg.FakeAPI.AdminEmail)
}

func TestLoad_DefaultValues(t *testing.T) {
	path := writeConfig(t, `
env: test
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/api", cfg.API.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.API.Timeout)
	assert.Equal(t, "file", cfg.TokenStore.Driver)
	assert.Equal(t, "workshops:token", cfg.TokenStore.Key)
	assert.Equal(t, 6*time.Second, cfg.Notifications.DisplayDuration)
	assert.Equal(t, ":8000", cfg.AddressHTTP)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 30*time.Minute, cfg.FakeAPI.OTPTTL)
	assert.Equal(t, 10, cfg.FakeAPI.LoginBurst)
	assert.Equal(t, "memory", cfg.FakeAPI.OTPCache)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: "http://from-file/api"
`)
	t.Setenv("WORKSHOP_API_URL", "http://from-env/api")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env/api", cfg.API.BaseURL)
}

func TestLoad_WithoutFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("TOKEN_STORE_DRIVER", "memory")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.TokenStore.Driver)
	assert.Equal(t, "local", cfg.Env)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfig_StringMasksSecret(t *testing.T) {
	cfg := &Config{JWTToken: JWTToken{JWTSecretKey: "super-secret"}}
	assert.NotContains(t, cfg.String(), "super-secret")
}
