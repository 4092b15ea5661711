package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-32-bytes-minimum"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(3600000), cfg.Auth.TokenLifetimeMS)
	assert.Equal(t, time.Hour, cfg.Auth.TokenLifetime())
	assert.Equal(t, RevocationBackendMemory, cfg.Revocation.Backend)
	assert.Equal(t, 500*time.Millisecond, cfg.Revocation.Timeout())
	assert.Equal(t, 5*time.Minute, cfg.Revocation.PurgeInterval())
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 2*time.Second, cfg.Redis.DialTimeout())
	assert.Equal(t, "session-token-service", cfg.Postgres.ApplicationName)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", testSecret)
	t.Setenv("AUTH_TOKEN_LIFETIME_MS", "1500")
	t.Setenv("REVOCATION_BACKEND", RevocationBackendRedis)
	t.Setenv("REVOCATION_TIMEOUT_MS", "250")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1500*time.Millisecond, cfg.Auth.TokenLifetime())
	assert.Equal(t, RevocationBackendRedis, cfg.Revocation.Backend)
	assert.Equal(t, 250*time.Millisecond, cfg.Revocation.Timeout())
}

func TestLoadAdminSeed(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", testSecret)
	t.Setenv("AUTH_ADMIN_EMAIL", "root@b.com")
	t.Setenv("AUTH_ADMIN_PASSWORD", "pw-123456")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Administrator", cfg.Auth.AdminName)
	assert.Equal(t, "root@b.com", cfg.Auth.AdminEmail)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing secret", env: map[string]string{}},
		{name: "short secret", env: map[string]string{"AUTH_JWT_SECRET": "too-short"}},
		{name: "zero lifetime", env: map[string]string{"AUTH_JWT_SECRET": testSecret, "AUTH_TOKEN_LIFETIME_MS": "0"}},
		{name: "negative lifetime", env: map[string]string{"AUTH_JWT_SECRET": testSecret, "AUTH_TOKEN_LIFETIME_MS": "-1"}},
		{name: "non-numeric lifetime", env: map[string]string{"AUTH_JWT_SECRET": testSecret, "AUTH_TOKEN_LIFETIME_MS": "soon"}},
		{name: "unknown backend", env: map[string]string{"AUTH_JWT_SECRET": testSecret, "REVOCATION_BACKEND": "etcd"}},
		{name: "postgres without dsn", env: map[string]string{"AUTH_JWT_SECRET": testSecret, "REVOCATION_BACKEND": RevocationBackendPostgres}},
		{name: "admin without password", env: map[string]string{"AUTH_JWT_SECRET": testSecret, "AUTH_ADMIN_EMAIL": "root@b.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("AUTH_JWT_SECRET", "")
			t.Setenv("POSTGRES_DSN", "")
			t.Setenv("AUTH_ADMIN_EMAIL", "")
			t.Setenv("AUTH_ADMIN_PASSWORD", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
