package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sid", cfg.SidCookieKey)
	assert.Equal(t, 15*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.AllowedOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("SCREEN_IDLE_TTL", "5m")
	t.Setenv("ALLOWED_ORIGINS", "https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 5*time.Minute, cfg.ScreenIdleTTL)
	assert.Equal(t, []string{"https://admin.example.com"}, cfg.AllowedOrigins)
}

func TestLoadRejectsDefaultSecretInProduction(t *testing.T) {
	t.Setenv("ENVIRONMENT", Production)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"empty upstream", func(c *Config) { c.UpstreamURL = " " }, true},
		{"zero idle ttl", func(c *Config) { c.ScreenIdleTTL = 0 }, true},
		{"negative retention", func(c *Config) { c.AuditRetentionDays = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				UpstreamURL:   "http://upstream",
				SessionSecret: "s",
				ScreenIdleTTL: time.Minute,
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadEnvSkipsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(present, []byte("ORA_TEST_ONLY_KEY=loaded\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("ORA_TEST_ONLY_KEY") })

	n, err := LoadEnv(present, filepath.Join(dir, ".env.local"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "loaded", os.Getenv("ORA_TEST_ONLY_KEY"))
}
