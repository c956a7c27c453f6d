package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"ENV", "PORT", "GEMINI_API_KEY", "API_KEY", "GEMINI_MODEL", "ANALYSIS_LANGUAGE",
	"CLOUD_RUN_URL", "ALLOWED_ORIGINS", "RATE_LIMIT_INTERVAL", "RATE_LIMIT_BURST", "DAILY_QUOTA",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, "gemini-2.5-flash", cfg.Model)
	assert.Equal(t, "Korean", cfg.Language)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.Equal(t, 2*time.Second, cfg.RateLimitInterval)
	assert.Equal(t, 3, cfg.RateLimitBurst)
	assert.Equal(t, int64(500), cfg.DailyQuota)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("GEMINI_API_KEY", "primary")
	t.Setenv("API_KEY", "legacy")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("RATE_LIMIT_INTERVAL", "500ms")
	t.Setenv("RATE_LIMIT_BURST", "5")
	t.Setenv("DAILY_QUOTA", "42")

	cfg := Load()
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "primary", cfg.APIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.Model)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 500*time.Millisecond, cfg.RateLimitInterval)
	assert.Equal(t, 5, cfg.RateLimitBurst)
	assert.Equal(t, int64(42), cfg.DailyQuota)
}

func TestLoadLegacyAPIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "legacy")

	assert.Equal(t, "legacy", Load().APIKey)
}

func TestLoadInvalidNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATE_LIMIT_BURST", "lots")
	t.Setenv("DAILY_QUOTA", "-3")
	t.Setenv("RATE_LIMIT_INTERVAL", "soon")

	cfg := Load()
	assert.Equal(t, 3, cfg.RateLimitBurst)
	assert.Equal(t, int64(500), cfg.DailyQuota)
	assert.Equal(t, 2*time.Second, cfg.RateLimitInterval)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides variables that are already set
	require.NoError(t, os.Unsetenv("GEMINI_API_KEY"))
	path := filepath.Join(t.TempDir(), ".env.local")
	require.NoError(t, os.WriteFile(path, []byte("GEMINI_API_KEY=from-file\n"), 0o600))

	LoadEnvFile(path, filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "from-file", Load().APIKey)
}
