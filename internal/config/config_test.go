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
	// Empty env values are ignored by viper, so this shields the test from the host.
	for _, key := range []string{"PORT", "DB_PATH", "USD_EUR_RATE", "PRICE_TIMEOUT", "PRICE_CACHE_TTL", "PRICE_CACHE_SIZE", "CORS_ALLOWED_ORIGINS", "METRICS_INTERVAL", "POKETRADE_CONFIG"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "./data.db", cfg.Database.Path)
	assert.InDelta(t, 0.92, cfg.Pricing.USDToEUR, 1e-9)
	assert.Equal(t, 10*time.Second, cfg.Pricing.Timeout)
	assert.Equal(t, 10*time.Minute, cfg.Pricing.CacheTTL)
	assert.Equal(t, 512, cfg.Pricing.CacheSize)
	assert.Empty(t, cfg.CORSOrigins)
	assert.Equal(t, 30*time.Second, cfg.MetricsInterval)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("DB_PATH", "/tmp/cards.db")
	t.Setenv("USD_EUR_RATE", "0.85")
	t.Setenv("PRICE_TIMEOUT", "3s")
	t.Setenv("POKEMONTCG_API_KEY", "secret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example, http://b.example,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "/tmp/cards.db", cfg.Database.Path)
	assert.InDelta(t, 0.85, cfg.Pricing.USDToEUR, 1e-9)
	assert.Equal(t, 3*time.Second, cfg.Pricing.Timeout)
	assert.Equal(t, "secret", cfg.Pricing.APIKey)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORSOrigins)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poketrade.toml")
	require.NoError(t, os.WriteFile(path, []byte("usd_eur_rate = 0.9\nlog_level = \"debug\"\n"), 0o600))
	t.Setenv("POKETRADE_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 0.9, cfg.Pricing.USDToEUR, 1e-9)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsBadRate(t *testing.T) {
	t.Setenv("USD_EUR_RATE", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usd_eur_rate")
}
