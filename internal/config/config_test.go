package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-assistant-be/pkg/travel"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("SESSION_TTL", "")
	cfg := FromEnv()

	assert.Equal(t, "file", cfg.Cache.Backend)
	assert.Equal(t, time.Hour, cfg.Cache.SessionTTL)
	assert.Equal(t, 20, cfg.Cache.HistoryRetained)
	assert.Equal(t, 6, cfg.Cache.HistorySent)
	assert.Equal(t, 5*time.Second, cfg.Providers.PollInterval)
	assert.False(t, cfg.IsProduction())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("TRIP_CACHE_BACKEND", "redis")
	t.Setenv("SESSION_TTL", "90")
	t.Setenv("ACTOR_POLL_INTERVAL", "250ms")
	t.Setenv("HISTORY_SENT", "not-a-number")
	t.Setenv("LLM_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

	cfg := FromEnv()
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, 90*time.Second, cfg.Cache.SessionTTL)
	assert.Equal(t, 250*time.Millisecond, cfg.Providers.PollInterval)
	assert.Equal(t, 6, cfg.Cache.HistorySent)
	assert.Equal(t, "sk-ant", cfg.LLMKey())
}

func TestLoadChainOrder(t *testing.T) {
	order, err := LoadChainOrder("")
	require.NoError(t, err)
	assert.Nil(t, order)

	path := filepath.Join(t.TempDir(), "chains.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
chains:
  flight:
    - apify_flight/skyscanner-scraper
    - apify_flight/flight-finder
  directions: [apify_google_maps]
`), 0o600))

	order, err = LoadChainOrder(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"apify_flight/skyscanner-scraper", "apify_flight/flight-finder"}, order[travel.CapabilityFlight])
	assert.Equal(t, []string{"apify_google_maps"}, order[travel.CapabilityDirections])
}

func TestLoadChainOrderErrors(t *testing.T) {
	_, err := LoadChainOrder(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chains:\n  teleport: [x]\n"), 0o600))
	_, err = LoadChainOrder(path)
	assert.ErrorContains(t, err, `unknown capability "teleport"`)

	require.NoError(t, os.WriteFile(path, []byte("chains: [oops"), 0o600))
	_, err = LoadChainOrder(path)
	assert.Error(t, err)
}
