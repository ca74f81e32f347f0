package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-assistant-be/internal/config"
	"trip-assistant-be/internal/pkg/logger"
	"trip-assistant-be/pkg/travel"
	"trip-assistant-be/pkg/travel/synthetic"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.FromEnv()
	cfg.Cache.Backend = "file"
	cfg.Cache.Dir = t.TempDir()
	cfg.App.NatsURL = ""
	cfg.Providers.ChainFile = ""
	cfg.Keys = config.APIKeys{}
	return cfg
}

func TestDefaultChains(t *testing.T) {
	log := logger.NewNopLogger()
	p, err := NewProviders(testConfig(t), synthetic.NewGenerator(nil, log), nil, log)
	require.NoError(t, err)

	chains := p.Runner.Describe()
	assert.Equal(t, []string{"apify_flight/flight-finder", "apify_flight/skyscanner-scraper", "perplexity_search/flights"}, chains[travel.CapabilityFlight])
	assert.Equal(t, []string{"apify_poi/tripadvisor"}, chains[travel.CapabilityPOI])
	assert.Equal(t, []string{"perplexity_search"}, chains[travel.CapabilityGeneral])
	assert.Equal(t, []string{"deepl_translate"}, chains[travel.CapabilityTranslation])
	assert.Equal(t, []string{"vapi_reservation"}, chains[travel.CapabilityReservation])
	assert.False(t, p.Caller.IsAvailable())
}

func TestChainFileReorders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chains.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chains:\n  flight: [perplexity_search/flights]\n"), 0o644))
	cfg := testConfig(t)
	cfg.Providers.ChainFile = path

	log := logger.NewNopLogger()
	p, err := NewProviders(cfg, synthetic.NewGenerator(nil, log), nil, log)
	require.NoError(t, err)
	assert.Equal(t, "perplexity_search/flights", p.Runner.Describe()[travel.CapabilityFlight][0])
}

func TestBadChainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chains.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chains:\n  teleport: [x]\n"), 0o644))
	cfg := testConfig(t)
	cfg.Providers.ChainFile = path

	log := logger.NewNopLogger()
	_, err := NewProviders(cfg, synthetic.NewGenerator(nil, log), nil, log)
	assert.Error(t, err)
}
