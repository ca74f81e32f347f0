package bootstrap

import (
	"fmt"

	"trip-assistant-be/internal/config"
	"trip-assistant-be/internal/pkg/logger"
	"trip-assistant-be/pkg/metrics"
	"trip-assistant-be/pkg/travel/fallback"
	"trip-assistant-be/pkg/travel/provider"
)

// Providers is the assembled provider layer
type Providers struct {
	Runner *fallback.Runner
	Caller *provider.VapiCall
}

// NewProviders registers every adapter in its default order, then applies
// the chain file on top. Adapters without credentials stay registered and
// are skipped at run time.
func NewProviders(cfg *config.Config, synth fallback.Synthesizer, m *metrics.Metrics, log logger.ILogger) (*Providers, error) {
	actors := provider.NewActorClient(cfg.Providers.ActorBaseURL, cfg.Keys.Apify, log)
	if cfg.Providers.PollInterval > 0 {
		actors.PollInterval = cfg.Providers.PollInterval
	}
	vapi := provider.NewVapiClient(cfg.Keys.Vapi, cfg.Keys.VapiPhoneNumberID, cfg.Providers.VapiURL, log)
	if cfg.Providers.CallPollInterval > 0 {
		vapi.PollInterval = cfg.Providers.CallPollInterval
	}

	opts := []fallback.Option{fallback.WithMemo(cfg.Cache.MemoSize, cfg.Cache.MemoTTL)}
	if m != nil {
		opts = append(opts, fallback.WithObserver(m))
	}
	runner := fallback.NewRunner(synth, log, opts...)
	runner.Register(
		provider.NewFlightFinder(actors),
		provider.NewSkyscannerScraper(actors),
		provider.NewPerplexityFlightSearch(cfg.Keys.Perplexity, cfg.Providers.PerplexityURL),
		provider.NewTripadvisor(actors),
		provider.NewMapsDirections(actors),
		provider.NewPerplexitySearch(cfg.Keys.Perplexity, cfg.Providers.PerplexityURL),
		provider.NewDeepLTranslate(cfg.Keys.DeepL, cfg.Providers.DeepLURL),
		provider.NewVapiReservation(vapi),
	)

	order, err := config.LoadChainOrder(cfg.Providers.ChainFile)
	if err != nil {
		return nil, fmt.Errorf("provider chains: %w", err)
	}
	runner.ApplyOrder(order)

	log.Info("BOOTSTRAP", "Provider chains ready", map[string]interface{}{"chains": runner.Describe()})
	return &Providers{Runner: runner, Caller: provider.NewVapiCall(vapi)}, nil
}
