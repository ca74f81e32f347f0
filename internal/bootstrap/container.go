package bootstrap

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"trip-assistant-be/internal/config"
	"trip-assistant-be/internal/controller"
	"trip-assistant-be/internal/pkg/logger"
	"trip-assistant-be/internal/repository/memory"
	"trip-assistant-be/internal/service"
	"trip-assistant-be/pkg/database"
	"trip-assistant-be/pkg/llm"
	"trip-assistant-be/pkg/llm/factory"
	"trip-assistant-be/pkg/metrics"
	pktNats "trip-assistant-be/pkg/nats"
	"trip-assistant-be/pkg/progress"
	"trip-assistant-be/pkg/telegram"
	"trip-assistant-be/pkg/travel/intent"
	"trip-assistant-be/pkg/travel/synthetic"
	"trip-assistant-be/pkg/tripcache"
)

type Container struct {
	Logger    logger.ILogger
	Metrics   *metrics.Metrics
	Assistant service.IAssistantService
	TripCache *tripcache.Manager

	// Controllers
	WebhookController controller.IWebhookController
	AdminController   controller.IAdminController

	closers []func()
}

// Options override pieces of the container; used by tests and the CLI
type Options struct {
	Logger logger.ILogger
	LLM    llm.LLMProvider
	// SkipTelegram leaves progress updates undelivered
	SkipTelegram bool
}

func NewContainer(cfg *config.Config, opts Options) (*Container, error) {
	c := &Container{}

	// 1. Core
	sysLogger := opts.Logger
	if sysLogger == nil {
		sysLogger = logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	}
	c.Logger = sysLogger
	c.Metrics = metrics.New()

	llmProvider := opts.LLM
	if llmProvider == nil {
		var err error
		llmProvider, err = factory.NewLLMProvider(factory.Settings{
			Provider: cfg.Ai.LLMProvider,
			Model:    cfg.Ai.LLMModel,
			BaseURL:  cfg.Ai.LLMBaseURL,
			APIKey:   cfg.LLMKey(),
		})
		if err != nil {
			return nil, fmt.Errorf("llm provider: %w", err)
		}
	}
	sysLogger.Info("BOOTSTRAP", "LLM provider ready", map[string]interface{}{"provider": cfg.Ai.LLMProvider, "model": cfg.Ai.LLMModel})

	// 2. Providers
	providers, err := NewProviders(cfg, synthetic.NewGenerator(llmProvider, sysLogger), c.Metrics, sysLogger)
	if err != nil {
		return nil, err
	}

	// 3. Storage
	store, closeStore, err := newTripCacheStore(cfg, sysLogger)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, closeStore)
	c.TripCache = tripcache.NewManager(store, sysLogger)

	sessions := memory.NewSessionRepository(cfg.Cache.SessionTTL, memory.WithRetention(cfg.Cache.HistoryRetained))

	// 4. Events
	var publisher service.EventPublisher
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "NATS publisher unavailable, interaction events disabled", map[string]interface{}{"error": err.Error()})
		} else {
			publisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	progressBus := progress.NewBus(sysLogger)
	c.closers = append(c.closers, func() { _ = progressBus.Close() })

	// 5. Service
	c.Assistant = service.NewAssistantService(service.AssistantDeps{
		LLM:              llmProvider,
		Preprocessor:     intent.NewPreprocessor(llmProvider, sysLogger),
		Router:           intent.NewRouter(),
		Runner:           providers.Runner,
		Sessions:         sessions,
		TripCache:        c.TripCache,
		Caller:           providers.Caller,
		Progress:         progressBus,
		Events:           publisher,
		Metrics:          c.Metrics,
		Logger:           sysLogger,
		HistorySent:      cfg.Cache.HistorySent,
		StatusClearDelay: cfg.Providers.StatusClearDelay,
	})
	// Closed before the bus so no scheduled clear publishes on a closed bus
	c.closers = append([]func(){c.Assistant.Close}, c.closers...)

	// 6. Transport
	bot := telegram.NewClient(nil, cfg.Telegram.BaseURL, cfg.Telegram.BotToken)
	if !opts.SkipTelegram {
		notifier := telegram.NewNotifier(bot, sysLogger)
		if err := c.Assistant.RegisterProgressCallback(notifier.Handle); err != nil {
			return nil, fmt.Errorf("register progress callback: %w", err)
		}
	}

	var logs logger.LogReader
	if r, ok := sysLogger.(logger.LogReader); ok {
		logs = r
	}
	c.WebhookController = controller.NewWebhookController(c.Assistant, bot, cfg.App.PublicURL, sysLogger)
	c.AdminController = controller.NewAdminController(c.TripCache, logs, cfg.App.JWTSecret, sysLogger)
	return c, nil
}

// newTripCacheStore opens the configured backend. The returned func
// releases its connections.
func newTripCacheStore(cfg *config.Config, log logger.ILogger) (tripcache.Store, func(), error) {
	switch cfg.Cache.Backend {
	case "redis":
		opt, err := redis.ParseURL(cfg.Cache.RedisURL)
		if err != nil {
			log.Warn("BOOTSTRAP", "Failed to parse Redis URL, using it as an address", map[string]interface{}{"error": err.Error()})
			opt = &redis.Options{Addr: cfg.Cache.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Warn("BOOTSTRAP", "Redis is not reachable yet", map[string]interface{}{"error": err.Error()})
		}
		return tripcache.NewRedisStore(rdb), func() { _ = rdb.Close() }, nil

	case "postgres":
		store, closeDB, err := OpenGormStore(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return store, closeDB, nil

	case "file", "":
		store, err := tripcache.NewFileStore(cfg.Cache.Dir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown trip cache backend %q", cfg.Cache.Backend)
}

// OpenGormStore connects to postgres and creates the trip_caches table
func OpenGormStore(cfg *config.Config, log logger.ILogger) (*tripcache.GormStore, func(), error) {
	db, err := database.NewGormDBFromDSN(cfg.Cache.DBConnection, log, !cfg.IsProduction())
	if err != nil {
		return nil, nil, err
	}
	store := tripcache.NewGormStore(db)
	if err := store.Migrate(); err != nil {
		return nil, nil, fmt.Errorf("migrate trip_caches: %w", err)
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return store, closeDB, nil
}

// Close releases resources in reverse dependency order
func (c *Container) Close() {
	for _, fn := range c.closers {
		fn()
	}
	_ = c.Logger.Sync()
}
