// Command archiver copies interaction events from NATS into the postgres
// trip cache, so documents survive a file or redis backend being wiped.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"trip-assistant-be/internal/bootstrap"
	"trip-assistant-be/internal/config"
	"trip-assistant-be/internal/pkg/logger"
	"trip-assistant-be/pkg/events"
	pktNats "trip-assistant-be/pkg/nats"
	"trip-assistant-be/pkg/tripcache"
)

const durableName = "trip-cache-archiver"

func main() {
	cfg := config.Load()
	if cfg.App.NatsURL == "" {
		log.Fatal("NATS_URL is required")
	}
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer sysLogger.Sync()

	store, closeDB, err := bootstrap.OpenGormStore(cfg, sysLogger)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer closeDB()
	archive := tripcache.NewManager(store, sysLogger)

	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := sub.Subscribe(ctx, events.TypeInteractionRecorded, durableName, archive.Replay); err != nil {
		log.Fatalf("subscribe: %v", err)
	}
	sysLogger.Info("ARCHIVER", "Archiving interaction events", map[string]interface{}{"durable": durableName})
	<-ctx.Done()
}
