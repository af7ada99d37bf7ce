package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Apurer/storefront-orders/internal/app/api"
	"github.com/Apurer/storefront-orders/internal/platform/kafka"
	platformobservability "github.com/Apurer/storefront-orders/internal/platform/observability"
	"github.com/Apurer/storefront-orders/internal/platform/outbox"
	platformpostgres "github.com/Apurer/storefront-orders/internal/platform/postgres"
)

// outbox-relay publishes committed order events from the outbox table to Kafka. Run one instance.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	const serviceName = "storefront-outbox-relay"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal("KAFKA_BROKERS not set; nothing to publish to")
	}
	db, cleanup := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot read the outbox")
	}

	publisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
	defer publisher.Close()
	relay := outbox.NewRelay(outbox.NewGormStore(db), publisher,
		outbox.WithInterval(cfg.OutboxInterval),
		outbox.WithBatchSize(cfg.OutboxBatchSize),
		outbox.WithLogger(logger),
	)
	logger.Info("publishing order events to kafka", slog.Any("brokers", cfg.KafkaBrokers), slog.String("topic", cfg.KafkaOrderTopic))
	if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("outbox relay exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
