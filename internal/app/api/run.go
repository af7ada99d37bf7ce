package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	storefrontserver "github.com/Apurer/storefront-orders/go"
	ordersworkflows "github.com/Apurer/storefront-orders/internal/domains/orders/adapters/workflows"
	ordersports "github.com/Apurer/storefront-orders/internal/domains/orders/ports"
	"github.com/Apurer/storefront-orders/internal/platform/kafka"
	platformobservability "github.com/Apurer/storefront-orders/internal/platform/observability"
	"github.com/Apurer/storefront-orders/internal/platform/outbox"
)

// Run boots the storefront HTTP API with observability, repositories, and workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "storefront-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	stores, cleanupStores, err := OpenStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanupStores()
	rdb, cleanupRedis := ConnectRedis(ctx, cfg, logger)
	defer cleanupRedis()
	services := NewServices(cfg, stores, rdb, instruments)

	var orderWorkflows ordersports.WorkflowOrchestrator = ordersworkflows.NewInlineOrderWorkflows(services.Orders)
	if stores.InMemory {
		// workers in other processes cannot see this process's memory
		logger.Info("in-memory stores, converting carts inline")
	} else if temporalClient, err := ConnectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, converting carts inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	if stores.InMemory && len(cfg.KafkaBrokers) > 0 {
		relayCtx, stopRelay := context.WithCancel(ctx)
		defer stopRelay()
		publisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
		defer publisher.Close()
		relay := outbox.NewRelay(stores.Outbox, publisher,
			outbox.WithInterval(cfg.OutboxInterval),
			outbox.WithBatchSize(cfg.OutboxBatchSize),
			outbox.WithLogger(logger),
		)
		go func() {
			if err := relay.Run(relayCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox relay stopped", slog.String("error", err.Error()))
			}
		}()
	}

	handlers := storefrontserver.ApiHandleFunctions{
		ProductAPI: storefrontserver.NewProductAPI(services.Catalog),
		UserAPI:    storefrontserver.NewUserAPI(services.Users),
		CartAPI:    storefrontserver.NewCartAPI(services.Carts),
		OrderAPI:   storefrontserver.NewOrderAPI(services.Orders, orderWorkflows),
	}

	metrics := platformobservability.NewServerMetrics(serviceName)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), otelgin.Middleware(serviceName), metrics.Middleware())
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	storefrontserver.NewRouterWithGinEngine(router, handlers)

	addr := cfg.Addr()
	logger.Info("storefront API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("storefront API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// ConnectTemporalClient dials Temporal with tracing and structured logging, unless disabled.
func ConnectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
