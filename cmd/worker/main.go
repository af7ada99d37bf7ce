package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/storefront-orders/internal/app/api"
	platformobservability "github.com/Apurer/storefront-orders/internal/platform/observability"
	orderactivities "github.com/Apurer/storefront-orders/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/storefront-orders/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "storefront-worker"
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
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	stores, cleanupStores, err := api.OpenStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open stores", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanupStores()
	if stores.InMemory {
		logger.Warn("worker running on in-memory stores; conversions are invisible to the API process")
	}
	services := api.NewServices(cfg, stores, nil, instruments)
	activities := orderactivities.NewActivities(services.Orders)

	temporalClient, err := api.ConnectTemporalClient(cfg, instruments)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.CartConversionTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.CartConversionWorkflow, workflow.RegisterOptions{Name: orderworkflows.CartConversionWorkflowName})
	w.RegisterActivityWithOptions(activities.ConvertCart, activity.RegisterOptions{Name: orderactivities.ConvertCartActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.CartConversionTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
