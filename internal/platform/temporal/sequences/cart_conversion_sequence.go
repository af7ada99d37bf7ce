package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/storefront-orders/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-orders/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/storefront-orders/internal/platform/temporal/activities/orders"
)

// RunCartConversionSequence executes the conversion activity. The input must carry an
// idempotency key so a retried attempt replays a conversion that already committed.
func RunCartConversionSequence(ctx workflow.Context, input types.ConvertCartInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("cart conversion sequence started", "cartId", input.CartID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        time.Second,
			BackoffCoefficient:     2.0,
			MaximumInterval:        10 * time.Second,
			MaximumAttempts:        5,
			NonRetryableErrorTypes: orderactivities.NonRetryableErrorTypes,
		},
	}

	var order domain.Order
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, options), orderactivities.ConvertCartActivityName, input).Get(ctx, &order)
	if err != nil {
		logger.Error("cart conversion sequence failed", "cartId", input.CartID, "error", err)
		return nil, err
	}
	logger.Info("cart conversion sequence completed", "cartId", input.CartID, "orderId", order.ID)
	return &order, nil
}
