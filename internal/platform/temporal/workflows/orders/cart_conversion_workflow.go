package orders

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/storefront-orders/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-orders/internal/domains/orders/domain"
	"github.com/Apurer/storefront-orders/internal/platform/temporal/sequences"
)

const (
	// CartConversionWorkflowName is the public identifier for registering the workflow.
	CartConversionWorkflowName = "orders.workflows.CartConversion"
	// CartConversionTaskQueue is the queue consumed by the worker processing conversions.
	CartConversionTaskQueue = "ORDER_CART_CONVERSION"
)

// CartConversionWorkflowInput captures the conversion request.
type CartConversionWorkflowInput struct {
	Command types.ConvertCartInput
	TraceID string
}

// CartConversionWorkflow converts a cart into an order. Without a client key the workflow id
// becomes the idempotency key so activity retries never convert twice.
func CartConversionWorkflow(ctx workflow.Context, input CartConversionWorkflowInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	command := input.Command
	if command.IdempotencyKey == "" {
		command.IdempotencyKey = workflow.GetInfo(ctx).WorkflowExecution.ID
	}
	logger.Info("CartConversionWorkflow started", withTraceID(input.TraceID, "cartId", command.CartID)...)
	order, err := sequences.RunCartConversionSequence(ctx, command)
	if err != nil {
		logger.Error("CartConversionWorkflow failed", withTraceID(input.TraceID, "cartId", command.CartID, "error", err)...)
		return nil, err
	}
	logger.Info("CartConversionWorkflow completed", withTraceID(input.TraceID, "orderId", order.ID)...)
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
