package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	"github.com/Apurer/storefront-orders/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-orders/internal/domains/orders/domain"
	ordersports "github.com/Apurer/storefront-orders/internal/domains/orders/ports"
)

// ConvertCartActivityName converts a cart inside one database transaction.
const ConvertCartActivityName = "orders.activities.ConvertCart"

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ordersports.Service
}

// NewActivities wires the orders service into the Temporal activities bundle.
func NewActivities(service ordersports.Service) *Activities {
	return &Activities{service: service}
}

// ConvertCart runs the conversion. Business failures come back as non-retryable application
// errors; anything else is retried by the workflow's policy.
func (a *Activities) ConvertCart(ctx context.Context, input types.ConvertCartInput) (*domain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("cart conversion activity not initialized", "cartId", input.CartID)
		return nil, errors.New("cart conversion activity not initialized")
	}
	logger.Info("ConvertCart activity started", "cartId", input.CartID)
	order, err := a.service.ConvertCart(ctx, input)
	if err != nil {
		logger.Error("ConvertCart activity failed", "cartId", input.CartID, "error", err)
		return nil, EncodeError(err)
	}
	logger.Info("ConvertCart activity completed", "cartId", input.CartID, "orderId", order.ID)
	return order, nil
}
