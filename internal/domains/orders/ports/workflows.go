package ports

import (
	"context"

	"github.com/Apurer/storefront-orders/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-orders/internal/domains/orders/domain"
)

// WorkflowOrchestrator runs cart conversion, durably when a workflow engine is configured.
type WorkflowOrchestrator interface {
	ConvertCart(ctx context.Context, input types.ConvertCartInput) (*domain.Order, error)
}
