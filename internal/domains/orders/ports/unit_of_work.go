package ports

import (
	"context"

	cartports "github.com/Apurer/storefront-orders/internal/domains/carts/ports"
	catalogports "github.com/Apurer/storefront-orders/internal/domains/catalog/ports"
	"github.com/Apurer/storefront-orders/internal/platform/outbox"
)

// Tx exposes the repositories bound to one unit of work.
type Tx interface {
	Products() catalogports.Repository
	Carts() cartports.Repository
	Orders() Repository
	Idempotency() IdempotencyStore
	Outbox() outbox.Appender
}

// UnitOfWork runs fn atomically: every write made through tx commits together when fn returns
// nil and none of them is visible when it returns an error.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
