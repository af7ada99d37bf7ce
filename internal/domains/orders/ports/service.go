package ports

import (
	"context"
	"time"

	catalogdomain "github.com/Apurer/storefront-orders/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-orders/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-orders/internal/domains/orders/domain"
	usersdomain "github.com/Apurer/storefront-orders/internal/domains/users/domain"
)

// UserDirectory resolves order owners.
type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*usersdomain.User, error)
	GetByEmail(ctx context.Context, email string) (*usersdomain.User, error)
}

// ProductCatalog resolves products for order views.
type ProductCatalog interface {
	GetProduct(ctx context.Context, id int64) (*catalogdomain.Product, error)
}

// Service exposes the order use cases to adapters (inbound/driving port).
type Service interface {
	ConvertCart(ctx context.Context, input types.ConvertCartInput) (*domain.Order, error)
	CreateOrder(ctx context.Context, input types.CreateOrderInput) (*domain.Order, error)
	UpdateShipping(ctx context.Context, input types.UpdateShippingInput) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	GetOrderByID(ctx context.Context, id int64) (*types.OrderView, error)
	ListOrders(ctx context.Context) ([]*types.OrderView, error)
	ListByUserEmail(ctx context.Context, email string) ([]*types.OrderView, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*types.OrderView, error)
	FilterOrders(ctx context.Context, filter types.OrderFilter) ([]*types.OrderView, error)
	MostRecent(ctx context.Context, n int) ([]*types.OrderView, error)
	ListByProductID(ctx context.Context, productID int64) ([]*types.OrderView, error)
	RevenueByDateRange(ctx context.Context, start, end time.Time) ([]types.DailyRevenue, error)
}
