package ports

import (
	"context"

	"github.com/Apurer/storefront-orders/internal/domains/catalog/domain"
)

// Service is the inbound port for catalog maintenance.
type Service interface {
	AddProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	Restock(ctx context.Context, id int64, units int32) (*domain.Product, error)
}
