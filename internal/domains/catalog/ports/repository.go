package ports

import (
	"context"
	"errors"

	"github.com/Apurer/storefront-orders/internal/domains/catalog/domain"
)

var (
	ErrNotFound = errors.New("product not found")
	// ErrStaleQuantity means the stored stock no longer matches the expected value of a compare-and-set.
	ErrStaleQuantity = errors.New("product quantity changed concurrently")
)

// Repository is the product inventory store.
type Repository interface {
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	// GetForUpdate loads a product and, inside a transaction, holds its row lock until commit.
	GetForUpdate(ctx context.Context, id int64) (*domain.Product, error)
	// TrySetQuantity writes quantity only when the stored value still equals expected.
	TrySetQuantity(ctx context.Context, id int64, expected, quantity int32) error
	List(ctx context.Context) ([]*domain.Product, error)
}
