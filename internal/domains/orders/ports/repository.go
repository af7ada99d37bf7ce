package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/storefront-orders/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-orders/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// Repository persists orders together with their items.
type Repository interface {
	// Save inserts a new order with its items, or updates shipping, total and timestamps of an
	// existing one. Items of an existing order are never rewritten.
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// Delete removes the order and its items.
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.Order, error)
	ListByUserID(ctx context.Context, userID int64) ([]*domain.Order, error)
	// ListByDateRange matches order dates in [start, end].
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Order, error)
	Filter(ctx context.Context, filter types.OrderFilter) ([]*domain.Order, error)
	// MostRecent returns up to limit orders, newest first.
	MostRecent(ctx context.Context, limit int) ([]*domain.Order, error)
	ListByProductID(ctx context.Context, productID int64) ([]*domain.Order, error)
	// RevenueByDateRange sums totals per order date in [start, end], ordered by date.
	RevenueByDateRange(ctx context.Context, start, end time.Time) ([]types.DailyRevenue, error)
}
