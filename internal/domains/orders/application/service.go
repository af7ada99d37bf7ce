package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/Apurer/storefront-orders/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-orders/internal/domains/orders/domain"
	"github.com/Apurer/storefront-orders/internal/domains/orders/ports"
	userports "github.com/Apurer/storefront-orders/internal/domains/users/ports"
)

// DefaultRecentLimit is used by MostRecent when n is not positive.
const DefaultRecentLimit = 10

// Service orchestrates the order use cases.
type Service struct {
	uow         ports.UnitOfWork
	orders      ports.Repository
	users       ports.UserDirectory
	products    ports.ProductCatalog
	logger      *slog.Logger
	now         func() time.Time
	recentLimit int
}

type Option func(*Service)

// WithLogger sets the logger used for conversion diagnostics such as price drift.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRecentLimit changes the MostRecent default.
func WithRecentLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.recentLimit = n
		}
	}
}

// NewService wires the order service. orders is the read/write repository used outside units of
// work and may be a caching decorator.
func NewService(uow ports.UnitOfWork, orders ports.Repository, users ports.UserDirectory, products ports.ProductCatalog, opts ...Option) *Service {
	s := &Service{
		uow:         uow,
		orders:      orders,
		users:       users,
		products:    products,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:         time.Now,
		recentLimit: DefaultRecentLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrder creates an order without items. Missing shipping is seeded from the user's address.
func (s *Service) CreateOrder(ctx context.Context, input types.CreateOrderInput) (*domain.Order, error) {
	user, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, mapError(err)
	}
	shipping := domain.ShippingDetails{
		Address: user.Address.Street,
		City:    user.Address.City,
		ZipCode: user.Address.ZipCode,
		Country: user.Address.Country,
	}
	if input.Shipping != nil && !input.Shipping.IsZero() {
		shipping = *input.Shipping
	}
	order, err := domain.NewOrder(user.ID, shipping, nil, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.orders.Save(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// UpdateShipping patches the shipping details; items are untouched.
func (s *Service) UpdateShipping(ctx context.Context, input types.UpdateShippingInput) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, mapError(err)
	}
	order.UpdateShipping(input.Shipping, s.now())
	saved, err := s.orders.Save(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// DeleteOrder removes the order and its items.
func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	return mapError(s.orders.Delete(ctx, id))
}

func (s *Service) GetOrderByID(ctx context.Context, id int64) (*types.OrderView, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	views, err := s.views(ctx, []*domain.Order{order})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *Service) ListOrders(ctx context.Context) ([]*types.OrderView, error) {
	return s.listViews(ctx)(s.orders.List(ctx))
}

// ListByUserEmail returns the orders of the user owning email; an unknown email yields no orders.
func (s *Service) ListByUserEmail(ctx context.Context, email string) ([]*types.OrderView, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, userports.ErrNotFound) {
		return []*types.OrderView{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.listViews(ctx)(s.orders.ListByUserID(ctx, user.ID))
}

// ListByDateRange returns orders dated within [start, end]; both bounds are calendar days.
func (s *Service) ListByDateRange(ctx context.Context, start, end time.Time) ([]*types.OrderView, error) {
	start, end = domain.DateOf(start), domain.DateOf(end)
	if start.After(end) {
		return nil, mapError(ErrInvalidDateRange)
	}
	return s.listViews(ctx)(s.orders.ListByDateRange(ctx, start, end))
}

// FilterOrders combines the optional user, date and minimum amount criteria.
func (s *Service) FilterOrders(ctx context.Context, filter types.OrderFilter) ([]*types.OrderView, error) {
	if filter.Start != nil {
		start := domain.DateOf(*filter.Start)
		filter.Start = &start
	}
	if filter.End != nil {
		end := domain.DateOf(*filter.End)
		filter.End = &end
	}
	if filter.Start != nil && filter.End != nil && filter.Start.After(*filter.End) {
		return nil, mapError(ErrInvalidDateRange)
	}
	return s.listViews(ctx)(s.orders.Filter(ctx, filter))
}

// MostRecent returns the n newest orders, or the configured default when n is not positive.
func (s *Service) MostRecent(ctx context.Context, n int) ([]*types.OrderView, error) {
	if n <= 0 {
		n = s.recentLimit
	}
	return s.listViews(ctx)(s.orders.MostRecent(ctx, n))
}

func (s *Service) ListByProductID(ctx context.Context, productID int64) ([]*types.OrderView, error) {
	return s.listViews(ctx)(s.orders.ListByProductID(ctx, productID))
}

// RevenueByDateRange sums order totals per order date.
func (s *Service) RevenueByDateRange(ctx context.Context, start, end time.Time) ([]types.DailyRevenue, error) {
	start, end = domain.DateOf(start), domain.DateOf(end)
	if start.After(end) {
		return nil, mapError(ErrInvalidDateRange)
	}
	revenue, err := s.orders.RevenueByDateRange(ctx, start, end)
	if err != nil {
		return nil, mapError(err)
	}
	return revenue, nil
}

func (s *Service) listViews(ctx context.Context) func([]*domain.Order, error) ([]*types.OrderView, error) {
	return func(orders []*domain.Order, err error) ([]*types.OrderView, error) {
		if err != nil {
			return nil, mapError(err)
		}
		return s.views(ctx, orders)
	}
}

var _ ports.Service = (*Service)(nil)
