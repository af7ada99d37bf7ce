package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/storefront-orders/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-orders/internal/domains/orders/domain"
	"github.com/Apurer/storefront-orders/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter.
type Repository struct {
	mu         sync.RWMutex
	orders     map[int64]*domain.Order
	nextID     int64
	nextItemID int64
}

func NewRepository() *Repository {
	return &Repository{orders: map[int64]*domain.Order{}}
}

func (r *Repository) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := order.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.orders[clone.ID]; ok && clone.ID != 0 {
		clone.Items = append([]domain.OrderItem(nil), existing.Items...)
		clone.CreatedAt = existing.CreatedAt
		clone.OrderDate = existing.OrderDate
		r.orders[clone.ID] = clone
		return clone.Clone(), nil
	}
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	for i := range clone.Items {
		r.nextItemID++
		clone.Items[i].ID = r.nextItemID
	}
	r.orders[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return order.Clone(), nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Order, error) {
	list := r.collect(func(*domain.Order) bool { return true })
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *Repository) ListByUserID(_ context.Context, userID int64) ([]*domain.Order, error) {
	list := r.collect(func(o *domain.Order) bool { return o.UserID == userID })
	sortNewestFirst(list)
	return list, nil
}

func (r *Repository) ListByDateRange(_ context.Context, start, end time.Time) ([]*domain.Order, error) {
	list := r.collect(func(o *domain.Order) bool { return inRange(o.OrderDate, &start, &end) })
	sortNewestFirst(list)
	return list, nil
}

func (r *Repository) Filter(_ context.Context, filter types.OrderFilter) ([]*domain.Order, error) {
	list := r.collect(func(o *domain.Order) bool {
		if filter.UserID != nil && o.UserID != *filter.UserID {
			return false
		}
		if filter.MinAmount != nil && o.TotalAmount.LessThan(*filter.MinAmount) {
			return false
		}
		return inRange(o.OrderDate, filter.Start, filter.End)
	})
	sortNewestFirst(list)
	return list, nil
}

func (r *Repository) MostRecent(_ context.Context, limit int) ([]*domain.Order, error) {
	list := r.collect(func(*domain.Order) bool { return true })
	sortNewestFirst(list)
	if limit >= 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *Repository) ListByProductID(_ context.Context, productID int64) ([]*domain.Order, error) {
	list := r.collect(func(o *domain.Order) bool {
		for _, item := range o.Items {
			if item.ProductID == productID {
				return true
			}
		}
		return false
	})
	sortNewestFirst(list)
	return list, nil
}

func (r *Repository) RevenueByDateRange(_ context.Context, start, end time.Time) ([]types.DailyRevenue, error) {
	byDate := map[time.Time]*types.DailyRevenue{}
	for _, o := range r.collect(func(o *domain.Order) bool { return inRange(o.OrderDate, &start, &end) }) {
		day, ok := byDate[o.OrderDate]
		if !ok {
			day = &types.DailyRevenue{Date: o.OrderDate, Total: decimal.Zero}
			byDate[o.OrderDate] = day
		}
		day.Total = day.Total.Add(o.TotalAmount)
		day.Orders++
	}
	revenue := make([]types.DailyRevenue, 0, len(byDate))
	for _, day := range byDate {
		revenue = append(revenue, *day)
	}
	sort.Slice(revenue, func(i, j int) bool { return revenue[i].Date.Before(revenue[j].Date) })
	return revenue, nil
}

// Clone copies the store for a copy-on-write transaction.
func (r *Repository) Clone() *Repository {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &Repository{orders: make(map[int64]*domain.Order, len(r.orders)), nextID: r.nextID, nextItemID: r.nextItemID}
	for id, order := range r.orders {
		clone.orders[id] = order.Clone()
	}
	return clone
}

// ReplaceWith commits a transaction copy.
func (r *Repository) ReplaceWith(other *Repository) {
	other.mu.RLock()
	orders, nextID, nextItemID := other.orders, other.nextID, other.nextItemID
	other.mu.RUnlock()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders, r.nextID, r.nextItemID = orders, nextID, nextItemID
}

func (r *Repository) collect(match func(*domain.Order) bool) []*domain.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if match(order) {
			list = append(list, order.Clone())
		}
	}
	return list
}

func sortNewestFirst(list []*domain.Order) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
}

func inRange(date time.Time, start, end *time.Time) bool {
	if start != nil && date.Before(*start) {
		return false
	}
	if end != nil && date.After(*end) {
		return false
	}
	return true
}
