package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/storefront-orders/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-orders/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory product inventory store.
type Repository struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	nextID   int64
}

func NewRepository() *Repository {
	return &Repository{products: map[int64]*domain.Product{}}
}

func (r *Repository) Save(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	clone := product.Clone()
	if clone.Quantity < 0 {
		return nil, domain.ErrNegativeStock
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.products[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return product.Clone(), nil
}

// GetForUpdate is a plain read; the memory unit of work already serializes writers.
func (r *Repository) GetForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *Repository) TrySetQuantity(_ context.Context, id int64, expected, quantity int32) error {
	if quantity < 0 {
		return domain.ErrNegativeStock
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return ports.ErrNotFound
	}
	if product.Quantity != expected {
		return ports.ErrStaleQuantity
	}
	product.Quantity = quantity
	return nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		list = append(list, product.Clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// Clone copies the whole store for a copy-on-write transaction.
func (r *Repository) Clone() *Repository {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &Repository{products: make(map[int64]*domain.Product, len(r.products)), nextID: r.nextID}
	for id, product := range r.products {
		clone.products[id] = product.Clone()
	}
	return clone
}

// ReplaceWith commits the state of a transaction copy back into r.
func (r *Repository) ReplaceWith(other *Repository) {
	other.mu.RLock()
	products, nextID := other.products, other.nextID
	other.mu.RUnlock()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = products
	r.nextID = nextID
}
