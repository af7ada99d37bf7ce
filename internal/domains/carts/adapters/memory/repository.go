package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/Apurer/storefront-orders/internal/domains/carts/domain"
	"github.com/Apurer/storefront-orders/internal/domains/carts/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps carts in memory.
type Repository struct {
	mu         sync.RWMutex
	carts      map[int64]*domain.Cart
	nextID     int64
	nextItemID int64
}

func NewRepository() *Repository {
	return &Repository{carts: map[int64]*domain.Cart{}}
}

// Save stores the cart. A stored cart that is already inactive is never overwritten.
func (r *Repository) Save(_ context.Context, cart *domain.Cart) (*domain.Cart, error) {
	if cart == nil {
		return nil, errors.New("cart is nil")
	}
	clone := cart.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.carts[clone.ID]; ok && !stored.Active {
		return nil, domain.ErrCartInactive
	}
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	for i := range clone.Items {
		if clone.Items[i].ID == 0 {
			r.nextItemID++
			clone.Items[i].ID = r.nextItemID
		}
	}
	r.carts[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cart, ok := r.carts[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cart.Clone(), nil
}

func (r *Repository) GetForUpdate(ctx context.Context, id int64) (*domain.Cart, error) {
	return r.GetByID(ctx, id)
}

func (r *Repository) Items(ctx context.Context, cartID int64) ([]domain.CartItem, error) {
	cart, err := r.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return cart.Items, nil
}

func (r *Repository) Deactivate(_ context.Context, cartID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.carts[cartID]
	if !ok {
		return ports.ErrNotFound
	}
	if !cart.Active {
		return ports.ErrAlreadyInactive
	}
	cart.Active = false
	return nil
}

// Clone copies the store for a copy-on-write transaction.
func (r *Repository) Clone() *Repository {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &Repository{carts: make(map[int64]*domain.Cart, len(r.carts)), nextID: r.nextID, nextItemID: r.nextItemID}
	for id, cart := range r.carts {
		clone.carts[id] = cart.Clone()
	}
	return clone
}

// ReplaceWith commits a transaction copy.
func (r *Repository) ReplaceWith(other *Repository) {
	other.mu.RLock()
	carts, nextID, nextItemID := other.carts, other.nextID, other.nextItemID
	other.mu.RUnlock()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts, r.nextID, r.nextItemID = carts, nextID, nextItemID
}
