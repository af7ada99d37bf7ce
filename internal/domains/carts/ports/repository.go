package ports

import (
	"context"
	"errors"

	"github.com/Apurer/storefront-orders/internal/domains/carts/domain"
)

var (
	ErrNotFound = errors.New("cart not found")
	// ErrAlreadyInactive is returned by a conditional deactivate that lost to an earlier one.
	ErrAlreadyInactive = errors.New("cart already inactive")
)

// Repository persists carts with their items.
type Repository interface {
	Save(ctx context.Context, cart *domain.Cart) (*domain.Cart, error)
	// GetByID loads the cart and its items in insertion order. Inactive carts load normally.
	GetByID(ctx context.Context, id int64) (*domain.Cart, error)
	// GetForUpdate is GetByID holding the cart row lock inside a transaction.
	GetForUpdate(ctx context.Context, id int64) (*domain.Cart, error)
	Items(ctx context.Context, cartID int64) ([]domain.CartItem, error)
	// Deactivate clears the active flag only if it is still set.
	Deactivate(ctx context.Context, cartID int64) error
}
