package ports

import (
	"context"

	"github.com/Apurer/storefront-orders/internal/domains/carts/domain"
	catalogdomain "github.com/Apurer/storefront-orders/internal/domains/catalog/domain"
	usersdomain "github.com/Apurer/storefront-orders/internal/domains/users/domain"
)

// ProductCatalog resolves the product whose current price is captured on add.
type ProductCatalog interface {
	GetProduct(ctx context.Context, id int64) (*catalogdomain.Product, error)
}

// UserDirectory confirms cart owners exist.
type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*usersdomain.User, error)
}

// Service exposes the cart lifecycle.
type Service interface {
	CreateCart(ctx context.Context, userID int64) (*domain.Cart, error)
	GetCart(ctx context.Context, id int64) (*domain.Cart, error)
	AddItem(ctx context.Context, cartID, productID int64, quantity int32) (*domain.Cart, error)
	RemoveItem(ctx context.Context, cartID, productID int64) (*domain.Cart, error)
}
