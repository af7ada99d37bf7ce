package application

import (
	"context"
	"time"

	"github.com/Apurer/storefront-orders/internal/domains/carts/domain"
	"github.com/Apurer/storefront-orders/internal/domains/carts/ports"
)

// Service manages carts before they are converted into orders.
type Service struct {
	repo     ports.Repository
	products ports.ProductCatalog
	users    ports.UserDirectory
	now      func() time.Time
}

// NewService wires the cart service. users may be nil when owners are not verified.
func NewService(repo ports.Repository, products ports.ProductCatalog, users ports.UserDirectory) *Service {
	return &Service{repo: repo, products: products, users: users, now: time.Now}
}

func (s *Service) CreateCart(ctx context.Context, userID int64) (*domain.Cart, error) {
	if s.users != nil && userID > 0 {
		if _, err := s.users.GetByID(ctx, userID); err != nil {
			return nil, err
		}
	}
	cart, err := domain.NewCart(userID, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, cart)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) GetCart(ctx context.Context, id int64) (*domain.Cart, error) {
	return s.repo.GetByID(ctx, id)
}

// AddItem captures the product's current price on the line.
func (s *Service) AddItem(ctx context.Context, cartID, productID int64, quantity int32) (*domain.Cart, error) {
	cart, err := s.repo.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if !cart.Active {
		return nil, domain.ErrCartInactive
	}
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, mapError(ErrProductUnavailable)
	}
	if err := cart.AddItem(product.ID, quantity, product.Price, s.now()); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, cart)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) RemoveItem(ctx context.Context, cartID, productID int64) (*domain.Cart, error) {
	cart, err := s.repo.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := cart.RemoveItem(productID, s.now()); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, cart)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

var _ ports.Service = (*Service)(nil)
