package application

import (
	"context"
	"errors"

	"github.com/Apurer/storefront-orders/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-orders/internal/domains/catalog/ports"
)

const maxRestockAttempts = 5

// Service exposes catalog use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// AddProduct validates and stores a new product. Blank images and incomplete specifications are dropped.
func (s *Service) AddProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	candidate, err := domain.NewProduct(0, product.Name, product.Price, product.Quantity)
	if err != nil {
		return nil, mapError(err)
	}
	candidate.Description = product.Description
	candidate.Brand = product.Brand
	candidate.Model = product.Model
	candidate.ReplaceImages(product.Images)
	candidate.ReplaceSpecifications(product.Specifications)
	saved, err := s.repo.Save(ctx, candidate)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return product, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return products, nil
}

// Restock adds units to a product's stock count. The write is a compare-and-set so a concurrent
// conversion's decrement is never overwritten; a lost race is retried.
func (s *Service) Restock(ctx context.Context, id int64, units int32) (*domain.Product, error) {
	for attempt := 0; attempt < maxRestockAttempts; attempt++ {
		product, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, mapError(err)
		}
		current := product.Quantity
		if err := product.Restock(units); err != nil {
			return nil, mapError(err)
		}
		err = s.repo.TrySetQuantity(ctx, id, current, product.Quantity)
		if errors.Is(err, ports.ErrStaleQuantity) {
			continue
		}
		if err != nil {
			return nil, mapError(err)
		}
		return product, nil
	}
	return nil, ports.ErrStaleQuantity
}

var _ ports.Service = (*Service)(nil)
