package application

import (
	"context"
	"errors"

	catalogdomain "github.com/Apurer/storefront-orders/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/storefront-orders/internal/domains/catalog/ports"
	"github.com/Apurer/storefront-orders/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-orders/internal/domains/orders/domain"
	usersdomain "github.com/Apurer/storefront-orders/internal/domains/users/domain"
	userports "github.com/Apurer/storefront-orders/internal/domains/users/ports"
)

// views resolves owners and products once per call. Missing users or products degrade to the
// ids and names frozen on the order.
func (s *Service) views(ctx context.Context, orders []*domain.Order) ([]*types.OrderView, error) {
	users := map[int64]*usersdomain.User{}
	products := map[int64]*catalogdomain.Product{}
	result := make([]*types.OrderView, 0, len(orders))
	for _, order := range orders {
		user, err := s.lookupUser(ctx, users, order.UserID)
		if err != nil {
			return nil, err
		}
		view := &types.OrderView{
			ID:          order.ID,
			User:        userSummary(order.UserID, user),
			OrderDate:   order.OrderDate,
			Shipping:    order.Shipping,
			Items:       make([]types.OrderItemView, 0, len(order.Items)),
			TotalAmount: order.TotalAmount,
			CreatedAt:   order.CreatedAt,
			UpdatedAt:   order.UpdatedAt,
		}
		for _, item := range order.Items {
			product, err := s.lookupProduct(ctx, products, item.ProductID)
			if err != nil {
				return nil, err
			}
			view.Items = append(view.Items, types.OrderItemView{
				ID:        item.ID,
				Product:   productSummary(item, product),
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
				LineTotal: item.LineTotal(),
			})
		}
		result = append(result, view)
	}
	return result, nil
}

func (s *Service) lookupUser(ctx context.Context, cache map[int64]*usersdomain.User, id int64) (*usersdomain.User, error) {
	if user, ok := cache[id]; ok {
		return user, nil
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil && !errors.Is(err, userports.ErrNotFound) {
		return nil, err
	}
	cache[id] = user
	return user, nil
}

func (s *Service) lookupProduct(ctx context.Context, cache map[int64]*catalogdomain.Product, id int64) (*catalogdomain.Product, error) {
	if product, ok := cache[id]; ok {
		return product, nil
	}
	if s.products == nil {
		return nil, nil
	}
	product, err := s.products.GetProduct(ctx, id)
	if err != nil && !errors.Is(err, catalogports.ErrNotFound) {
		return nil, err
	}
	cache[id] = product
	return product, nil
}

func userSummary(id int64, user *usersdomain.User) types.UserSummary {
	if user == nil {
		return types.UserSummary{ID: id}
	}
	return types.UserSummary{ID: user.ID, DisplayName: user.DisplayName(), Email: user.Email}
}

func productSummary(item domain.OrderItem, product *catalogdomain.Product) types.ProductSummary {
	if product == nil {
		return types.ProductSummary{ID: item.ProductID, Name: item.ProductName}
	}
	summary := types.ProductSummary{ID: product.ID, Name: product.Name, Price: product.Price}
	for _, img := range product.Images {
		summary.Images = append(summary.Images, types.ImageSummary{URL: img.URL, IsMain: img.IsMain})
	}
	for _, spec := range product.Specifications {
		summary.Specifications = append(summary.Specifications, types.SpecificationSummary{Name: spec.Name, Value: spec.Value})
	}
	return summary
}
