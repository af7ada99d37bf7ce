package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront-orders/internal/domains/catalog/adapters/memory"
	"github.com/Apurer/storefront-orders/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-orders/internal/domains/catalog/ports"
)

func TestAddProductAndRestock(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	created, err := svc.AddProduct(ctx, &domain.Product{Name: "Desk lamp", Price: decimal.RequireFromString("19.99"), Quantity: 2})
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)

	restocked, err := svc.Restock(ctx, created.ID, 3)
	require.NoError(t, err)
	require.Equal(t, int32(5), restocked.Quantity)

	_, err = svc.Restock(ctx, created.ID, 0)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestAddProduct_InvalidPrice(t *testing.T) {
	svc := NewService(memory.NewRepository())

	_, err := svc.AddProduct(context.Background(), &domain.Product{Name: "Lamp", Price: decimal.NewFromInt(-1)})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetProduct_NotFound(t *testing.T) {
	svc := NewService(memory.NewRepository())

	_, err := svc.GetProduct(context.Background(), 42)
	require.ErrorIs(t, err, ports.ErrNotFound)
}
