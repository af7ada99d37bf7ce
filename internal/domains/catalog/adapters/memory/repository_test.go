package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront-orders/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-orders/internal/domains/catalog/ports"
)

func TestTrySetQuantity(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	product, err := domain.NewProduct(0, "Mug", decimal.NewFromInt(5), 4)
	require.NoError(t, err)
	saved, err := repo.Save(ctx, product)
	require.NoError(t, err)

	require.ErrorIs(t, repo.TrySetQuantity(ctx, saved.ID, 3, 1), ports.ErrStaleQuantity)
	require.ErrorIs(t, repo.TrySetQuantity(ctx, saved.ID, 4, -1), domain.ErrNegativeStock)
	require.ErrorIs(t, repo.TrySetQuantity(ctx, 99, 4, 1), ports.ErrNotFound)
	require.NoError(t, repo.TrySetQuantity(ctx, saved.ID, 4, 1))

	reloaded, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	require.Equal(t, int32(1), reloaded.Quantity)
}

func TestCloneIsolatesUntilReplace(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	product, err := domain.NewProduct(0, "Mug", decimal.NewFromInt(5), 4)
	require.NoError(t, err)
	saved, err := repo.Save(ctx, product)
	require.NoError(t, err)

	tx := repo.Clone()
	require.NoError(t, tx.TrySetQuantity(ctx, saved.ID, 4, 0))

	current, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	require.Equal(t, int32(4), current.Quantity)

	repo.ReplaceWith(tx)
	current, err = repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	require.Equal(t, int32(0), current.Quantity)
}
