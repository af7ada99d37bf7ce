package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront-orders/internal/domains/orders/adapters/memory"
	"github.com/Apurer/storefront-orders/internal/domains/orders/domain"
	"github.com/Apurer/storefront-orders/internal/domains/orders/ports"
)

type countingRepo struct {
	ports.Repository
	gets int
}

func (c *countingRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	c.gets++
	return c.Repository.GetByID(ctx, id)
}

func setup(t *testing.T) (*Repository, *countingRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	inner := &countingRepo{Repository: memory.NewRepository()}
	return New(inner, client), inner, mr
}

func placeOrder(t *testing.T, repo ports.Repository) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(1, domain.ShippingDetails{City: "Springfield"}, []domain.OrderItem{
		{ProductID: 2, ProductName: "Widget", Quantity: 3, UnitPrice: decimal.RequireFromString("9.99")},
	}, time.Now())
	require.NoError(t, err)
	saved, err := repo.Save(context.Background(), order)
	require.NoError(t, err)
	return saved
}

func TestGetByID_ReadsThrough(t *testing.T) {
	repo, inner, mr := setup(t)
	ctx := context.Background()
	saved := placeOrder(t, repo)

	first, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, mr.Exists(cacheKey(saved.ID)))

	second, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.gets)
	assert.True(t, first.TotalAmount.Equal(second.TotalAmount))
	require.Len(t, second.Items, 1)
	assert.Equal(t, "Widget", second.Items[0].ProductName)
}

func TestSaveAndDeleteEvict(t *testing.T) {
	repo, inner, mr := setup(t)
	ctx := context.Background()
	saved := placeOrder(t, repo)

	_, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	saved.UpdateShipping(domain.ShippingDetails{City: "Shelbyville"}, time.Now())
	_, err = repo.Save(ctx, saved)
	require.NoError(t, err)
	assert.False(t, mr.Exists(cacheKey(saved.ID)))

	fetched, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shelbyville", fetched.Shipping.City)
	assert.Equal(t, 2, inner.gets)

	require.NoError(t, repo.Delete(ctx, saved.ID))
	assert.False(t, mr.Exists(cacheKey(saved.ID)))
	_, err = repo.GetByID(ctx, saved.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestGetByID_FallsBackWhenRedisDown(t *testing.T) {
	repo, inner, mr := setup(t)
	saved := placeOrder(t, repo)
	mr.Close()

	fetched, err := repo.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, fetched.ID)
	assert.Equal(t, 1, inner.gets)
}
