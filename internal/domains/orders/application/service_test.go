package application

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront-orders/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-orders/internal/domains/orders/domain"
)

func TestCreateOrder_SeedsShippingFromUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, types.CreateOrderInput{UserID: f.user.ID})
	require.NoError(t, err)
	assert.Equal(t, "Springfield", order.Shipping.City)
	assert.True(t, order.TotalAmount.IsZero())
	assert.Empty(t, order.Items)

	_, err = f.svc.CreateOrder(ctx, types.CreateOrderInput{UserID: 999})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateShipping_KeepsItemsAndBlankFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addProduct(t, "Widget", "10.00", 5)
	placed, err := f.svc.ConvertCart(ctx, types.ConvertCartInput{CartID: f.cartWith(t, f.user.ID, line{a.ID, 1}), Shipping: shipping})
	require.NoError(t, err)

	updated, err := f.svc.UpdateShipping(ctx, types.UpdateShippingInput{
		OrderID:  placed.ID,
		Shipping: domain.ShippingDetails{City: "Manchester"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Manchester", updated.Shipping.City)
	assert.Equal(t, shipping.Address, updated.Shipping.Address)
	assert.Len(t, updated.Items, 1)
	assert.True(t, updated.TotalAmount.Equal(placed.TotalAmount))
}

func TestDeleteOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order, err := f.svc.CreateOrder(ctx, types.CreateOrderInput{UserID: f.user.ID})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteOrder(ctx, order.ID))
	_, err = f.svc.GetOrderByID(ctx, order.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.svc.DeleteOrder(ctx, order.ID), ErrNotFound)
}

func TestGetOrderByID_BuildsView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addProduct(t, "Widget", "10.00", 5)
	placed, err := f.svc.ConvertCart(ctx, types.ConvertCartInput{CartID: f.cartWith(t, f.user.ID, line{a.ID, 3}), Shipping: shipping})
	require.NoError(t, err)

	view, err := f.svc.GetOrderByID(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, view.User.ID)
	assert.Equal(t, "alice@example.com", view.User.Email)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Widget", view.Items[0].Product.Name)
	assert.True(t, view.Items[0].LineTotal.Equal(decimal.NewFromInt(30)))
}

func TestListByUserEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bob := f.addUser(t, "bob", "bob@example.com")
	_, err := f.svc.CreateOrder(ctx, types.CreateOrderInput{UserID: f.user.ID})
	require.NoError(t, err)
	_, err = f.svc.CreateOrder(ctx, types.CreateOrderInput{UserID: bob.ID})
	require.NoError(t, err)

	views, err := f.svc.ListByUserEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, f.user.ID, views[0].User.ID)

	views, err = f.svc.ListByUserEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestDateRangeQueries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addProduct(t, "Widget", "10.00", 10)
	_, err := f.svc.ConvertCart(ctx, types.ConvertCartInput{CartID: f.cartWith(t, f.user.ID, line{a.ID, 1}), Shipping: shipping})
	require.NoError(t, err)
	_, err = f.svc.ConvertCart(ctx, types.ConvertCartInput{CartID: f.cartWith(t, f.user.ID, line{a.ID, 2}), Shipping: shipping})
	require.NoError(t, err)

	day := domain.DateOf(fixedNow)
	views, err := f.svc.ListByDateRange(ctx, day, day)
	require.NoError(t, err)
	assert.Len(t, views, 2)

	views, err = f.svc.ListByDateRange(ctx, day.AddDate(0, 0, 1), day.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Empty(t, views)

	_, err = f.svc.ListByDateRange(ctx, day, day.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, ErrInvalidInput)

	revenue, err := f.svc.RevenueByDateRange(ctx, day.AddDate(0, 0, -7), day)
	require.NoError(t, err)
	require.Len(t, revenue, 1)
	assert.Equal(t, day, revenue[0].Date)
	assert.Equal(t, int64(2), revenue[0].Orders)
	assert.True(t, revenue[0].Total.Equal(decimal.NewFromInt(30)))
}

func TestFilterOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addProduct(t, "Widget", "10.00", 10)
	bob := f.addUser(t, "bob", "bob@example.com")
	_, err := f.svc.ConvertCart(ctx, types.ConvertCartInput{CartID: f.cartWith(t, f.user.ID, line{a.ID, 1}), Shipping: shipping})
	require.NoError(t, err)
	big, err := f.svc.ConvertCart(ctx, types.ConvertCartInput{CartID: f.cartWith(t, f.user.ID, line{a.ID, 5}), Shipping: shipping})
	require.NoError(t, err)
	_, err = f.svc.ConvertCart(ctx, types.ConvertCartInput{CartID: f.cartWith(t, bob.ID, line{a.ID, 4}), Shipping: shipping})
	require.NoError(t, err)

	minAmount := decimal.NewFromInt(20)
	views, err := f.svc.FilterOrders(ctx, types.OrderFilter{UserID: &f.user.ID, MinAmount: &minAmount})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, big.ID, views[0].ID)

	views, err = f.svc.FilterOrders(ctx, types.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, views, 3)

	start := fixedNow
	end := fixedNow.Add(-48 * time.Hour)
	_, err = f.svc.FilterOrders(ctx, types.OrderFilter{Start: &start, End: &end})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMostRecentAndByProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addProduct(t, "Widget", "10.00", 10)
	b := f.addProduct(t, "Gadget", "5.00", 10)
	var ids []int64
	for _, l := range []line{{a.ID, 1}, {b.ID, 1}, {a.ID, 2}} {
		order, err := f.svc.ConvertCart(ctx, types.ConvertCartInput{CartID: f.cartWith(t, f.user.ID, l), Shipping: shipping})
		require.NoError(t, err)
		ids = append(ids, order.ID)
	}

	recent, err := f.svc.MostRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, ids[2], recent[0].ID)
	assert.Equal(t, ids[1], recent[1].ID)

	recent, err = f.svc.MostRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, recent, 3)

	byProduct, err := f.svc.ListByProductID(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, byProduct, 2)
	assert.Equal(t, ids[2], byProduct[0].ID)
	assert.Equal(t, ids[0], byProduct[1].ID)
}
