package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNewOrder_ComputesTotalAndDate(t *testing.T) {
	now := time.Date(2026, 5, 4, 22, 15, 0, 0, time.UTC)
	items := []OrderItem{
		{ProductID: 1, ProductName: "A", Quantity: 2, UnitPrice: decimal.NewFromInt(5)},
		{ProductID: 2, ProductName: "B", Quantity: 1, UnitPrice: decimal.NewFromInt(15)},
	}

	order, err := NewOrder(9, ShippingDetails{Address: " 1 Main St ", City: "Springfield"}, items, now)
	require.NoError(t, err)
	require.True(t, order.TotalAmount.Equal(decimal.NewFromInt(25)))
	require.Equal(t, time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC), order.OrderDate)
	require.Equal(t, "1 Main St", order.Shipping.Address)
	require.Equal(t, now, order.CreatedAt)
	require.Equal(t, []int64{1, 2}, order.ProductIDs())
}

func TestNewOrder_EmptyItems(t *testing.T) {
	order, err := NewOrder(1, ShippingDetails{}, nil, time.Now())
	require.NoError(t, err)
	require.True(t, order.TotalAmount.IsZero())
	require.Empty(t, order.Items)
}

func TestNewOrder_Validates(t *testing.T) {
	_, err := NewOrder(0, ShippingDetails{}, nil, time.Now())
	require.ErrorIs(t, err, ErrInvalidUserID)

	_, err = NewOrder(1, ShippingDetails{}, []OrderItem{{ProductID: 1, Quantity: 0, UnitPrice: decimal.NewFromInt(1)}}, time.Now())
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewOrder(1, ShippingDetails{}, []OrderItem{{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(-1)}}, time.Now())
	require.ErrorIs(t, err, ErrInvalidUnitPrice)
}

func TestOrder_UpdateShippingKeepsBlankFields(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	order, err := NewOrder(1, ShippingDetails{Address: "Old St", City: "Paris", ZipCode: "75001", Country: "FR"}, nil, created)
	require.NoError(t, err)

	later := created.Add(time.Hour)
	order.UpdateShipping(ShippingDetails{City: "Lyon"}, later)

	require.Equal(t, ShippingDetails{Address: "Old St", City: "Lyon", ZipCode: "75001", Country: "FR"}, order.Shipping)
	require.Equal(t, later, order.UpdatedAt)
	require.Equal(t, created, order.CreatedAt)
}

func TestOrder_CalculateTotalAmountIgnoresStaleTotal(t *testing.T) {
	order, err := NewOrder(1, ShippingDetails{}, []OrderItem{{ProductID: 1, Quantity: 3, UnitPrice: decimal.RequireFromString("1.10")}}, time.Now())
	require.NoError(t, err)
	order.TotalAmount = decimal.NewFromInt(999)

	require.True(t, order.CalculateTotalAmount().Equal(decimal.RequireFromString("3.30")))
}
