package types

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/storefront-orders/internal/domains/orders/domain"
)

// ConvertCartInput requests the conversion of an active cart into an order.
type ConvertCartInput struct {
	CartID   int64
	Shipping domain.ShippingDetails
	// IdempotencyKey makes retries replay the original order instead of failing on the now-inactive cart.
	IdempotencyKey string
}

// CreateOrderInput creates an order without items. A nil Shipping is seeded from the user's address.
type CreateOrderInput struct {
	UserID   int64
	Shipping *domain.ShippingDetails
}

// UpdateShippingInput patches the non-blank shipping fields of an order.
type UpdateShippingInput struct {
	OrderID  int64
	Shipping domain.ShippingDetails
}

// OrderFilter narrows order listings. Nil fields do not constrain the result; Start and End are inclusive dates.
type OrderFilter struct {
	UserID    *int64
	Start     *time.Time
	End       *time.Time
	MinAmount *decimal.Decimal
}

// DailyRevenue is the sum of order totals for one order date.
type DailyRevenue struct {
	Date   time.Time
	Total  decimal.Decimal
	Orders int64
}
