package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is implemented by order events written to the outbox.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	Timestamp time.Time `json:"occurredAt"`
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// PlacedItem is the per-line payload of OrderPlaced.
type PlacedItem struct {
	ProductID int64           `json:"productId"`
	Quantity  int32           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// OrderPlaced is raised when a cart is converted into an order.
type OrderPlaced struct {
	BaseEvent
	OrderID     int64           `json:"orderId"`
	UserID      int64           `json:"userId"`
	CartID      int64           `json:"cartId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Items       []PlacedItem    `json:"items"`
}

// EventName returns the event type identifier.
func (e OrderPlaced) EventName() string {
	return "orders.order.placed"
}

// NewOrderPlaced builds the event for a persisted order.
func NewOrderPlaced(order *Order, cartID int64) OrderPlaced {
	items := make([]PlacedItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, PlacedItem{ProductID: item.ProductID, Quantity: item.Quantity, UnitPrice: item.UnitPrice})
	}
	return OrderPlaced{
		BaseEvent:   BaseEvent{Timestamp: order.CreatedAt},
		OrderID:     order.ID,
		UserID:      order.UserID,
		CartID:      cartID,
		TotalAmount: order.TotalAmount,
		Items:       items,
	}
}
