package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidUserID    = errors.New("user id must be greater than zero")
	ErrInvalidProductID = errors.New("product id must be greater than zero")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrInvalidUnitPrice = errors.New("unit price must not be negative")
)

// ShippingDetails is the destination captured on the order.
type ShippingDetails struct {
	Address string
	City    string
	ZipCode string
	Country string
}

// IsZero reports whether no field is set.
func (s ShippingDetails) IsZero() bool {
	return s.Address == "" && s.City == "" && s.ZipCode == "" && s.Country == ""
}

func (s ShippingDetails) normalized() ShippingDetails {
	return ShippingDetails{
		Address: strings.TrimSpace(s.Address),
		City:    strings.TrimSpace(s.City),
		ZipCode: strings.TrimSpace(s.ZipCode),
		Country: strings.TrimSpace(s.Country),
	}
}

// OrderItem is a frozen order line. ProductName and UnitPrice are snapshots taken at conversion.
type OrderItem struct {
	ID          int64
	ProductID   int64
	ProductName string
	Quantity    int32
	UnitPrice   decimal.Decimal
}

// LineTotal is quantity × unit price.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt32(i.Quantity))
}

func (i OrderItem) validate() error {
	if i.ProductID <= 0 {
		return ErrInvalidProductID
	}
	if i.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if i.UnitPrice.IsNegative() {
		return ErrInvalidUnitPrice
	}
	return nil
}

// Order is a placed purchase. Its items are fixed once the order is built.
type Order struct {
	ID          int64
	UserID      int64
	OrderDate   time.Time
	Shipping    ShippingDetails
	Items       []OrderItem
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewOrder builds an order dated on the calendar day of now (UTC) and computes its total.
// An empty item set is allowed and yields a zero total.
func NewOrder(userID int64, shipping ShippingDetails, items []OrderItem, now time.Time) (*Order, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	for _, item := range items {
		if err := item.validate(); err != nil {
			return nil, err
		}
	}
	now = now.UTC()
	order := &Order{
		UserID:    userID,
		OrderDate: DateOf(now),
		Shipping:  shipping.normalized(),
		Items:     append([]OrderItem(nil), items...),
		CreatedAt: now,
		UpdatedAt: now,
	}
	order.CalculateTotalAmount()
	return order, nil
}

// CalculateTotalAmount recomputes TotalAmount from the items and returns it.
func (o *Order) CalculateTotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	o.TotalAmount = total
	return total
}

// UpdateShipping overwrites the non-blank fields of the shipping details.
func (o *Order) UpdateShipping(update ShippingDetails, now time.Time) {
	update = update.normalized()
	if update.Address != "" {
		o.Shipping.Address = update.Address
	}
	if update.City != "" {
		o.Shipping.City = update.City
	}
	if update.ZipCode != "" {
		o.Shipping.ZipCode = update.ZipCode
	}
	if update.Country != "" {
		o.Shipping.Country = update.Country
	}
	o.UpdatedAt = now.UTC()
}

// ProductIDs lists the distinct products on the order in item order.
func (o *Order) ProductIDs() []int64 {
	seen := make(map[int64]struct{}, len(o.Items))
	ids := make([]int64, 0, len(o.Items))
	for _, item := range o.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

// Clone returns a deep copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = append([]OrderItem(nil), o.Items...)
	return &clone
}

// DateOf truncates t to its UTC calendar day.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
