package domain

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidUserID    = errors.New("user id must be greater than zero")
	ErrInvalidProductID = errors.New("product id must be greater than zero")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrInvalidUnitPrice = errors.New("unit price must be greater than zero")
	ErrItemNotFound     = errors.New("cart item not found")
	// ErrCartInactive rejects mutations on a cart that was already converted.
	ErrCartInactive = errors.New("cart is not active")
)

// CartItem is a cart line. UnitPrice is the product price captured when the line was added.
type CartItem struct {
	ID        int64
	ProductID int64
	Quantity  int32
	UnitPrice decimal.Decimal
}

// LineTotal is quantity × unit price.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt32(i.Quantity))
}

// Cart is a user's pending purchase. Items keep insertion order; an inactive cart is read-only history.
type Cart struct {
	ID        int64
	UserID    int64
	Active    bool
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCart opens an empty active cart for the user.
func NewCart(userID int64, now time.Time) (*Cart, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	now = now.UTC()
	return &Cart{UserID: userID, Active: true, CreatedAt: now, UpdatedAt: now}, nil
}

// AddItem appends a line, or merges the quantity into an existing line for the same product.
// A merged line keeps its original unit price.
func (c *Cart) AddItem(productID int64, quantity int32, unitPrice decimal.Decimal, now time.Time) error {
	if !c.Active {
		return ErrCartInactive
	}
	if productID <= 0 {
		return ErrInvalidProductID
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if !unitPrice.IsPositive() {
		return ErrInvalidUnitPrice
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			if quantity > math.MaxInt32-c.Items[i].Quantity {
				return fmt.Errorf("%w: line would exceed %d units", ErrInvalidQuantity, math.MaxInt32)
			}
			c.Items[i].Quantity += quantity
			c.UpdatedAt = now.UTC()
			return nil
		}
	}
	c.UpdatedAt = now.UTC()
	c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: quantity, UnitPrice: unitPrice})
	return nil
}

// RemoveItem drops the line for productID.
func (c *Cart) RemoveItem(productID int64, now time.Time) error {
	if !c.Active {
		return ErrCartInactive
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.UpdatedAt = now.UTC()
			return nil
		}
	}
	return ErrItemNotFound
}

// Deactivate marks the cart as converted.
func (c *Cart) Deactivate(now time.Time) error {
	if !c.Active {
		return ErrCartInactive
	}
	c.Active = false
	c.UpdatedAt = now.UTC()
	return nil
}

func (c *Cart) IsEmpty() bool { return len(c.Items) == 0 }

// Total sums the captured line totals. It is a snapshot, not the price an order will charge.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Clone returns a deep copy.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Items = append([]CartItem(nil), c.Items...)
	return &clone
}
