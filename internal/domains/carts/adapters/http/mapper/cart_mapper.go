package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	cartdomain "github.com/Apurer/storefront-orders/internal/domains/carts/domain"
)

type CartItem struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"productId"`
	Quantity  int32           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// Cart is the transport-level cart payload.
type Cart struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"userId"`
	Active    bool            `json:"active"`
	Items     []CartItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func FromDomainCart(cart *cartdomain.Cart) Cart {
	if cart == nil {
		return Cart{}
	}
	items := make([]CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, CartItem{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal(),
		})
	}
	return Cart{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Active:    cart.Active,
		Items:     items,
		Total:     cart.Total(),
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
}
