package types

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/storefront-orders/internal/domains/orders/domain"
)

// UserSummary is the order owner reduced to what order listings show.
type UserSummary struct {
	ID          int64
	DisplayName string
	Email       string
}

// ImageSummary is a product image on an order view.
type ImageSummary struct {
	URL    string
	IsMain bool
}

// SpecificationSummary is a product specification on an order view.
type SpecificationSummary struct {
	Name  string
	Value string
}

// ProductSummary reduces the product to id, name, current price, images and specifications.
// When the product no longer exists only the frozen id and name are set.
type ProductSummary struct {
	ID             int64
	Name           string
	Price          decimal.Decimal
	Images         []ImageSummary
	Specifications []SpecificationSummary
}

// OrderItemView is an order line with its product summary.
type OrderItemView struct {
	ID        int64
	Product   ProductSummary
	Quantity  int32
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// OrderView is the read projection returned by order queries.
type OrderView struct {
	ID          int64
	User        UserSummary
	OrderDate   time.Time
	Shipping    domain.ShippingDetails
	Items       []OrderItemView
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
