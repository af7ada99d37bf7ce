package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/storefront-orders/internal/domains/orders/application/types"
	ordersdomain "github.com/Apurer/storefront-orders/internal/domains/orders/domain"
)

// DateLayout is the wire format of order dates and date range parameters.
const DateLayout = time.DateOnly

// Shipping is the transport shape of the shipping destination.
type Shipping struct {
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country,omitempty"`
}

// OrderItem is a frozen order line.
type OrderItem struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int32           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// Order is returned by the write endpoints.
type Order struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"userId"`
	OrderDate   string          `json:"orderDate"`
	Shipping    Shipping        `json:"shipping"`
	Items       []OrderItem     `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type User struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
}

type Image struct {
	URL    string `json:"url"`
	IsMain bool   `json:"isMain"`
}

type Specification struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Product struct {
	ID             int64            `json:"id"`
	Name           string           `json:"name"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	Images         []Image          `json:"images,omitempty"`
	Specifications []Specification  `json:"specifications,omitempty"`
}

type OrderItemView struct {
	ID        int64           `json:"id"`
	Product   Product         `json:"product"`
	Quantity  int32           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// OrderView is returned by the query endpoints.
type OrderView struct {
	ID          int64           `json:"id"`
	User        User            `json:"user"`
	OrderDate   string          `json:"orderDate"`
	Shipping    Shipping        `json:"shipping"`
	Items       []OrderItemView `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type DailyRevenue struct {
	Date   string          `json:"date"`
	Total  decimal.Decimal `json:"total"`
	Orders int64           `json:"orders"`
}

func ToDomainShipping(s Shipping) ordersdomain.ShippingDetails {
	return ordersdomain.ShippingDetails{Address: s.Address, City: s.City, ZipCode: s.ZipCode, Country: s.Country}
}

func FromDomainShipping(s ordersdomain.ShippingDetails) Shipping {
	return Shipping{Address: s.Address, City: s.City, ZipCode: s.ZipCode, Country: s.Country}
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *ordersdomain.Order) Order {
	if order == nil {
		return Order{}
	}
	items := make([]OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItem{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal(),
		})
	}
	return Order{
		ID:          order.ID,
		UserID:      order.UserID,
		OrderDate:   order.OrderDate.Format(DateLayout),
		Shipping:    FromDomainShipping(order.Shipping),
		Items:       items,
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
}

// FromOrderView converts the read projection. A product that no longer exists has no price.
func FromOrderView(view *types.OrderView) OrderView {
	if view == nil {
		return OrderView{}
	}
	items := make([]OrderItemView, 0, len(view.Items))
	for _, item := range view.Items {
		product := Product{ID: item.Product.ID, Name: item.Product.Name}
		if item.Product.Price.IsPositive() {
			price := item.Product.Price
			product.Price = &price
		}
		for _, img := range item.Product.Images {
			product.Images = append(product.Images, Image{URL: img.URL, IsMain: img.IsMain})
		}
		for _, spec := range item.Product.Specifications {
			product.Specifications = append(product.Specifications, Specification{Name: spec.Name, Value: spec.Value})
		}
		items = append(items, OrderItemView{
			ID:        item.ID,
			Product:   product,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		})
	}
	return OrderView{
		ID:          view.ID,
		User:        User{ID: view.User.ID, DisplayName: view.User.DisplayName, Email: view.User.Email},
		OrderDate:   view.OrderDate.Format(DateLayout),
		Shipping:    FromDomainShipping(view.Shipping),
		Items:       items,
		TotalAmount: view.TotalAmount,
		CreatedAt:   view.CreatedAt,
		UpdatedAt:   view.UpdatedAt,
	}
}

func FromOrderViews(views []*types.OrderView) []OrderView {
	result := make([]OrderView, 0, len(views))
	for _, view := range views {
		result = append(result, FromOrderView(view))
	}
	return result
}

func FromDailyRevenue(revenue []types.DailyRevenue) []DailyRevenue {
	result := make([]DailyRevenue, 0, len(revenue))
	for _, day := range revenue {
		result = append(result, DailyRevenue{Date: day.Date.Format(DateLayout), Total: day.Total, Orders: day.Orders})
	}
	return result
}
