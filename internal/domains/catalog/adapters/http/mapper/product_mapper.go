package mapper

import (
	"github.com/shopspring/decimal"

	catalogdomain "github.com/Apurer/storefront-orders/internal/domains/catalog/domain"
)

type Image struct {
	URL    string `json:"url"`
	IsMain bool   `json:"isMain,omitempty"`
}

type Specification struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Product is the transport-level product payload.
type Product struct {
	ID             int64           `json:"id,omitempty"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Brand          string          `json:"brand,omitempty"`
	Model          string          `json:"model,omitempty"`
	Price          decimal.Decimal `json:"price"`
	Quantity       int32           `json:"quantity"`
	Active         *bool           `json:"active,omitempty"`
	Images         []Image         `json:"images,omitempty"`
	Specifications []Specification `json:"specifications,omitempty"`
}

// ToDomainProduct converts a transport product. Active defaults to true.
func ToDomainProduct(model Product) *catalogdomain.Product {
	product := &catalogdomain.Product{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		Brand:       model.Brand,
		Model:       model.Model,
		Price:       model.Price,
		Quantity:    model.Quantity,
		Active:      model.Active == nil || *model.Active,
	}
	for _, img := range model.Images {
		product.Images = append(product.Images, catalogdomain.Image{URL: img.URL, IsMain: img.IsMain})
	}
	for _, spec := range model.Specifications {
		product.Specifications = append(product.Specifications, catalogdomain.Specification{Name: spec.Name, Value: spec.Value})
	}
	return product
}

func FromDomainProduct(product *catalogdomain.Product) Product {
	if product == nil {
		return Product{}
	}
	active := product.Active
	model := Product{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Brand:       product.Brand,
		Model:       product.Model,
		Price:       product.Price,
		Quantity:    product.Quantity,
		Active:      &active,
	}
	for _, img := range product.Images {
		model.Images = append(model.Images, Image{URL: img.URL, IsMain: img.IsMain})
	}
	for _, spec := range product.Specifications {
		model.Specifications = append(model.Specifications, Specification{Name: spec.Name, Value: spec.Value})
	}
	return model
}

func FromDomainProducts(products []*catalogdomain.Product) []Product {
	result := make([]Product, 0, len(products))
	for _, product := range products {
		result = append(result, FromDomainProduct(product))
	}
	return result
}
