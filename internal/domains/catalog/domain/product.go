package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyName       = errors.New("product name is required")
	ErrInvalidPrice    = errors.New("price must be greater than zero")
	ErrNegativeStock   = errors.New("stock quantity must be greater or equal to zero")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
)

// Image is a picture owned by a product.
type Image struct {
	ID     int64
	URL    string
	IsMain bool
}

// Specification is a named attribute owned by a product.
type Specification struct {
	Name  string
	Value string
}

// Product is the catalog entry referenced by cart and order lines. Quantity is the
// authoritative stock count consulted during conversion.
type Product struct {
	ID             int64
	Name           string
	Description    string
	Brand          string
	Model          string
	Price          decimal.Decimal
	Quantity       int32
	Active         bool
	Images         []Image
	Specifications []Specification
}

// NewProduct validates the invariants and builds an active product.
func NewProduct(id int64, name string, price decimal.Decimal, quantity int32) (*Product, error) {
	p := &Product{ID: id, Active: true}
	if err := p.Rename(name); err != nil {
		return nil, err
	}
	if err := p.Reprice(price); err != nil {
		return nil, err
	}
	if err := p.SetQuantity(quantity); err != nil {
		return nil, err
	}
	return p, nil
}

// Rename trims and validates the product name.
func (p *Product) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	p.Name = name
	return nil
}

// Reprice changes the current unit price. Lines already captured in carts keep their snapshot.
func (p *Product) Reprice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return ErrInvalidPrice
	}
	p.Price = price
	return nil
}

// SetQuantity overwrites the stock count.
func (p *Product) SetQuantity(quantity int32) error {
	if quantity < 0 {
		return ErrNegativeStock
	}
	p.Quantity = quantity
	return nil
}

// CanSupply reports whether the requested quantity is available.
func (p *Product) CanSupply(requested int32) bool {
	return requested > 0 && p.Quantity >= requested
}

// Restock adds units to the stock count.
func (p *Product) Restock(units int32) error {
	if units <= 0 {
		return ErrInvalidQuantity
	}
	if units > math.MaxInt32-p.Quantity {
		return fmt.Errorf("%w: stock would exceed %d units", ErrInvalidQuantity, math.MaxInt32)
	}
	p.Quantity += units
	return nil
}

// ReplaceImages drops images without a URL and stores a defensive copy of the rest.
func (p *Product) ReplaceImages(images []Image) {
	p.Images = nil
	for _, img := range images {
		url := strings.TrimSpace(img.URL)
		if url == "" {
			continue
		}
		p.Images = append(p.Images, Image{ID: img.ID, URL: url, IsMain: img.IsMain})
	}
}

// ReplaceSpecifications keeps only fully populated name/value pairs.
func (p *Product) ReplaceSpecifications(specs []Specification) {
	p.Specifications = nil
	for _, spec := range specs {
		name := strings.TrimSpace(spec.Name)
		value := strings.TrimSpace(spec.Value)
		if name == "" || value == "" {
			continue
		}
		p.Specifications = append(p.Specifications, Specification{Name: name, Value: value})
	}
}

// Clone returns a deep copy so callers cannot mutate shared state.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Images = append([]Image(nil), p.Images...)
	clone.Specifications = append([]Specification(nil), p.Specifications...)
	return &clone
}
