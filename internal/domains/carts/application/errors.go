package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/storefront-orders/internal/domains/carts/domain"
)

// ErrInvalidInput signals the request violated a cart invariant.
var ErrInvalidInput = errors.New("invalid cart input")

// ErrProductUnavailable rejects adding a product that is no longer sold.
var ErrProductUnavailable = errors.New("product is not available")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidUserID) ||
		errors.Is(err, domain.ErrInvalidProductID) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidUnitPrice) ||
		errors.Is(err, ErrProductUnavailable) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
