package application

import (
	"errors"
	"fmt"

	cartports "github.com/Apurer/storefront-orders/internal/domains/carts/ports"
	catalogports "github.com/Apurer/storefront-orders/internal/domains/catalog/ports"
	"github.com/Apurer/storefront-orders/internal/domains/orders/domain"
	"github.com/Apurer/storefront-orders/internal/domains/orders/ports"
	userports "github.com/Apurer/storefront-orders/internal/domains/users/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrNotFound marks any missing cart, product, user or order.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidState is the sentinel matched by *InvalidStateError.
	ErrInvalidState = errors.New("invalid state")
	// ErrInsufficientInventory is the sentinel matched by *InsufficientInventoryError.
	ErrInsufficientInventory = errors.New("insufficient inventory")
	// ErrInvalidDateRange rejects a range whose start is after its end.
	ErrInvalidDateRange = errors.New("start date must not be after end date")
)

// Cart state reasons.
const (
	ReasonCartNotActive = "cart not active"
	ReasonCartEmpty     = "cart empty"
)

// InvalidStateError reports an aggregate that cannot take part in the requested operation.
type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string { return "invalid state: " + e.Reason }

func (e *InvalidStateError) Is(target error) bool { return target == ErrInvalidState }

// InsufficientInventoryError names the first cart line whose product cannot cover it.
type InsufficientInventoryError struct {
	ProductID   int64
	ProductName string
	Available   int32
	Requested   int32
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory for product %d (%s): available %d, requested %d",
		e.ProductID, e.ProductName, e.Available, e.Requested)
}

func (e *InsufficientInventoryError) Is(target error) bool { return target == ErrInsufficientInventory }

func mapError(err error) error {
	if err == nil || errors.Is(err, ErrInvalidInput) {
		return err
	}
	if errors.Is(err, domain.ErrInvalidUserID) ||
		errors.Is(err, domain.ErrInvalidProductID) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidUnitPrice) ||
		errors.Is(err, ErrInvalidDateRange) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	if errors.Is(err, ports.ErrNotFound) ||
		errors.Is(err, cartports.ErrNotFound) ||
		errors.Is(err, catalogports.ErrNotFound) ||
		errors.Is(err, userports.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
