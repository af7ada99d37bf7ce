package orders

import (
	"errors"
	"fmt"

	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/storefront-orders/internal/domains/orders/application"
	ordersports "github.com/Apurer/storefront-orders/internal/domains/orders/ports"
)

// Application error types carried across the Temporal boundary.
const (
	ErrTypeInsufficientInventory = "InsufficientInventory"
	ErrTypeInvalidState          = "InvalidState"
	ErrTypeNotFound              = "NotFound"
	ErrTypeInvalidInput          = "InvalidInput"
	ErrTypeIdempotencyConflict   = "IdempotencyConflict"
)

// NonRetryableErrorTypes lists the types the workflow retry policy must not retry.
var NonRetryableErrorTypes = []string{
	ErrTypeInsufficientInventory,
	ErrTypeInvalidState,
	ErrTypeNotFound,
	ErrTypeInvalidInput,
	ErrTypeIdempotencyConflict,
}

type shortageDetails struct {
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	Available   int32  `json:"available"`
	Requested   int32  `json:"requested"`
}

// EncodeError turns business errors into non-retryable application errors with details.
// Other errors are returned unchanged.
func EncodeError(err error) error {
	var shortage *application.InsufficientInventoryError
	var state *application.InvalidStateError
	switch {
	case errors.As(err, &shortage):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInsufficientInventory, nil, shortageDetails{
			ProductID:   shortage.ProductID,
			ProductName: shortage.ProductName,
			Available:   shortage.Available,
			Requested:   shortage.Requested,
		})
	case errors.As(err, &state):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidState, nil, state.Reason)
	case errors.Is(err, application.ErrNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeNotFound, nil)
	case errors.Is(err, application.ErrInvalidInput):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidInput, nil)
	case errors.Is(err, ordersports.ErrIdempotencyConflict):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeIdempotencyConflict, nil)
	default:
		return err
	}
}

// DecodeError restores the application error encoded by EncodeError from a workflow or
// activity failure. Unknown errors are returned unchanged.
func DecodeError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case ErrTypeInsufficientInventory:
		var details shortageDetails
		if decodeErr := appErr.Details(&details); decodeErr != nil {
			return fmt.Errorf("%w: %s", application.ErrInsufficientInventory, appErr.Message())
		}
		return &application.InsufficientInventoryError{
			ProductID:   details.ProductID,
			ProductName: details.ProductName,
			Available:   details.Available,
			Requested:   details.Requested,
		}
	case ErrTypeInvalidState:
		var reason string
		_ = appErr.Details(&reason)
		return &application.InvalidStateError{Reason: reason}
	case ErrTypeNotFound:
		return fmt.Errorf("%w: %s", application.ErrNotFound, appErr.Message())
	case ErrTypeInvalidInput:
		return fmt.Errorf("%w: %s", application.ErrInvalidInput, appErr.Message())
	case ErrTypeIdempotencyConflict:
		return ordersports.ErrIdempotencyConflict
	default:
		return err
	}
}
