// Package errors renders application failures as RFC 7807 problem details.
package errors

import (
	"fmt"
	"net/http"
)

// ProblemDetail is the application/problem+json body. Business fields travel in Extensions.
// See: https://www.rfc-editor.org/rfc/rfc7807
type ProblemDetail struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	// Extensions holds problem-specific members such as the product that ran out of stock.
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy carrying detail.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// WithExtension returns a copy with key set; the receiver's map is never shared.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	extensions := make(map[string]any, len(p.Extensions)+1)
	for k, v := range p.Extensions {
		extensions[k] = v
	}
	extensions[key] = value
	p.Extensions = extensions
	return p
}

// Problem type references, relative to the responder's base URI.
const (
	TypeValidation            = "/problems/validation-error"
	TypeNotFound              = "/problems/not-found"
	TypeConflict              = "/problems/conflict"
	TypeInternal              = "/problems/internal-error"
	TypeBadRequest            = "/problems/bad-request"
	TypeUnprocessable         = "/problems/unprocessable-entity"
	TypeInvalidState          = "/problems/invalid-state"
	TypeInsufficientInventory = "/problems/insufficient-inventory"
)

var (
	ErrNotFound = ProblemDetail{
		Type:   TypeNotFound,
		Title:  "Resource Not Found",
		Status: http.StatusNotFound,
	}

	// ErrValidation is a well-formed request that breaks a domain rule.
	ErrValidation = ProblemDetail{
		Type:   TypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
	}

	// ErrBadRequest is a request that could not be parsed.
	ErrBadRequest = ProblemDetail{
		Type:   TypeBadRequest,
		Title:  "Bad Request",
		Status: http.StatusBadRequest,
	}

	ErrConflict = ProblemDetail{
		Type:   TypeConflict,
		Title:  "Conflict",
		Status: http.StatusConflict,
	}

	ErrInternal = ProblemDetail{
		Type:   TypeInternal,
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
	}

	// ErrInvalidState is an aggregate that cannot take part in the operation, e.g. an inactive cart.
	ErrInvalidState = ProblemDetail{
		Type:   TypeInvalidState,
		Title:  "Invalid State",
		Status: http.StatusConflict,
	}

	// ErrInsufficientInventory is a cart line that exceeds the product's stock.
	ErrInsufficientInventory = ProblemDetail{
		Type:   TypeInsufficientInventory,
		Title:  "Insufficient Inventory",
		Status: http.StatusConflict,
	}

	// ErrUnprocessable references something that exists but cannot be used, e.g. a retired product.
	ErrUnprocessable = ProblemDetail{
		Type:   TypeUnprocessable,
		Title:  "Unprocessable Entity",
		Status: http.StatusUnprocessableEntity,
	}
)

// NewInvalidStateProblem creates a 409 naming the reason the aggregate was rejected.
func NewInvalidStateProblem(reason string) ProblemDetail {
	return ErrInvalidState.
		WithDetail(reason).
		WithExtension("reason", reason)
}

// NewInsufficientInventoryProblem creates a 409 naming the first product that cannot cover its line.
func NewInsufficientInventoryProblem(productID int64, productName string, available, requested int32) ProblemDetail {
	return ErrInsufficientInventory.
		WithDetail(fmt.Sprintf("product %d (%s) has %d in stock, %d requested", productID, productName, available, requested)).
		WithExtension("productId", productID).
		WithExtension("productName", productName).
		WithExtension("available", available).
		WithExtension("requested", requested)
}
