package orders

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront-orders/internal/domains/orders/application"
	ordersports "github.com/Apurer/storefront-orders/internal/domains/orders/ports"
)

func TestEncodeDecodeError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"invalid state", &application.InvalidStateError{Reason: application.ReasonCartEmpty}, application.ErrInvalidState},
		{"not found", fmt.Errorf("%w: cart", application.ErrNotFound), application.ErrNotFound},
		{"invalid input", fmt.Errorf("%w: quantity", application.ErrInvalidInput), application.ErrInvalidInput},
		{"idempotency", ordersports.ErrIdempotencyConflict, ordersports.ErrIdempotencyConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, DecodeError(EncodeError(tc.err)), tc.want)
		})
	}

	var state *application.InvalidStateError
	require.True(t, errors.As(DecodeError(EncodeError(&application.InvalidStateError{Reason: application.ReasonCartNotActive})), &state))
	assert.Equal(t, application.ReasonCartNotActive, state.Reason)
}

func TestEncodeError_LeavesInternalErrorsRetryable(t *testing.T) {
	boom := errors.New("connection reset")
	assert.Same(t, boom, EncodeError(boom))
	assert.Same(t, boom, DecodeError(boom))
}
