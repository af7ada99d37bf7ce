package storefrontserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	cartapp "github.com/Apurer/storefront-orders/internal/domains/carts/application"
	cartdomain "github.com/Apurer/storefront-orders/internal/domains/carts/domain"
	cartports "github.com/Apurer/storefront-orders/internal/domains/carts/ports"
	catalogapp "github.com/Apurer/storefront-orders/internal/domains/catalog/application"
	catalogports "github.com/Apurer/storefront-orders/internal/domains/catalog/ports"
	ordersapp "github.com/Apurer/storefront-orders/internal/domains/orders/application"
	ordersports "github.com/Apurer/storefront-orders/internal/domains/orders/ports"
	usersapp "github.com/Apurer/storefront-orders/internal/domains/users/application"
	userports "github.com/Apurer/storefront-orders/internal/domains/users/ports"
	apierrors "github.com/Apurer/storefront-orders/internal/shared/errors"
)

// responder maps application errors to RFC 7807 problems. Order errors go first since
// they wrap the errors of the other contexts.
var responder = apierrors.NewChainedResponder("",
	orderProblem,
	cartProblem,
	catalogProblem,
	userProblem,
)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

// respondError answers a failed use case.
func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

// respondBadRequest answers an unparsable request.
func respondBadRequest(c *gin.Context, err error) {
	respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}

var orderProblem = apierrors.Chain(
	apierrors.MatchAs(func(e *ordersapp.InsufficientInventoryError) apierrors.ProblemDetail {
		return apierrors.NewInsufficientInventoryProblem(e.ProductID, e.ProductName, e.Available, e.Requested)
	}),
	apierrors.MatchAs(func(e *ordersapp.InvalidStateError) apierrors.ProblemDetail {
		return apierrors.NewInvalidStateProblem(e.Reason)
	}),
	func(err error) (apierrors.ProblemDetail, bool) {
		if errors.Is(err, ordersports.ErrIdempotencyConflict) {
			return apierrors.ErrConflict.WithDetail("idempotency key was already used with a different request"), true
		}
		return apierrors.ProblemDetail{}, false
	},
	apierrors.MatchIs(apierrors.ErrValidation, ordersapp.ErrInvalidInput),
	apierrors.MatchIs(apierrors.ErrNotFound, ordersapp.ErrNotFound),
)

var cartProblem = apierrors.Chain(
	func(err error) (apierrors.ProblemDetail, bool) {
		if errors.Is(err, cartdomain.ErrCartInactive) {
			return apierrors.NewInvalidStateProblem(ordersapp.ReasonCartNotActive), true
		}
		return apierrors.ProblemDetail{}, false
	},
	apierrors.MatchIs(apierrors.ErrUnprocessable, cartapp.ErrProductUnavailable),
	apierrors.MatchIs(apierrors.ErrValidation, cartapp.ErrInvalidInput),
	apierrors.MatchIs(apierrors.ErrNotFound, cartdomain.ErrItemNotFound, cartports.ErrNotFound),
)

var catalogProblem = apierrors.Chain(
	apierrors.MatchIs(apierrors.ErrValidation, catalogapp.ErrInvalidInput),
	apierrors.MatchIs(apierrors.ErrNotFound, catalogports.ErrNotFound),
)

var userProblem = apierrors.Chain(
	apierrors.MatchIs(apierrors.ErrValidation, usersapp.ErrInvalidInput),
	apierrors.MatchIs(apierrors.ErrConflict, userports.ErrEmailTaken),
	apierrors.MatchIs(apierrors.ErrNotFound, userports.ErrNotFound),
)

func respondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
