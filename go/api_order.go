package storefrontserver

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	ordersmapper "github.com/Apurer/storefront-orders/internal/domains/orders/adapters/http/mapper"
	"github.com/Apurer/storefront-orders/internal/domains/orders/application/types"
	ordersports "github.com/Apurer/storefront-orders/internal/domains/orders/ports"
)

// IdempotencyKeyHeader lets clients retry a cart conversion safely.
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderAPI implements the order section. Cart conversion goes through the workflow
// orchestrator; everything else calls the service directly.
type OrderAPI struct {
	service   ordersports.Service
	workflows ordersports.WorkflowOrchestrator
}

// NewOrderAPI wires dependencies.
func NewOrderAPI(service ordersports.Service, workflows ordersports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

type convertCartRequest struct {
	Shipping ordersmapper.Shipping `json:"shipping"`
}

type createOrderRequest struct {
	UserID   int64                  `json:"userId" binding:"required"`
	Shipping *ordersmapper.Shipping `json:"shipping,omitempty"`
}

// Post /v1/orders/cart/:cartId
// Convert an active cart into an order
func (api *OrderAPI) ConvertCart(c *gin.Context) {
	cartID, err := pathID(c, "cartId")
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	var payload convertCartRequest
	// an empty body converts with blank shipping details
	if err := c.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
		respondBadRequest(c, err)
		return
	}
	order, err := api.workflows.ConvertCart(c.Request.Context(), types.ConvertCartInput{
		CartID:         cartID,
		Shipping:       ordersmapper.ToDomainShipping(payload.Shipping),
		IdempotencyKey: strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader)),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ordersmapper.FromDomainOrder(order))
}

// Post /v1/orders
// Create an empty order for a user
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	var payload createOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	input := types.CreateOrderInput{UserID: payload.UserID}
	if payload.Shipping != nil {
		shipping := ordersmapper.ToDomainShipping(*payload.Shipping)
		input.Shipping = &shipping
	}
	order, err := api.service.CreateOrder(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ordersmapper.FromDomainOrder(order))
}

// Put /v1/orders/:orderId
// Update the shipping destination; blank fields are left unchanged
func (api *OrderAPI) UpdateShipping(c *gin.Context) {
	id, err := pathID(c, "orderId")
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	var payload ordersmapper.Shipping
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	order, err := api.service.UpdateShipping(c.Request.Context(), types.UpdateShippingInput{
		OrderID:  id,
		Shipping: ordersmapper.ToDomainShipping(payload),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordersmapper.FromDomainOrder(order))
}

// Delete /v1/orders/:orderId
func (api *OrderAPI) DeleteOrder(c *gin.Context) {
	id, err := pathID(c, "orderId")
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := api.service.DeleteOrder(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondNoContent(c)
}

// Get /v1/orders/:orderId
func (api *OrderAPI) GetOrderByID(c *gin.Context) {
	id, err := pathID(c, "orderId")
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	view, err := api.service.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordersmapper.FromOrderView(view))
}

// Get /v1/orders
func (api *OrderAPI) ListOrders(c *gin.Context) {
	api.respondViews(c, func() ([]*types.OrderView, error) {
		return api.service.ListOrders(c.Request.Context())
	})
}

// Get /v1/orders/user/:email
// Orders of a user, newest first. An unknown email yields an empty list.
func (api *OrderAPI) ListByUserEmail(c *gin.Context) {
	email := strings.TrimSpace(c.Param("email"))
	api.respondViews(c, func() ([]*types.OrderView, error) {
		return api.service.ListByUserEmail(c.Request.Context(), email)
	})
}

// Get /v1/orders/dateRange?start=2024-01-01&end=2024-01-31
func (api *OrderAPI) ListByDateRange(c *gin.Context) {
	start, end, err := requiredDateRange(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	api.respondViews(c, func() ([]*types.OrderView, error) {
		return api.service.ListByDateRange(c.Request.Context(), start, end)
	})
}

// Get /v1/orders/filter?userId=&start=&end=&minAmount=
func (api *OrderAPI) FilterOrders(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	api.respondViews(c, func() ([]*types.OrderView, error) {
		return api.service.FilterOrders(c.Request.Context(), filter)
	})
}

// Get /v1/orders/recent?n=10
func (api *OrderAPI) MostRecent(c *gin.Context) {
	n := 0
	if raw := c.Query("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondBadRequest(c, errors.New("n must be an integer"))
			return
		}
		n = parsed
	}
	api.respondViews(c, func() ([]*types.OrderView, error) {
		return api.service.MostRecent(c.Request.Context(), n)
	})
}

// Get /v1/orders/product/:productId
func (api *OrderAPI) ListByProductID(c *gin.Context) {
	productID, err := pathID(c, "productId")
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	api.respondViews(c, func() ([]*types.OrderView, error) {
		return api.service.ListByProductID(c.Request.Context(), productID)
	})
}

// Get /v1/orders/revenue?start=2024-01-01&end=2024-01-31
// Daily revenue over an inclusive date range
func (api *OrderAPI) RevenueByDateRange(c *gin.Context) {
	start, end, err := requiredDateRange(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	revenue, err := api.service.RevenueByDateRange(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordersmapper.FromDailyRevenue(revenue))
}

func (api *OrderAPI) respondViews(c *gin.Context, query func() ([]*types.OrderView, error)) {
	views, err := query()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordersmapper.FromOrderViews(views))
}

func parseFilter(c *gin.Context) (types.OrderFilter, error) {
	var (
		filter types.OrderFilter
		err    error
	)
	if filter.UserID, err = queryInt64(c, "userId"); err != nil {
		return filter, err
	}
	if filter.Start, err = queryDate(c, "start"); err != nil {
		return filter, err
	}
	if filter.End, err = queryDate(c, "end"); err != nil {
		return filter, err
	}
	if filter.MinAmount, err = queryDecimal(c, "minAmount"); err != nil {
		return filter, err
	}
	return filter, nil
}
