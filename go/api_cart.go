package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	cartmapper "github.com/Apurer/storefront-orders/internal/domains/carts/adapters/http/mapper"
	cartports "github.com/Apurer/storefront-orders/internal/domains/carts/ports"
)

// CartAPI implements the shopping cart section.
type CartAPI struct {
	service cartports.Service
}

// NewCartAPI wires dependencies.
func NewCartAPI(service cartports.Service) CartAPI {
	return CartAPI{service: service}
}

type createCartRequest struct {
	UserID int64 `json:"userId" binding:"required"`
}

type addItemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int32 `json:"quantity" binding:"required"`
}

// Post /v1/carts
// Open a cart for a user
func (api *CartAPI) CreateCart(c *gin.Context) {
	var payload createCartRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	cart, err := api.service.CreateCart(c.Request.Context(), payload.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cartmapper.FromDomainCart(cart))
}

// Get /v1/carts/:cartId
func (api *CartAPI) GetCart(c *gin.Context) {
	id, err := pathID(c, "cartId")
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	cart, err := api.service.GetCart(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartmapper.FromDomainCart(cart))
}

// Post /v1/carts/:cartId/items
// Add a product to the cart at its current price
func (api *CartAPI) AddItem(c *gin.Context) {
	id, err := pathID(c, "cartId")
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	var payload addItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	cart, err := api.service.AddItem(c.Request.Context(), id, payload.ProductID, payload.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartmapper.FromDomainCart(cart))
}

// Delete /v1/carts/:cartId/items/:productId
func (api *CartAPI) RemoveItem(c *gin.Context) {
	cartID, err := pathID(c, "cartId")
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	productID, err := pathID(c, "productId")
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	cart, err := api.service.RemoveItem(c.Request.Context(), cartID, productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartmapper.FromDomainCart(cart))
}
