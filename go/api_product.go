package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogmapper "github.com/Apurer/storefront-orders/internal/domains/catalog/adapters/http/mapper"
	catalogports "github.com/Apurer/storefront-orders/internal/domains/catalog/ports"
)

// ProductAPI implements the product catalog section.
type ProductAPI struct {
	service catalogports.Service
}

// NewProductAPI wires dependencies.
func NewProductAPI(service catalogports.Service) ProductAPI {
	return ProductAPI{service: service}
}

type restockRequest struct {
	Units int32 `json:"units" binding:"required"`
}

// Post /v1/products
// Add a product to the catalog
func (api *ProductAPI) AddProduct(c *gin.Context) {
	var payload catalogmapper.Product
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	saved, err := api.service.AddProduct(c.Request.Context(), catalogmapper.ToDomainProduct(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, catalogmapper.FromDomainProduct(saved))
}

// Get /v1/products
func (api *ProductAPI) ListProducts(c *gin.Context) {
	products, err := api.service.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromDomainProducts(products))
}

// Get /v1/products/:productId
func (api *ProductAPI) GetProduct(c *gin.Context) {
	id, err := pathID(c, "productId")
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	product, err := api.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromDomainProduct(product))
}

// Post /v1/products/:productId/restock
// Add units to a product's stock
func (api *ProductAPI) RestockProduct(c *gin.Context) {
	id, err := pathID(c, "productId")
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	var payload restockRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	product, err := api.service.Restock(c.Request.Context(), id, payload.Units)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromDomainProduct(product))
}
