package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers of every API section.
type ApiHandleFunctions struct {
	ProductAPI ProductAPI
	UserAPI    UserAPI
	CartAPI    CartAPI
	OrderAPI   OrderAPI
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing engine so callers can install middleware first.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		router.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}

// DefaultHandleFunc answers routes whose handler is not wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"AddProduct", http.MethodPost, "/v1/products", handleFunctions.ProductAPI.AddProduct},
		{"ListProducts", http.MethodGet, "/v1/products", handleFunctions.ProductAPI.ListProducts},
		{"GetProduct", http.MethodGet, "/v1/products/:productId", handleFunctions.ProductAPI.GetProduct},
		{"RestockProduct", http.MethodPost, "/v1/products/:productId/restock", handleFunctions.ProductAPI.RestockProduct},

		{"CreateUser", http.MethodPost, "/v1/users", handleFunctions.UserAPI.CreateUser},
		{"ListUsers", http.MethodGet, "/v1/users", handleFunctions.UserAPI.ListUsers},
		{"GetUserByID", http.MethodGet, "/v1/users/:userId", handleFunctions.UserAPI.GetUserByID},
		{"DeleteUser", http.MethodDelete, "/v1/users/:userId", handleFunctions.UserAPI.DeleteUser},

		{"CreateCart", http.MethodPost, "/v1/carts", handleFunctions.CartAPI.CreateCart},
		{"GetCart", http.MethodGet, "/v1/carts/:cartId", handleFunctions.CartAPI.GetCart},
		{"AddCartItem", http.MethodPost, "/v1/carts/:cartId/items", handleFunctions.CartAPI.AddItem},
		{"RemoveCartItem", http.MethodDelete, "/v1/carts/:cartId/items/:productId", handleFunctions.CartAPI.RemoveItem},

		{"ConvertCart", http.MethodPost, "/v1/orders/cart/:cartId", handleFunctions.OrderAPI.ConvertCart},
		{"CreateOrder", http.MethodPost, "/v1/orders", handleFunctions.OrderAPI.CreateOrder},
		{"ListOrders", http.MethodGet, "/v1/orders", handleFunctions.OrderAPI.ListOrders},
		{"ListOrdersByDateRange", http.MethodGet, "/v1/orders/dateRange", handleFunctions.OrderAPI.ListByDateRange},
		{"FilterOrders", http.MethodGet, "/v1/orders/filter", handleFunctions.OrderAPI.FilterOrders},
		{"MostRecentOrders", http.MethodGet, "/v1/orders/recent", handleFunctions.OrderAPI.MostRecent},
		{"RevenueByDateRange", http.MethodGet, "/v1/orders/revenue", handleFunctions.OrderAPI.RevenueByDateRange},
		{"ListOrdersByUserEmail", http.MethodGet, "/v1/orders/user/:email", handleFunctions.OrderAPI.ListByUserEmail},
		{"ListOrdersByProduct", http.MethodGet, "/v1/orders/product/:productId", handleFunctions.OrderAPI.ListByProductID},
		{"GetOrderByID", http.MethodGet, "/v1/orders/:orderId", handleFunctions.OrderAPI.GetOrderByID},
		{"UpdateShipping", http.MethodPut, "/v1/orders/:orderId", handleFunctions.OrderAPI.UpdateShipping},
		{"DeleteOrder", http.MethodDelete, "/v1/orders/:orderId", handleFunctions.OrderAPI.DeleteOrder},
	}
}
