package storefrontserver

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartmapper "github.com/Apurer/storefront-orders/internal/domains/carts/adapters/http/mapper"
	catalogmapper "github.com/Apurer/storefront-orders/internal/domains/catalog/adapters/http/mapper"
	usermapper "github.com/Apurer/storefront-orders/internal/domains/users/adapters/http/mapper"
	apierrors "github.com/Apurer/storefront-orders/internal/shared/errors"
)

func TestProductEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/v1/products", map[string]any{"name": "Widget", "price": "9.99", "quantity": 4})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	product := decode[catalogmapper.Product](t, rec)
	require.NotNil(t, product.Active)
	assert.True(t, *product.Active)

	rec = s.do(t, http.MethodPost, fmt.Sprintf("/v1/products/%d/restock", product.ID), map[string]any{"units": 6})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 10, decode[catalogmapper.Product](t, rec).Quantity)

	rec = s.do(t, http.MethodGet, "/v1/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]catalogmapper.Product](t, rec), 1)

	rec = s.do(t, http.MethodPost, "/v1/products", map[string]any{"name": "Freebie", "price": "0", "quantity": 1})
	requireProblem(t, rec, http.StatusBadRequest, apierrors.TypeValidation)

	rec = s.do(t, http.MethodGet, "/v1/products/77", nil)
	requireProblem(t, rec, http.StatusNotFound, apierrors.TypeNotFound)
}

func TestUserEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/v1/users", map[string]any{"username": "erin", "email": "erin@example.com", "city": "Springfield"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	user := decode[usermapper.User](t, rec)
	assert.Equal(t, "Springfield", user.City)

	rec = s.do(t, http.MethodPost, "/v1/users", map[string]any{"username": "erin2", "email": "erin@example.com"})
	requireProblem(t, rec, http.StatusConflict, apierrors.TypeConflict)

	rec = s.do(t, http.MethodPost, "/v1/users", map[string]any{"username": "nobody", "email": "not-an-email"})
	requireProblem(t, rec, http.StatusBadRequest, apierrors.TypeValidation)

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/v1/users/%d", user.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/v1/users/%d", user.ID), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/v1/users/%d", user.ID), nil)
	requireProblem(t, rec, http.StatusNotFound, apierrors.TypeNotFound)
}

func TestCartEndpoints(t *testing.T) {
	s := newTestServer(t)
	user := s.addUser(t, "frank", "frank@example.com")
	widget := s.addProduct(t, "Widget", "10.00", 5)

	rec := s.do(t, http.MethodPost, "/v1/carts", map[string]any{"userId": user.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cart := decode[cartmapper.Cart](t, rec)
	assert.True(t, cart.Active)

	itemsPath := fmt.Sprintf("/v1/carts/%d/items", cart.ID)
	rec = s.do(t, http.MethodPost, itemsPath, map[string]any{"productId": widget.ID, "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = s.do(t, http.MethodPost, itemsPath, map[string]any{"productId": widget.ID, "quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cart = decode[cartmapper.Cart](t, rec)
	require.Len(t, cart.Items, 1)
	assert.EqualValues(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, "30", cart.Total.String())

	rec = s.do(t, http.MethodPost, itemsPath, map[string]any{"productId": 404, "quantity": 1})
	requireProblem(t, rec, http.StatusNotFound, apierrors.TypeNotFound)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("%s/%d", itemsPath, widget.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, decode[cartmapper.Cart](t, rec).Items)

	rec = s.do(t, http.MethodPost, "/v1/carts", map[string]any{"userId": 999})
	requireProblem(t, rec, http.StatusNotFound, apierrors.TypeNotFound)
}
