package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	usermapper "github.com/Apurer/storefront-orders/internal/domains/users/adapters/http/mapper"
	userports "github.com/Apurer/storefront-orders/internal/domains/users/ports"
	apierrors "github.com/Apurer/storefront-orders/internal/shared/errors"
)

// UserAPI implements the user section.
type UserAPI struct {
	service userports.Service
}

// NewUserAPI wires dependencies.
func NewUserAPI(service userports.Service) UserAPI {
	return UserAPI{service: service}
}

// Post /v1/users
// Create user
func (api *UserAPI) CreateUser(c *gin.Context) {
	var payload usermapper.User
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	user, err := usermapper.ToDomainUser(payload)
	if err != nil {
		respondProblem(c, apierrors.ErrValidation.WithDetail(err.Error()))
		return
	}
	saved, err := api.service.CreateUser(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, usermapper.FromDomainUser(saved))
}

// Get /v1/users
func (api *UserAPI) ListUsers(c *gin.Context) {
	users, err := api.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usermapper.FromDomainUsers(users))
}

// Get /v1/users/:userId
func (api *UserAPI) GetUserByID(c *gin.Context) {
	id, err := pathID(c, "userId")
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	user, err := api.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usermapper.FromDomainUser(user))
}

// Delete /v1/users/:userId
func (api *UserAPI) DeleteUser(c *gin.Context) {
	id, err := pathID(c, "userId")
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := api.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondNoContent(c)
}
