package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quickbite/quickbite-api/internal/service"
	appErrors "github.com/quickbite/quickbite-api/pkg/errors"
	"github.com/quickbite/quickbite-api/pkg/response"
)

// AddressHandler wires HTTP endpoints to the address service.
type AddressHandler struct {
	service *service.AddressService
}

// NewAddressHandler creates a new handler.
func NewAddressHandler(svc *service.AddressService) *AddressHandler {
	return &AddressHandler{service: svc}
}

// List godoc
// @Summary List saved addresses
// @Description Returns the caller's addresses, default first
// @Tags Addresses
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /addresses [get]
func (h *AddressHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	addresses, err := h.service.List(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, addresses, nil)
}

// Create godoc
// @Summary Save address
// @Description Save a delivery address; a new default demotes the previous one
// @Tags Addresses
// @Accept json
// @Produce json
// @Param payload body service.SaveAddressRequest true "Address payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /addresses [post]
func (h *AddressHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.SaveAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid address payload"))
		return
	}

	address, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, address)
}

// Update godoc
// @Summary Update address
// @Description Modify one of the caller's addresses
// @Tags Addresses
// @Accept json
// @Produce json
// @Param id path string true "Address ID"
// @Param payload body service.SaveAddressRequest true "Address payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /addresses/{id} [put]
func (h *AddressHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.SaveAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid address payload"))
		return
	}

	address, err := h.service.Update(c.Request.Context(), c.Param("id"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, address, nil)
}

// Delete godoc
// @Summary Delete address
// @Description Remove one of the caller's addresses
// @Tags Addresses
// @Produce json
// @Param id path string true "Address ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /addresses/{id} [delete]
func (h *AddressHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
