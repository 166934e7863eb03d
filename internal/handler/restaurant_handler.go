package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/quickbite/quickbite-api/internal/models"
	"github.com/quickbite/quickbite-api/internal/service"
	appErrors "github.com/quickbite/quickbite-api/pkg/errors"
	"github.com/quickbite/quickbite-api/pkg/response"
)

// RestaurantHandler wires HTTP endpoints to the restaurant service.
type RestaurantHandler struct {
	service *service.RestaurantService
}

// NewRestaurantHandler creates a new handler.
func NewRestaurantHandler(svc *service.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{service: svc}
}

// List godoc
// @Summary List restaurants
// @Description List restaurants with search, category filter, sorting and pagination
// @Tags Restaurants
// @Produce json
// @Param search query string false "Name search"
// @Param category_id query string false "Global category filter"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Param sort_by query string false "Sort column (name, created_at, rating)"
// @Param sort_order query string false "Sort order (asc, desc)"
// @Success 200 {object} response.Envelope
// @Router /restaurants [get]
func (h *RestaurantHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	active := true
	filter := models.RestaurantFilter{
		Search:     c.Query("search"),
		CategoryID: c.Query("category_id"),
		IsActive:   &active,
		Page:       page,
		PageSize:   pageSize,
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}

	restaurants, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, restaurants, pagination)
}

// Get godoc
// @Summary Get restaurant detail
// @Description Returns a restaurant with menu and categories; bumps the view counter
// @Tags Restaurants
// @Produce json
// @Param id path string true "Restaurant ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /restaurants/{id} [get]
func (h *RestaurantHandler) Get(c *gin.Context) {
	restaurant, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, restaurant, nil)
}

// Create godoc
// @Summary Create restaurant
// @Description Register a new restaurant (admin only)
// @Tags Restaurants
// @Accept json
// @Produce json
// @Param payload body service.CreateRestaurantRequest true "Restaurant payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /restaurants [post]
func (h *RestaurantHandler) Create(c *gin.Context) {
	var req service.CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid restaurant payload"))
		return
	}

	restaurant, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, restaurant)
}

// Update godoc
// @Summary Update restaurant
// @Description Modify restaurant fields (admin only)
// @Tags Restaurants
// @Accept json
// @Produce json
// @Param id path string true "Restaurant ID"
// @Param payload body service.UpdateRestaurantRequest true "Restaurant payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /restaurants/{id} [put]
func (h *RestaurantHandler) Update(c *gin.Context) {
	var req service.UpdateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid restaurant payload"))
		return
	}

	restaurant, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, restaurant, nil)
}

// Menu godoc
// @Summary Get restaurant menu
// @Description Returns menu items grouped by category sort order
// @Tags Restaurants
// @Produce json
// @Param id path string true "Restaurant ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /restaurants/{id}/menu [get]
func (h *RestaurantHandler) Menu(c *gin.Context) {
	menu, err := h.service.Menu(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, menu, nil)
}

// AddMenuItem godoc
// @Summary Add menu item
// @Description Create a dish under one of the restaurant's categories (admin only)
// @Tags Restaurants
// @Accept json
// @Produce json
// @Param id path string true "Restaurant ID"
// @Param payload body service.CreateMenuItemRequest true "Menu item payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /restaurants/{id}/menu [post]
func (h *RestaurantHandler) AddMenuItem(c *gin.Context) {
	var req service.CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid menu item payload"))
		return
	}

	item, err := h.service.AddMenuItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, item)
}
