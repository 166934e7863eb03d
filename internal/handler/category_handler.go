package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quickbite/quickbite-api/internal/service"
	appErrors "github.com/quickbite/quickbite-api/pkg/errors"
	"github.com/quickbite/quickbite-api/pkg/response"
)

// CategoryHandler wires HTTP endpoints to the category service.
type CategoryHandler struct {
	service *service.CategoryService
}

// NewCategoryHandler creates a new handler.
func NewCategoryHandler(svc *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: svc}
}

// List godoc
// @Summary List menu categories
// @Description List categories, optionally scoped to a restaurant
// @Tags Categories
// @Produce json
// @Param restaurant_id query string false "Restaurant filter"
// @Success 200 {object} response.Envelope
// @Router /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.service.List(c.Request.Context(), c.Query("restaurant_id"), true)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, categories, nil)
}

// Create godoc
// @Summary Create menu category
// @Description Add a menu category to a restaurant (admin only)
// @Tags Categories
// @Accept json
// @Produce json
// @Param payload body service.CreateCategoryRequest true "Category payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req service.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid category payload"))
		return
	}

	category, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, category)
}
