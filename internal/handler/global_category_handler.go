package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quickbite/quickbite-api/internal/models"
	"github.com/quickbite/quickbite-api/internal/service"
	appErrors "github.com/quickbite/quickbite-api/pkg/errors"
	"github.com/quickbite/quickbite-api/pkg/response"
)

// GlobalCategoryHandler wires HTTP endpoints to the global category service.
type GlobalCategoryHandler struct {
	service *service.GlobalCategoryService
}

// NewGlobalCategoryHandler creates a new handler.
func NewGlobalCategoryHandler(svc *service.GlobalCategoryService) *GlobalCategoryHandler {
	return &GlobalCategoryHandler{service: svc}
}

// List godoc
// @Summary List global categories
// @Description List platform-wide cuisine tags; admins see inactive ones too
// @Tags GlobalCategories
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /global-categories [get]
func (h *GlobalCategoryHandler) List(c *gin.Context) {
	onlyActive := true
	if claims := claimsFromContext(c); claims != nil && claims.Role == models.RoleAdmin {
		onlyActive = false
	}

	categories, err := h.service.List(c.Request.Context(), onlyActive)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, categories, nil)
}

// Get godoc
// @Summary Get global category
// @Description Returns a cuisine tag by its slug or id
// @Tags GlobalCategories
// @Produce json
// @Param slug path string true "Slug or ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /global-categories/{slug} [get]
func (h *GlobalCategoryHandler) Get(c *gin.Context) {
	category, err := h.service.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, category, nil)
}

// Create godoc
// @Summary Create global category
// @Description Add a cuisine tag; the slug is derived from the name (admin only)
// @Tags GlobalCategories
// @Accept json
// @Produce json
// @Param payload body service.CreateGlobalCategoryRequest true "Category payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /global-categories [post]
func (h *GlobalCategoryHandler) Create(c *gin.Context) {
	var req service.CreateGlobalCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid global category payload"))
		return
	}

	category, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, category)
}

// Update godoc
// @Summary Update global category
// @Description Modify a cuisine tag (admin only)
// @Tags GlobalCategories
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param payload body service.UpdateGlobalCategoryRequest true "Category payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /global-categories/{id} [put]
func (h *GlobalCategoryHandler) Update(c *gin.Context) {
	var req service.UpdateGlobalCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid global category payload"))
		return
	}

	category, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, category, nil)
}

// Delete godoc
// @Summary Delete global category
// @Description Remove a cuisine tag (admin only)
// @Tags GlobalCategories
// @Produce json
// @Param id path string true "Category ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /global-categories/{id} [delete]
func (h *GlobalCategoryHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
