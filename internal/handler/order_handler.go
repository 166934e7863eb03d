package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quickbite/quickbite-api/internal/service"
	appErrors "github.com/quickbite/quickbite-api/pkg/errors"
	"github.com/quickbite/quickbite-api/pkg/response"
)

// OrderHandler wires HTTP endpoints to the order service.
type OrderHandler struct {
	service *service.OrderService
}

// NewOrderHandler creates a new handler.
func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{service: svc}
}

// Create godoc
// @Summary Place order
// @Description Place an order; the total is computed from current menu prices
// @Tags Orders
// @Accept json
// @Produce json
// @Param payload body service.CreateOrderRequest true "Order payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid order payload"))
		return
	}

	order, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, order)
}

// List godoc
// @Summary List orders
// @Description Customers see their own orders, owners their restaurants', admins all
// @Tags Orders
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	orders, err := h.service.List(c.Request.Context(), claims.UserID, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, orders, nil)
}

// Get godoc
// @Summary Get order detail
// @Description Returns an order with its line items
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	order, err := h.service.Get(c.Request.Context(), c.Param("id"), claims.UserID, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, order, nil)
}

// UpdateStatus godoc
// @Summary Update order status
// @Description Move an order through its lifecycle (owner, driver or admin)
// @Tags Orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param payload body service.UpdateOrderStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}

	order, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), claims.UserID, claims.Role, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, order, nil)
}

// Export godoc
// @Summary Export orders as CSV
// @Description Download all orders as a CSV report (admin only)
// @Tags Orders
// @Produce text/csv
// @Success 200 {string} string "CSV content"
// @Router /orders/export [get]
func (h *OrderHandler) Export(c *gin.Context) {
	data, err := h.service.ExportCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("orders-%s.csv", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

// Receipt godoc
// @Summary Download order receipt
// @Description Render a PDF receipt for one order
// @Tags Orders
// @Produce application/pdf
// @Param id path string true "Order ID"
// @Success 200 {string} string "PDF content"
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /orders/{id}/receipt [get]
func (h *OrderHandler) Receipt(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	data, err := h.service.Receipt(c.Request.Context(), c.Param("id"), claims.UserID, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "receipt-"+c.Param("id")+".pdf"))
	c.Data(http.StatusOK, "application/pdf", data)
}
