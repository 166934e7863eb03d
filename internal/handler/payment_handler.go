package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quickbite/quickbite-api/internal/service"
	appErrors "github.com/quickbite/quickbite-api/pkg/errors"
	"github.com/quickbite/quickbite-api/pkg/response"
)

// PaymentHandler wires HTTP endpoints to the payment service.
type PaymentHandler struct {
	service *service.PaymentService
}

// NewPaymentHandler creates a new handler.
func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: svc}
}

// Create godoc
// @Summary Record payment
// @Description Record a pending payment for one of the caller's orders
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body service.CreatePaymentRequest true "Payment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payment payload"))
		return
	}

	payment, err := h.service.Create(c.Request.Context(), claims.UserID, claims.Role, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, payment)
}

// Get godoc
// @Summary Get payment
// @Description Returns a payment recorded against one of the caller's orders
// @Tags Payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /payments/{id} [get]
func (h *PaymentHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	payment, err := h.service.Get(c.Request.Context(), c.Param("id"), claims.UserID, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, payment, nil)
}

// ListByOrder godoc
// @Summary List payments for an order
// @Description Returns payments recorded against one of the caller's orders
// @Tags Payments
// @Produce json
// @Param order_id path string true "Order ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /payments/order/{order_id} [get]
func (h *PaymentHandler) ListByOrder(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	payments, err := h.service.ListByOrder(c.Request.Context(), c.Param("order_id"), claims.UserID, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, payments, nil)
}

// UpdateStatus godoc
// @Summary Update payment status
// @Description Record the reported outcome for a payment (admin only)
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path string true "Payment ID"
// @Param payload body service.UpdatePaymentStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /payments/{id}/status [patch]
func (h *PaymentHandler) UpdateStatus(c *gin.Context) {
	var req service.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}

	payment, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, payment, nil)
}
