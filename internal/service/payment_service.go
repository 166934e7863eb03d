package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/quickbite/quickbite-api/internal/models"
	appErrors "github.com/quickbite/quickbite-api/pkg/errors"
)

type paymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	ListByOrder(ctx context.Context, orderID string) ([]models.Payment, error)
	FindByID(ctx context.Context, id string) (*models.Payment, error)
	UpdateStatus(ctx context.Context, id string, status models.PaymentStatus, transactionID *string) error
}

type paymentOrderRepository interface {
	FindByID(ctx context.Context, id string) (*models.Order, error)
}

// CreatePaymentRequest records a payment attempt against an order. The API
// stores the reported outcome; it does not talk to any gateway.
type CreatePaymentRequest struct {
	OrderID  string                 `json:"order_id" validate:"required"`
	Provider models.PaymentProvider `json:"provider" validate:"required"`
}

// UpdatePaymentStatusRequest records the outcome reported for a payment.
type UpdatePaymentStatusRequest struct {
	Status        models.PaymentStatus `json:"status" validate:"required"`
	TransactionID *string              `json:"transaction_id"`
}

// PaymentService handles recorded payments.
type PaymentService struct {
	repo      paymentRepository
	orders    paymentOrderRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPaymentService constructs the payment service.
func NewPaymentService(repo paymentRepository, orders paymentOrderRepository, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{repo: repo, orders: orders, validator: validate, logger: logger}
}

// Create records a pending payment for an order owned by the caller.
func (s *PaymentService) Create(ctx context.Context, userID string, role models.UserRole, req CreatePaymentRequest) (*models.Payment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}
	if !req.Provider.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown payment provider")
	}

	order, err := s.orders.FindByID(ctx, req.OrderID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "order not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load order")
	}
	if order.UserID != userID && role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "order belongs to another user")
	}

	payment := &models.Payment{
		OrderID:  order.ID,
		Provider: req.Provider,
		Status:   models.PaymentPending,
		Amount:   order.Total,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create payment")
	}
	return payment, nil
}

// Get loads a payment the caller may see: the order's owner or an admin.
func (s *PaymentService) Get(ctx context.Context, id, userID string, role models.UserRole) (*models.Payment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}

	order, err := s.orders.FindByID(ctx, payment.OrderID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load order")
	}
	if order.UserID != userID && role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "payment belongs to another user")
	}
	return payment, nil
}

// ListByOrder returns payments for an order the caller may see.
func (s *PaymentService) ListByOrder(ctx context.Context, orderID, userID string, role models.UserRole) ([]models.Payment, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "order not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load order")
	}
	if order.UserID != userID && role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "order belongs to another user")
	}

	payments, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}
	return payments, nil
}

// UpdateStatus records the reported outcome for a payment.
func (s *PaymentService) UpdateStatus(ctx context.Context, id string, req UpdatePaymentStatusRequest) (*models.Payment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown payment status")
	}

	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}

	if err := s.repo.UpdateStatus(ctx, id, req.Status, req.TransactionID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update payment status")
	}
	payment.Status = req.Status
	if req.TransactionID != nil {
		payment.TransactionID = req.TransactionID
	}
	return payment, nil
}
