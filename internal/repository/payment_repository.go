package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/quickbite/quickbite-api/internal/models"
)

// PaymentRepository handles persistence for recorded payments.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository instantiates a payment repository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = "id, order_id, provider, status, amount, transaction_id, created_at, updated_at"

// Create records a new payment attempt.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = now
	}
	payment.UpdatedAt = now

	const query = `INSERT INTO payments (id, order_id, provider, status, amount, transaction_id, created_at, updated_at) VALUES (:id, :order_id, :provider, :status, :amount, :transaction_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, payment); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// ListByOrder returns payments recorded against an order.
func (r *PaymentRepository) ListByOrder(ctx context.Context, orderID string) ([]models.Payment, error) {
	query := fmt.Sprintf("SELECT %s FROM payments WHERE order_id = $1 ORDER BY created_at DESC", paymentColumns)
	var payments []models.Payment
	if err := r.db.SelectContext(ctx, &payments, query, orderID); err != nil {
		return nil, fmt.Errorf("list payments by order: %w", err)
	}
	return payments, nil
}

// FindByID loads a payment by identifier.
func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	query := fmt.Sprintf("SELECT %s FROM payments WHERE id = $1 LIMIT 1", paymentColumns)
	var payment models.Payment
	if err := r.db.GetContext(ctx, &payment, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find payment by id: %w", err)
	}
	return &payment, nil
}

// UpdateStatus records the reported outcome, optionally with the gateway's
// transaction reference.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id string, status models.PaymentStatus, transactionID *string) error {
	const query = `UPDATE payments SET status = $2, transaction_id = COALESCE($3, transaction_id), updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, transactionID, time.Now().UTC()); err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	return nil
}
