package models

import "time"

// PaymentStatus records the outcome reported for a payment. The API only
// stores the status; it never talks to a payment processor.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// Valid reports whether the status is known.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// PaymentProvider enumerates supported gateways.
type PaymentProvider string

const (
	ProviderStripe PaymentProvider = "STRIPE"
	ProviderMomo   PaymentProvider = "MOMO"
	ProviderVNPay  PaymentProvider = "VNPAY"
)

// Valid reports whether the provider is known.
func (p PaymentProvider) Valid() bool {
	switch p {
	case ProviderStripe, ProviderMomo, ProviderVNPay:
		return true
	}
	return false
}

// Payment is a recorded payment attempt against an order.
type Payment struct {
	ID            string          `db:"id" json:"id"`
	OrderID       string          `db:"order_id" json:"order_id"`
	Provider      PaymentProvider `db:"provider" json:"provider"`
	Status        PaymentStatus   `db:"status" json:"status"`
	Amount        float64         `db:"amount" json:"amount"`
	TransactionID *string         `db:"transaction_id" json:"transaction_id,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}
