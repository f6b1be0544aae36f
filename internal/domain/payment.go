package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus enumerates the states of a payment record.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusSuccess  PaymentStatus = "SUCCESS"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusCanceled PaymentStatus = "CANCELED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// Payment represents a settlement attempt for an order, owned by the payment
// service. Payments are written once and never mutated.
type Payment struct {
	ID        uuid.UUID       `json:"id"`
	OrderID   int64           `json:"order_id"`
	UserID    int64           `json:"user_id"`
	Status    PaymentStatus   `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewPayment creates a Payment for the given order with the supplied status.
func NewPayment(orderID, userID int64, status PaymentStatus, amount decimal.Decimal) (*Payment, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	return &Payment{
		ID:        uuid.New(),
		OrderID:   orderID,
		UserID:    userID,
		Status:    status,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// PaymentStatusForDecision classifies a decision-oracle integer into a
// payment outcome: even values settle, odd values fail. Zero and negative
// values follow the same parity rule.
func PaymentStatusForDecision(n int) PaymentStatus {
	if n%2 == 0 {
		return PaymentStatusSuccess
	}
	return PaymentStatusFailed
}

// OrderStatusForPayment maps the status carried on a payment event to the
// resulting order status: "SUCCESS" confirms the order, anything else marks
// the payment as failed.
func OrderStatusForPayment(paymentStatus string) OrderStatus {
	if paymentStatus == string(PaymentStatusSuccess) {
		return OrderStatusConfirmed
	}
	return OrderStatusPaymentFailed
}
