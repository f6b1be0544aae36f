// Package events defines the facts exchanged between the order and payment
// services over the event bus, together with their topics and partition keys.
package events

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Topic names. Both saga topics are partition-keyed by order ID so that the
// two facts for a single order land on the same partition and keep their
// relative order.
const (
	TopicOrderCreated    = "order-events"
	TopicPaymentCreated  = "payment-events"
	TopicOrderCreatedDLQ = "order-events-dlq"
)

// OrderCreatedEvent is published once per order creation attempt, after the
// order row is committed.
type OrderCreatedEvent struct {
	OrderID     int64           `json:"order_id"`
	UserID      int64           `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Key returns the partition key for the event.
func (e OrderCreatedEvent) Key() string {
	return strconv.FormatInt(e.OrderID, 10)
}

// PaymentCreatedEvent is published after a payment record is persisted.
type PaymentCreatedEvent struct {
	PaymentID     string          `json:"payment_id"`
	OrderID       int64           `json:"order_id"`
	UserID        int64           `json:"user_id"`
	Status        string          `json:"status"`
	Timestamp     time.Time       `json:"timestamp"`
	PaymentAmount decimal.Decimal `json:"payment_amount"`
}

// Key returns the partition key for the event. Payment events share the
// order-event key so both facts for an order stay ordered.
func (e PaymentCreatedEvent) Key() string {
	return strconv.FormatInt(e.OrderID, 10)
}

// DeadLetteredEvent wraps an unprocessable OrderCreatedEvent together with
// the error that exhausted its retry budget. When the original payload does
// not even decode, Event is zero and RawPayload carries the bytes verbatim.
type DeadLetteredEvent struct {
	Event      OrderCreatedEvent `json:"event"`
	RawPayload string            `json:"raw_payload,omitempty"`
	Error      string            `json:"error"`
	FailedAt   time.Time         `json:"failed_at"`
}

// Key returns the partition key for the dead-lettered event.
func (e DeadLetteredEvent) Key() string {
	return e.Event.Key()
}
