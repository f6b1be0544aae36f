package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Order validation errors.
var (
	ErrEmptyOrderItems = errors.New("order must contain at least one item")
	ErrInvalidUserID   = errors.New("user ID must be positive")
)

// OrderStatus enumerates the states of the order lifecycle.
type OrderStatus string

const (
	OrderStatusPending       OrderStatus = "PENDING"
	OrderStatusConfirmed     OrderStatus = "CONFIRMED"
	OrderStatusProcessing    OrderStatus = "PROCESSING"
	OrderStatusShipped       OrderStatus = "SHIPPED"
	OrderStatusDelivered     OrderStatus = "DELIVERED"
	OrderStatusRefunded      OrderStatus = "REFUNDED"
	OrderStatusPaymentFailed OrderStatus = "PAYMENT_FAILED"
)

// ParseOrderStatus converts a string into an OrderStatus.
// Returns ErrInvalidStatus for unknown values.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusRefunded,
		OrderStatusPaymentFailed:
		return OrderStatus(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// CanTransition reports whether an order may move from one status to another.
// Statuses only move forward: PENDING leaves via the payment saga to
// CONFIRMED or PAYMENT_FAILED; any settled status may still be advanced to
// PROCESSING, SHIPPED, DELIVERED or REFUNDED by a direct update. Nothing
// ever returns to PENDING.
func CanTransition(from, to OrderStatus) bool {
	if to == OrderStatusPending || from == to {
		return false
	}

	switch from {
	case OrderStatusPending:
		return to == OrderStatusConfirmed || to == OrderStatusPaymentFailed
	default:
		switch to {
		case OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusRefunded:
			return true
		}
		return false
	}
}

// OrderItem is a single line item on an order.
type OrderItem struct {
	SKU       string          `json:"sku"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Order represents a customer order owned by the order service. The payment
// saga moves a PENDING order to CONFIRMED or PAYMENT_FAILED; later fulfilment
// states are set through the direct status-update API.
type Order struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Status    OrderStatus     `json:"status"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
	Items     []OrderItem     `json:"items"`
}

// NewOrder creates a PENDING order for the given user and items. The total
// is computed from the line items. The ID is assigned by the store on insert.
func NewOrder(userID int64, items []OrderItem) (*Order, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	if len(items) == 0 {
		return nil, ErrEmptyOrderItems
	}

	total := decimal.Zero
	for _, item := range items {
		if item.Quantity <= 0 || item.UnitPrice.IsNegative() {
			return nil, ErrInvalidAmount
		}
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	if !total.IsPositive() {
		return nil, ErrInvalidAmount
	}

	return &Order{
		UserID:    userID,
		Status:    OrderStatusPending,
		Total:     total,
		CreatedAt: time.Now().UTC(),
		Items:     items,
	}, nil
}
