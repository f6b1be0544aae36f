package store

import (
	"context"

	"github.com/nordvik/sagapay/internal/domain"
)

// OrderStore defines the interface for order persistence.
type OrderStore interface {
	// Create saves a new order and its line items, assigning the order ID.
	// The order is persisted in whatever status it carries (PENDING for
	// orders entering the payment saga).
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order with its line items.
	// Returns ErrOrderNotFound if the order does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Order, error)

	// ListByUser retrieves all orders belonging to a user, newest first.
	ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error)

	// UpdateStatus conditionally moves an order to the given status. The
	// update applies only if the row still exists and the transition is
	// legal under domain.CanTransition.
	// Returns ErrOrderNotFound if no row with the ID exists and
	// ErrUpdateConflict if the row exists but the guard rejected the change.
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error
}

// PaymentStore defines the interface for payment persistence.
type PaymentStore interface {
	// Create saves a new payment. The payments table is unique on order_id,
	// making the insert idempotent under event redelivery: if a payment for
	// the order already exists, nothing is written and ErrPaymentExists is
	// returned.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByOrderID retrieves the payment settled against an order.
	// Returns ErrPaymentNotFound if no payment exists for the order.
	GetByOrderID(ctx context.Context, orderID int64) (*domain.Payment, error)
}
