package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nordvik/sagapay/internal/domain"
	"github.com/nordvik/sagapay/internal/store"
)

// PaymentStore implements the store.PaymentStore interface using a
// PostgreSQL database as the storage backend.
type PaymentStore struct {
	db *sql.DB
}

// NewPaymentStore creates a new PostgreSQL implementation of the
// store.PaymentStore interface.
func NewPaymentStore(db *sql.DB) *PaymentStore {
	return &PaymentStore{db: db}
}

// Ensure PaymentStore implements store.PaymentStore
var _ store.PaymentStore = (*PaymentStore)(nil)

// Create implements store.PaymentStore.Create. The insert is idempotent on
// order_id: a redelivered order-created fact finds the existing row and gets
// ErrPaymentExists instead of writing a duplicate.
func (s *PaymentStore) Create(ctx context.Context, payment *domain.Payment) error {
	const query = `
		INSERT INTO payments (id, order_id, user_id, status, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (order_id) DO NOTHING`

	result, err := s.db.ExecContext(ctx, query,
		payment.ID, payment.OrderID, payment.UserID, payment.Status, payment.Amount, payment.CreatedAt)
	if err != nil {
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w %d", store.ErrPaymentExists, payment.OrderID)
	}

	return nil
}

// GetByOrderID implements store.PaymentStore.GetByOrderID
func (s *PaymentStore) GetByOrderID(ctx context.Context, orderID int64) (*domain.Payment, error) {
	const query = `
		SELECT id, order_id, user_id, status, amount, created_at
		FROM payments
		WHERE order_id = $1`

	var payment domain.Payment
	err := s.db.QueryRowContext(ctx, query, orderID).Scan(
		&payment.ID, &payment.OrderID, &payment.UserID, &payment.Status, &payment.Amount, &payment.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrPaymentNotFound
		}
		return nil, MapError(err)
	}

	return &payment, nil
}
