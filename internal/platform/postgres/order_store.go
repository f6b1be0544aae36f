package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nordvik/sagapay/internal/domain"
	"github.com/nordvik/sagapay/internal/store"
)

// OrderStore implements the store.OrderStore interface using a PostgreSQL
// database as the storage backend.
type OrderStore struct {
	db *sql.DB
}

// NewOrderStore creates a new PostgreSQL implementation of the
// store.OrderStore interface.
func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

// Ensure OrderStore implements store.OrderStore
var _ store.OrderStore = (*OrderStore)(nil)

// Create implements store.OrderStore.Create. The order and its line items
// are written in a single transaction; the generated ID is set on the order.
func (s *OrderStore) Create(ctx context.Context, order *domain.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return MapError(err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const insertOrder = `
		INSERT INTO orders (user_id, status, total, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err = tx.QueryRowContext(ctx, insertOrder,
		order.UserID, order.Status, order.Total, order.CreatedAt,
	).Scan(&order.ID)
	if err != nil {
		return MapError(err)
	}

	const insertItem = `
		INSERT INTO order_items (order_id, sku, quantity, unit_price)
		VALUES ($1, $2, $3, $4)`

	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx, insertItem,
			order.ID, item.SKU, item.Quantity, item.UnitPrice); err != nil {
			return MapError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return MapError(err)
	}

	return nil
}

// GetByID implements store.OrderStore.GetByID
func (s *OrderStore) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	const query = `
		SELECT id, user_id, status, total, created_at
		FROM orders
		WHERE id = $1`

	var order domain.Order
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.UserID, &order.Status, &order.Total, &order.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrOrderNotFound
		}
		return nil, MapError(err)
	}

	items, err := s.loadItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

// ListByUser implements store.OrderStore.ListByUser
func (s *OrderStore) ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	const query = `
		SELECT id, user_id, status, total, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var orders []*domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.UserID, &order.Status, &order.Total, &order.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		orders = append(orders, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	for _, order := range orders {
		items, err := s.loadItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}

	return orders, nil
}

// UpdateStatus implements store.OrderStore.UpdateStatus. The transition
// guard runs inside the UPDATE itself so concurrent saga and manual updates
// cannot interleave between read and write.
func (s *OrderStore) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	const query = `
		UPDATE orders
		SET status = $2
		WHERE id = $1
		  AND status <> $2
		  AND $2 <> 'PENDING'
		  AND (status = 'PENDING' AND $2 IN ('CONFIRMED', 'PAYMENT_FAILED')
		       OR status <> 'PENDING' AND $2 IN ('PROCESSING', 'SHIPPED', 'DELIVERED', 'REFUNDED'))`

	result, err := s.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		// Distinguish a vanished order from a rejected transition.
		var exists bool
		if err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
			return MapError(err)
		}
		if !exists {
			return store.ErrOrderNotFound
		}
		return fmt.Errorf("%w: order %d cannot move to %s", store.ErrUpdateConflict, id, status)
	}

	return nil
}

func (s *OrderStore) loadItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	const query = `
		SELECT sku, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.SKU, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, MapError(err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
