// Package service contains the application services that sit between the
// HTTP handlers and the stores.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nordvik/sagapay/internal/domain"
	"github.com/nordvik/sagapay/internal/service/ordersaga"
	"github.com/nordvik/sagapay/internal/store"
)

// OrderService coordinates order persistence with the saga producer. Order
// creation is always acknowledged synchronously; the payment outcome becomes
// visible only later, once the saga settles the status.
type OrderService struct {
	orders   store.OrderStore
	payments store.PaymentStore
	producer *ordersaga.Producer
	logger   *slog.Logger
}

// NewOrderService creates an OrderService with the given dependencies.
func NewOrderService(
	orders store.OrderStore,
	payments store.PaymentStore,
	producer *ordersaga.Producer,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		orders:   orders,
		payments: payments,
		producer: producer,
		logger:   logger.With("component", "order_service"),
	}
}

// CreateOrder persists a PENDING order and fires the order-created fact.
// The returned order carries its generated ID. Publish failures do not
// affect the result; the producer logs them.
func (s *OrderService) CreateOrder(ctx context.Context, userID int64, items []domain.OrderItem) (*domain.Order, error) {
	order, err := domain.NewOrder(userID, items)
	if err != nil {
		return nil, err
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.producer.PublishOrderCreated(ctx, order)

	return order, nil
}

// GetOrder retrieves an order by ID.
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// ListOrders retrieves a user's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID int64) ([]*domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// UpdateStatus applies a direct status update outside the saga. Unlike the
// saga consumer, a conditional update that matches nothing here is an error
// the caller must see: store.ErrOrderNotFound or store.ErrUpdateConflict.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	return s.orders.UpdateStatus(ctx, id, status)
}

// GetPaymentForOrder retrieves the payment settled against an order.
func (s *OrderService) GetPaymentForOrder(ctx context.Context, orderID int64) (*domain.Payment, error) {
	return s.payments.GetByOrderID(ctx, orderID)
}
