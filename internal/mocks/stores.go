// Package mocks provides hand-written test doubles for the store, bus and
// oracle interfaces. They record calls and return scripted results; tests
// configure behavior through the public fields.
package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/nordvik/sagapay/internal/domain"
	"github.com/nordvik/sagapay/internal/store"
)

// OrderStore is an in-memory store.OrderStore.
type OrderStore struct {
	mu     sync.Mutex
	nextID int64
	orders map[int64]*domain.Order

	// CreateErr, if set, is returned by Create.
	CreateErr error
	// UpdateErr, if set, is returned by UpdateStatus.
	UpdateErr error
	// StatusUpdates records every applied transition.
	StatusUpdates []domain.OrderStatus
}

// NewOrderStore creates an empty OrderStore.
func NewOrderStore() *OrderStore {
	return &OrderStore{orders: make(map[int64]*domain.Order)}
}

// Seed inserts an order directly, bypassing error hooks.
func (m *OrderStore) Seed(order *domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if order.ID == 0 {
		m.nextID++
		order.ID = m.nextID
	} else if order.ID > m.nextID {
		m.nextID = order.ID
	}
	m.orders[order.ID] = order
}

func (m *OrderStore) Create(ctx context.Context, order *domain.Order) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Seed(order)
	return nil
}

func (m *OrderStore) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, store.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (m *OrderStore) ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var orders []*domain.Order
	for _, order := range m.orders {
		if order.UserID == userID {
			copied := *order
			orders = append(orders, &copied)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

func (m *OrderStore) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return store.ErrOrderNotFound
	}
	if !domain.CanTransition(order.Status, status) {
		return store.ErrUpdateConflict
	}
	order.Status = status
	m.StatusUpdates = append(m.StatusUpdates, status)
	return nil
}

// PaymentStore is an in-memory store.PaymentStore with the same
// idempotency guarantee as the real one: unique on order ID.
type PaymentStore struct {
	mu       sync.Mutex
	payments map[int64]*domain.Payment

	// CreateErr, if set, is returned by Create before any write.
	CreateErr error
	// CreateCalls counts Create invocations, including rejected duplicates.
	CreateCalls int
}

// NewPaymentStore creates an empty PaymentStore.
func NewPaymentStore() *PaymentStore {
	return &PaymentStore{payments: make(map[int64]*domain.Payment)}
}

func (m *PaymentStore) Create(ctx context.Context, payment *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if _, exists := m.payments[payment.OrderID]; exists {
		return store.ErrPaymentExists
	}
	copied := *payment
	m.payments[payment.OrderID] = &copied
	return nil
}

func (m *PaymentStore) GetByOrderID(ctx context.Context, orderID int64) (*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[orderID]
	if !ok {
		return nil, store.ErrPaymentNotFound
	}
	copied := *payment
	return &copied, nil
}

// Count returns the number of stored payments.
func (m *PaymentStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.payments)
}
