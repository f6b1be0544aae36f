package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordvik/sagapay/internal/domain"
	"github.com/nordvik/sagapay/internal/events"
	"github.com/nordvik/sagapay/internal/mocks"
	"github.com/nordvik/sagapay/internal/service"
	"github.com/nordvik/sagapay/internal/service/ordersaga"
	"github.com/nordvik/sagapay/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newOrderService() (*service.OrderService, *mocks.OrderStore, *mocks.PaymentStore, *mocks.Publisher) {
	orders := mocks.NewOrderStore()
	payments := mocks.NewPaymentStore()
	publisher := mocks.NewPublisher()
	logger := discardLogger()
	producer := ordersaga.NewProducer(publisher, logger)
	return service.NewOrderService(orders, payments, producer, logger), orders, payments, publisher
}

func testItems() []domain.OrderItem {
	return []domain.OrderItem{
		{SKU: "SKU-1", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
		{SKU: "SKU-2", Quantity: 1, UnitPrice: decimal.RequireFromString("5.25")},
	}
}

func TestCreateOrderPersistsAndPublishes(t *testing.T) {
	svc, orders, _, publisher := newOrderService()

	order, err := svc.CreateOrder(context.Background(), 7, testItems())
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.NotZero(t, order.ID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.True(t, decimal.RequireFromString("25.25").Equal(order.Total))

	stored, err := orders.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, stored.Status)

	assert.Len(t, publisher.MessagesFor(events.TopicOrderCreated), 1)
}

func TestCreateOrderPublishFailureStillSucceeds(t *testing.T) {
	svc, orders, _, publisher := newOrderService()
	publisher.Err = errors.New("broker unavailable")

	order, err := svc.CreateOrder(context.Background(), 7, testItems())
	require.NoError(t, err)

	_, err = orders.GetByID(context.Background(), order.ID)
	assert.NoError(t, err, "order must stay committed when the publish fails")
}

func TestCreateOrderInvalidItems(t *testing.T) {
	svc, _, _, publisher := newOrderService()

	_, err := svc.CreateOrder(context.Background(), 7, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmptyOrderItems)
	assert.Empty(t, publisher.Messages())
}

func TestCreateOrderStoreFailure(t *testing.T) {
	svc, orders, _, publisher := newOrderService()
	orders.CreateErr = errors.New("connection reset")

	_, err := svc.CreateOrder(context.Background(), 7, testItems())
	require.Error(t, err)
	assert.Empty(t, publisher.Messages(), "nothing published for an uncommitted order")
}

func TestGetOrderNotFound(t *testing.T) {
	svc, _, _, _ := newOrderService()

	_, err := svc.GetOrder(context.Background(), 404)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateStatusSurfacesConflict(t *testing.T) {
	svc, orders, _, _ := newOrderService()
	orders.Seed(&domain.Order{ID: 5, UserID: 7, Status: domain.OrderStatusConfirmed})

	// A settled order cannot fall back into a saga outcome.
	err := svc.UpdateStatus(context.Background(), 5, domain.OrderStatusPaymentFailed)
	assert.ErrorIs(t, err, store.ErrUpdateConflict)

	err = svc.UpdateStatus(context.Background(), 5, domain.OrderStatusProcessing)
	assert.NoError(t, err)
}

func TestUpdateStatusNotFound(t *testing.T) {
	svc, _, _, _ := newOrderService()

	err := svc.UpdateStatus(context.Background(), 404, domain.OrderStatusProcessing)
	assert.ErrorIs(t, err, store.ErrOrderNotFound)
}

func TestGetPaymentForOrder(t *testing.T) {
	svc, _, payments, _ := newOrderService()

	payment, err := domain.NewPayment(5, 7, domain.PaymentStatusSuccess, decimal.RequireFromString("25.25"))
	require.NoError(t, err)
	require.NoError(t, payments.Create(context.Background(), payment))

	got, err := svc.GetPaymentForOrder(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, payment.ID, got.ID)

	_, err = svc.GetPaymentForOrder(context.Background(), 6)
	assert.ErrorIs(t, err, store.ErrPaymentNotFound)
}
