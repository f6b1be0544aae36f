package ordersaga_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordvik/sagapay/internal/domain"
	"github.com/nordvik/sagapay/internal/events"
	"github.com/nordvik/sagapay/internal/mocks"
	"github.com/nordvik/sagapay/internal/service/ordersaga"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pendingOrder(id, userID int64, total string) *domain.Order {
	return &domain.Order{
		ID:        id,
		UserID:    userID,
		Status:    domain.OrderStatusPending,
		Total:     decimal.RequireFromString(total),
		CreatedAt: time.Now().UTC(),
	}
}

func TestPublishOrderCreated(t *testing.T) {
	publisher := mocks.NewPublisher()
	producer := ordersaga.NewProducer(publisher, discardLogger())

	producer.PublishOrderCreated(context.Background(), pendingOrder(5, 2, "30.50"))

	published := publisher.MessagesFor(events.TopicOrderCreated)
	require.Len(t, published, 1)
	assert.Equal(t, "5", published[0].Key)

	var event events.OrderCreatedEvent
	require.NoError(t, json.Unmarshal(published[0].Payload, &event))
	assert.Equal(t, int64(5), event.OrderID)
	assert.Equal(t, int64(2), event.UserID)
	assert.True(t, decimal.RequireFromString("30.50").Equal(event.TotalAmount))
}

func TestPublishOrderCreatedFailureSwallowed(t *testing.T) {
	publisher := mocks.NewPublisher()
	publisher.Err = errors.New("broker unavailable")
	producer := ordersaga.NewProducer(publisher, discardLogger())

	// Must not panic or surface the error; the order stays committed.
	producer.PublishOrderCreated(context.Background(), pendingOrder(5, 2, "30.50"))

	assert.Empty(t, publisher.Messages())
}
