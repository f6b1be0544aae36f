// Package ordersaga implements the order service's side of the choreographed
// payment saga: publishing the order-created fact after an order commits,
// and settling the order status when the payment-created fact arrives.
package ordersaga

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nordvik/sagapay/internal/domain"
	"github.com/nordvik/sagapay/internal/events"
)

// Producer publishes order-created facts.
type Producer struct {
	publisher events.Publisher
	logger    *slog.Logger
}

// NewProducer creates a Producer for the order-events topic.
func NewProducer(publisher events.Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		publisher: publisher,
		logger:    logger.With("component", "order_saga_producer"),
	}
}

// PublishOrderCreated publishes the fact for a freshly committed order,
// keyed by order ID. The publish is fire-and-forget: a failure is logged
// and swallowed, never rolled back into the already-committed order. The
// lost fact is an accepted eventual-consistency gap.
func (p *Producer) PublishOrderCreated(ctx context.Context, order *domain.Order) {
	event := events.OrderCreatedEvent{
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.Total,
		CreatedAt:   order.CreatedAt,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to marshal order created event", "order_id", order.ID, "error", err)
		return
	}

	if err := p.publisher.Publish(ctx, events.TopicOrderCreated, event.Key(), payload); err != nil {
		p.logger.Error("failed to publish order created event, order will not enter the payment saga",
			"order_id", order.ID, "error", err)
		return
	}

	p.logger.Info("order created event published", "order_id", order.ID)
}
