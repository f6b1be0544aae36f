package ordersaga

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nordvik/sagapay/internal/domain"
	"github.com/nordvik/sagapay/internal/events"
	"github.com/nordvik/sagapay/internal/store"
)

// Consumer settles order statuses from payment-created facts.
type Consumer struct {
	orders store.OrderStore
	logger *slog.Logger
}

// NewConsumer creates a Consumer over the order store.
func NewConsumer(orders store.OrderStore, logger *slog.Logger) *Consumer {
	return &Consumer{
		orders: orders,
		logger: logger.With("component", "order_saga_consumer"),
	}
}

// HandlePaymentCreated processes one payment-created fact. A fact for an
// order that no longer exists is logged and discarded without error, so
// late or bogus deliveries are consumed instead of redelivered forever.
// A conditional update that matches zero rows is likewise not fatal on this
// path: a duplicate delivery after the order already settled lands here.
func (c *Consumer) HandlePaymentCreated(ctx context.Context, payload []byte) error {
	var event events.PaymentCreatedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		c.logger.Error("discarding malformed payment created event", "error", err)
		return nil
	}

	log := c.logger.With("order_id", event.OrderID, "payment_id", event.PaymentID)

	if _, err := c.orders.GetByID(ctx, event.OrderID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("payment created event references unknown order, discarding")
			return nil
		}
		return fmt.Errorf("failed to load order %d: %w", event.OrderID, err)
	}

	status := domain.OrderStatusForPayment(event.Status)

	if err := c.orders.UpdateStatus(ctx, event.OrderID, status); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			log.Warn("order vanished before status update, discarding")
			return nil
		case errors.Is(err, store.ErrUpdateConflict):
			log.Warn("order already settled, ignoring duplicate payment event", "status", status)
			return nil
		default:
			return fmt.Errorf("failed to update order %d: %w", event.OrderID, err)
		}
	}

	log.Info("order settled from payment event", "payment_status", event.Status, "order_status", status)
	return nil
}
