package paymentsaga

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nordvik/sagapay/internal/events"
)

// DLQProducer shunts unprocessable order-created facts to the dead-letter
// topic for manual inspection. It is invoked by the retry-governing consumer
// runner once a fact's retry budget is exhausted, never by the payment
// consumer itself. Nothing replays the DLQ automatically.
type DLQProducer struct {
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewDLQProducer creates a DLQProducer for the order-events DLQ topic.
func NewDLQProducer(publisher events.Publisher, logger *slog.Logger) *DLQProducer {
	return &DLQProducer{
		publisher: publisher,
		logger:    logger.With("component", "dlq_producer"),
		now:       time.Now,
	}
}

// Send publishes the original fact together with the error that exhausted
// its retries, keyed by order ID. A payload that does not decode is shunted
// anyway, carrying the raw bytes under an empty key: refusing it would leave
// the poison message uncommitted and wedge the partition.
func (p *DLQProducer) Send(ctx context.Context, payload []byte, cause error) error {
	dead := events.DeadLetteredEvent{
		Error:    cause.Error(),
		FailedAt: p.now().UTC(),
	}

	key := ""
	if err := json.Unmarshal(payload, &dead.Event); err != nil {
		dead.Event = events.OrderCreatedEvent{}
		dead.RawPayload = string(payload)
	} else {
		key = dead.Key()
	}

	body, err := json.Marshal(dead)
	if err != nil {
		return fmt.Errorf("failed to marshal dead-lettered event: %w", err)
	}

	if err := p.publisher.Publish(ctx, events.TopicOrderCreatedDLQ, key, body); err != nil {
		return fmt.Errorf("failed to publish to DLQ: %w", err)
	}

	p.logger.Error("order created event dead-lettered",
		"order_id", dead.Event.OrderID,
		"malformed", dead.RawPayload != "",
		"cause", cause.Error())

	return nil
}
