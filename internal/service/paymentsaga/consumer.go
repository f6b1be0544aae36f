// Package paymentsaga implements the payment service's side of the
// choreographed saga: consuming order-created facts, settling a payment
// against the decision oracle, and publishing the payment-created fact.
package paymentsaga

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nordvik/sagapay/internal/domain"
	"github.com/nordvik/sagapay/internal/events"
	"github.com/nordvik/sagapay/internal/platform/oracle"
	"github.com/nordvik/sagapay/internal/store"
)

// Consumer settles payments from order-created facts.
type Consumer struct {
	payments  store.PaymentStore
	decisions oracle.DecisionFetcher
	publisher events.Publisher
	logger    *slog.Logger
}

// NewConsumer creates a Consumer with the given dependencies.
func NewConsumer(
	payments store.PaymentStore,
	decisions oracle.DecisionFetcher,
	publisher events.Publisher,
	logger *slog.Logger,
) *Consumer {
	return &Consumer{
		payments:  payments,
		decisions: decisions,
		publisher: publisher,
		logger:    logger.With("component", "payment_saga_consumer"),
	}
}

// HandleOrderCreated processes one order-created fact:
//
//  1. Ask the decision oracle for an integer; even settles, odd fails.
//  2. Persist a payment with the resulting status and the order's amount.
//  3. Publish the payment-created fact keyed by order ID.
//
// An oracle failure returns the error with nothing persisted or published;
// redelivery retries the whole fact. The payment insert is idempotent on
// order ID, so a redelivered fact that already settled skips straight past
// steps 2 and 3 without a duplicate row or a duplicate publish.
func (c *Consumer) HandleOrderCreated(ctx context.Context, payload []byte) error {
	var event events.OrderCreatedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("malformed order created event: %w", err)
	}

	log := c.logger.With("order_id", event.OrderID, "user_id", event.UserID)

	decision, err := c.decisions.FetchDecision(ctx)
	if err != nil {
		log.Warn("decision oracle unavailable, fact will be retried", "error", err)
		return fmt.Errorf("decision fetch for order %d: %w", event.OrderID, err)
	}

	status := domain.PaymentStatusForDecision(decision)

	payment, err := domain.NewPayment(event.OrderID, event.UserID, status, event.TotalAmount)
	if err != nil {
		return fmt.Errorf("invalid payment for order %d: %w", event.OrderID, err)
	}

	if err := c.payments.Create(ctx, payment); err != nil {
		if errors.Is(err, store.ErrPaymentExists) {
			// Duplicate delivery. The earlier attempt may have died between
			// insert and publish, so re-publish the fact for the stored
			// payment; downstream tolerates duplicates.
			existing, getErr := c.payments.GetByOrderID(ctx, event.OrderID)
			if getErr != nil {
				return fmt.Errorf("failed to load existing payment for order %d: %w", event.OrderID, getErr)
			}
			log.Info("payment already settled for order, re-publishing fact", "payment_id", existing.ID)
			return c.publishPaymentCreated(ctx, existing)
		}
		return fmt.Errorf("failed to persist payment for order %d: %w", event.OrderID, err)
	}

	// A publish failure propagates so the fact stays uncommitted; the
	// idempotent insert makes the redelivery safe.
	if err := c.publishPaymentCreated(ctx, payment); err != nil {
		return err
	}

	log.Info("payment settled", "payment_id", payment.ID, "decision", decision, "status", status)
	return nil
}

func (c *Consumer) publishPaymentCreated(ctx context.Context, payment *domain.Payment) error {
	event := events.PaymentCreatedEvent{
		PaymentID:     payment.ID.String(),
		OrderID:       payment.OrderID,
		UserID:        payment.UserID,
		Status:        string(payment.Status),
		Timestamp:     payment.CreatedAt,
		PaymentAmount: payment.Amount,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal payment created event: %w", err)
	}

	if err := c.publisher.Publish(ctx, events.TopicPaymentCreated, event.Key(), payload); err != nil {
		return fmt.Errorf("failed to publish payment created event for order %d: %w", payment.OrderID, err)
	}

	return nil
}
