// Package worker runs the saga consumers. A Runner owns one goroutine per
// subscription, wraps each handler with a bounded retry budget, and shunts
// messages that exhaust the budget to a dead-letter hook before committing
// them.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/nordvik/sagapay/internal/platform/kafka"
)

const (
	defaultMaxAttempts   = 3
	defaultRetryInterval = 500 * time.Millisecond
)

// Subscriber is the broker surface the Runner consumes through.
type Subscriber interface {
	Subscribe(ctx context.Context, topic, groupID string, handler kafka.Handler) error
}

// HandlerFunc processes one message payload.
type HandlerFunc func(ctx context.Context, payload []byte) error

// DeadLetterFunc receives the payload and the error that exhausted its
// retry budget. Returning an error keeps the message uncommitted.
type DeadLetterFunc func(ctx context.Context, payload []byte, cause error) error

// Subscription binds a handler to a topic and consumer group.
type Subscription struct {
	Topic   string
	GroupID string
	Handler HandlerFunc

	// MaxAttempts bounds handler invocations per delivery. Zero means the
	// runner default.
	MaxAttempts int

	// DeadLetter, if set, is invoked once MaxAttempts is exhausted. When it
	// succeeds (or is nil) the message is committed and dropped.
	DeadLetter DeadLetterFunc
}

// Runner manages the consumer goroutines.
type Runner struct {
	subscriber    Subscriber
	logger        *slog.Logger
	retryInterval time.Duration

	subs   []Subscription
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRunner creates a Runner over the given subscriber.
func NewRunner(subscriber Subscriber, logger *slog.Logger) *Runner {
	return &Runner{
		subscriber:    subscriber,
		logger:        logger.With("component", "consumer_runner"),
		retryInterval: defaultRetryInterval,
	}
}

// SetRetryInterval overrides the base pause between handler attempts.
// Must be called before Start.
func (r *Runner) SetRetryInterval(d time.Duration) {
	r.retryInterval = d
}

// Add registers a subscription. Must be called before Start.
func (r *Runner) Add(sub Subscription) {
	if sub.MaxAttempts <= 0 {
		sub.MaxAttempts = defaultMaxAttempts
	}
	r.subs = append(r.subs, sub)
}

// Start launches one consumer goroutine per subscription. It returns
// immediately; consumers run until Stop or parent context cancellation.
func (r *Runner) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)

	for _, sub := range r.subs {
		r.wg.Add(1)
		go func(sub Subscription) {
			defer r.wg.Done()
			log := r.logger.With("topic", sub.Topic, "group_id", sub.GroupID)
			if err := r.subscriber.Subscribe(ctx, sub.Topic, sub.GroupID, r.wrap(sub)); err != nil {
				log.Error("subscription terminated", "error", err)
				return
			}
			log.Info("subscription closed")
		}(sub)
	}
}

// Stop cancels all consumers and waits for them to drain.
func (r *Runner) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

// wrap turns a Subscription into a broker handler that retries the inner
// handler with exponential backoff up to MaxAttempts, then dead-letters.
// It returns nil after a successful dead-letter so the offset commits and
// the poisoned message stops circulating.
func (r *Runner) wrap(sub Subscription) kafka.Handler {
	return func(ctx context.Context, msg kafka.Message) error {
		op := func() error {
			return sub.Handler(ctx, msg.Value)
		}

		expBackoff := backoff.NewExponentialBackOff()
		expBackoff.InitialInterval = r.retryInterval

		err := backoff.Retry(op, backoff.WithContext(
			backoff.WithMaxRetries(expBackoff, uint64(sub.MaxAttempts-1)), ctx))
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		log := r.logger.With("topic", sub.Topic, "key", msg.Key)

		if sub.DeadLetter == nil {
			log.Error("handler exhausted retries, dropping message", "error", err)
			return nil
		}

		if dlqErr := sub.DeadLetter(ctx, msg.Value, err); dlqErr != nil {
			log.Error("dead-letter failed, message stays uncommitted", "error", dlqErr)
			return fmt.Errorf("dead-letter after %d attempts: %w", sub.MaxAttempts, dlqErr)
		}

		log.Warn("message dead-lettered after exhausting retries",
			"attempts", sub.MaxAttempts, "error", err)
		return nil
	}
}
