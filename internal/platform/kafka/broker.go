// Package kafka provides the event-bus client used by the order and payment
// sagas, built on github.com/segmentio/kafka-go. Producers publish keyed
// records; consumers subscribe by topic and consumer group with at-least-once
// delivery.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Message is the unit handed to subscription handlers.
type Message struct {
	Topic string
	Key   string
	Value []byte
}

// Handler processes a single message. Returning an error leaves the message
// uncommitted; the broker redelivers it to the handler after a delay.
type Handler func(ctx context.Context, msg Message) error

// Broker is a process-wide Kafka client safe for use by concurrent workers.
// Writers are created lazily per topic and cached.
type Broker struct {
	brokers      []string
	balancer     kafkago.Balancer
	batchTimeout time.Duration
	retryDelay   time.Duration
	logger       *slog.Logger

	mu      sync.RWMutex
	writers map[string]*kafkago.Writer
}

// Option configures a Broker.
type Option func(*Broker)

// WithBalancer sets the message balancer (partitioner).
func WithBalancer(balancer kafkago.Balancer) Option {
	return func(b *Broker) {
		b.balancer = balancer
	}
}

// WithBatchTimeout sets the batch timeout for writers.
func WithBatchTimeout(d time.Duration) Option {
	return func(b *Broker) {
		b.batchTimeout = d
	}
}

// WithRetryDelay sets the pause between redeliveries of a failed message.
func WithRetryDelay(d time.Duration) Option {
	return func(b *Broker) {
		b.retryDelay = d
	}
}

// New creates a Broker for the given broker addresses. The default balancer
// hashes the message key, so records sharing a key land on one partition and
// keep their relative order.
func New(brokers []string, logger *slog.Logger, opts ...Option) *Broker {
	b := &Broker{
		brokers:      brokers,
		balancer:     &kafkago.Hash{},
		batchTimeout: 10 * time.Millisecond,
		retryDelay:   time.Second,
		logger:       logger.With("component", "kafka_broker"),
		writers:      make(map[string]*kafkago.Writer),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Publish writes a single keyed record to the topic.
func (b *Broker) Publish(ctx context.Context, topic, key string, payload []byte) error {
	writer := b.getWriter(topic)

	err := writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(key),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("kafka: failed to write to topic %s: %w", topic, err)
	}

	return nil
}

// Subscribe consumes the topic under the given consumer group until the
// context is canceled. Each message is handed to the handler; on handler
// error the offset is not committed and the same message is retried after
// the configured delay. The handler (or a retry-governing wrapper around it)
// decides when to give up by returning nil.
func (b *Broker) Subscribe(ctx context.Context, topic, groupID string, handler Handler) error {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: b.brokers,
		Topic:   topic,
		GroupID: groupID,
	})
	defer func() {
		if err := reader.Close(); err != nil {
			b.logger.Error("failed to close reader", "topic", topic, "error", err)
		}
	}()

	log := b.logger.With("topic", topic, "group_id", groupID)
	log.Info("consumer started")

	return b.consume(ctx, log, reader, handler)
}

// messageReader is the slice of kafkago.Reader the consume loop needs.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

func (b *Broker) consume(ctx context.Context, log *slog.Logger, reader messageReader, handler Handler) error {
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				log.Info("consumer shutting down")
				return nil
			}
			log.Error("failed to fetch message", "error", err)
			// Pause before refetching so a broken connection does not
			// spin the loop hot.
			select {
			case <-ctx.Done():
				log.Info("consumer shutting down")
				return nil
			case <-time.After(b.retryDelay):
			}
			continue
		}

		if err := b.handleWithRedelivery(ctx, log, handler, Message{
			Topic: msg.Topic,
			Key:   string(msg.Key),
			Value: msg.Value,
		}); err != nil {
			// Only context cancellation escapes the redelivery loop.
			log.Info("consumer shutting down")
			return nil
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Error("failed to commit message", "partition", msg.Partition, "offset", msg.Offset, "error", err)
		}
	}
}

// handleWithRedelivery invokes the handler until it succeeds or the context
// ends. Between attempts it waits retryDelay so a struggling collaborator
// is not hammered.
func (b *Broker) handleWithRedelivery(ctx context.Context, log *slog.Logger, handler Handler, msg Message) error {
	for {
		err := handler(ctx, msg)
		if err == nil {
			return nil
		}

		log.Warn("handler failed, message will be redelivered", "key", msg.Key, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.retryDelay):
		}
	}
}

// Ping dials the first broker to verify the cluster is reachable. Used at
// startup before consumers come up.
func (b *Broker) Ping(ctx context.Context) error {
	if len(b.brokers) == 0 {
		return errors.New("kafka: no brokers configured")
	}

	conn, err := kafkago.DialContext(ctx, "tcp", b.brokers[0])
	if err != nil {
		return fmt.Errorf("kafka: failed to dial broker %s: %w", b.brokers[0], err)
	}

	return conn.Close()
}

// Close closes all cached writers.
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	for topic, w := range b.writers {
		if err := w.Close(); err != nil {
			errs = append(errs, fmt.Errorf("kafka: failed to close writer for %s: %w", topic, err))
		}
		delete(b.writers, topic)
	}

	return errors.Join(errs...)
}

// getWriter returns or creates the writer for the given topic.
func (b *Broker) getWriter(topic string) *kafkago.Writer {
	b.mu.RLock()
	if w, ok := b.writers[topic]; ok {
		b.mu.RUnlock()
		return w
	}
	b.mu.RUnlock()

	b.mu.Lock()
	defer b.mu.Unlock()

	// Double-check after acquiring write lock
	if w, ok := b.writers[topic]; ok {
		return w
	}

	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(b.brokers...),
		Topic:                  topic,
		Balancer:               b.balancer,
		BatchTimeout:           b.batchTimeout,
		AllowAutoTopicCreation: true,
	}
	b.writers[topic] = w

	return w
}
