package worker_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordvik/sagapay/internal/platform/kafka"
	"github.com/nordvik/sagapay/internal/worker"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scriptedSubscriber delivers the configured messages to the handler and
// then blocks until the context ends, like a real consumer would.
type scriptedSubscriber struct {
	mu       sync.Mutex
	messages map[string][]kafka.Message
	started  chan string
}

func newScriptedSubscriber() *scriptedSubscriber {
	return &scriptedSubscriber{
		messages: make(map[string][]kafka.Message),
		started:  make(chan string, 8),
	}
}

func (s *scriptedSubscriber) deliver(topic string, msgs ...kafka.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[topic] = append(s.messages[topic], msgs...)
}

func (s *scriptedSubscriber) Subscribe(ctx context.Context, topic, groupID string, handler kafka.Handler) error {
	s.started <- topic

	s.mu.Lock()
	msgs := s.messages[topic]
	s.mu.Unlock()

	for _, msg := range msgs {
		// Retry on error like the broker's redelivery loop, but give up on
		// context cancellation.
		for {
			if err := handler(ctx, msg); err == nil {
				break
			}
			if ctx.Err() != nil {
				return nil
			}
		}
	}

	<-ctx.Done()
	return nil
}

func TestRunnerDeliversToHandler(t *testing.T) {
	sub := newScriptedSubscriber()
	sub.deliver("order-events", kafka.Message{Topic: "order-events", Key: "1", Value: []byte(`a`)})

	var mu sync.Mutex
	var got [][]byte
	done := make(chan struct{})

	runner := worker.NewRunner(sub, discardLogger())
	runner.Add(worker.Subscription{
		Topic:   "order-events",
		GroupID: "payment-service",
		Handler: func(ctx context.Context, payload []byte) error {
			mu.Lock()
			got = append(got, payload)
			mu.Unlock()
			close(done)
			return nil
		},
	})

	runner.Start(context.Background())
	defer runner.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler was not invoked")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.Equal(t, []byte(`a`), got[0])
}

func TestRunnerRetriesThenSucceeds(t *testing.T) {
	sub := newScriptedSubscriber()
	sub.deliver("order-events", kafka.Message{Key: "1", Value: []byte(`a`)})

	var mu sync.Mutex
	attempts := 0
	done := make(chan struct{})

	runner := worker.NewRunner(sub, discardLogger())
	runner.SetRetryInterval(time.Millisecond)
	runner.Add(worker.Subscription{
		Topic:       "order-events",
		GroupID:     "payment-service",
		MaxAttempts: 3,
		Handler: func(ctx context.Context, payload []byte) error {
			mu.Lock()
			defer mu.Unlock()
			attempts++
			if attempts < 3 {
				return errors.New("transient")
			}
			close(done)
			return nil
		},
	})

	runner.Start(context.Background())
	defer runner.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler never succeeded")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, attempts)
}

func TestRunnerDeadLettersAfterBudget(t *testing.T) {
	sub := newScriptedSubscriber()
	sub.deliver("order-events", kafka.Message{Key: "1", Value: []byte(`poison`)})

	var mu sync.Mutex
	attempts := 0
	var deadPayload []byte
	var deadCause error
	done := make(chan struct{})

	runner := worker.NewRunner(sub, discardLogger())
	runner.SetRetryInterval(time.Millisecond)
	runner.Add(worker.Subscription{
		Topic:       "order-events",
		GroupID:     "payment-service",
		MaxAttempts: 3,
		Handler: func(ctx context.Context, payload []byte) error {
			mu.Lock()
			attempts++
			mu.Unlock()
			return errors.New("permanent")
		},
		DeadLetter: func(ctx context.Context, payload []byte, cause error) error {
			mu.Lock()
			deadPayload = payload
			deadCause = cause
			mu.Unlock()
			close(done)
			return nil
		},
	})

	runner.Start(context.Background())
	defer runner.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("message was never dead-lettered")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, attempts, "budget is total attempts, not retries")
	assert.Equal(t, []byte(`poison`), deadPayload)
	assert.EqualError(t, deadCause, "permanent")
}

func TestRunnerWithoutDeadLetterDropsPoisonMessage(t *testing.T) {
	sub := newScriptedSubscriber()
	sub.deliver("order-events",
		kafka.Message{Key: "1", Value: []byte(`poison`)},
		kafka.Message{Key: "2", Value: []byte(`fine`)},
	)

	var mu sync.Mutex
	var handled [][]byte
	done := make(chan struct{})

	runner := worker.NewRunner(sub, discardLogger())
	runner.SetRetryInterval(time.Millisecond)
	runner.Add(worker.Subscription{
		Topic:       "order-events",
		GroupID:     "payment-service",
		MaxAttempts: 2,
		Handler: func(ctx context.Context, payload []byte) error {
			if string(payload) == "poison" {
				return errors.New("permanent")
			}
			mu.Lock()
			handled = append(handled, payload)
			mu.Unlock()
			close(done)
			return nil
		},
	})

	runner.Start(context.Background())
	defer runner.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer got stuck on the poison message")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, handled, 1)
	assert.Equal(t, []byte(`fine`), handled[0])
}

func TestRunnerStopCancelsSubscriptions(t *testing.T) {
	sub := newScriptedSubscriber()

	runner := worker.NewRunner(sub, discardLogger())
	runner.Add(worker.Subscription{
		Topic:   "order-events",
		GroupID: "payment-service",
		Handler: func(ctx context.Context, payload []byte) error { return nil },
	})
	runner.Add(worker.Subscription{
		Topic:   "payment-events",
		GroupID: "order-service",
		Handler: func(ctx context.Context, payload []byte) error { return nil },
	})

	runner.Start(context.Background())

	started := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case topic := <-sub.started:
			started[topic] = true
		case <-time.After(2 * time.Second):
			t.Fatal("subscriptions did not start")
		}
	}
	assert.True(t, started["order-events"])
	assert.True(t, started["payment-events"])

	stopped := make(chan struct{})
	go func() {
		runner.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not drain the consumers")
	}
}
