package mocks

import (
	"context"
	"sync"
)

// PublishedMessage records one call to Publisher.Publish.
type PublishedMessage struct {
	Topic   string
	Key     string
	Payload []byte
}

// Publisher is a recording events.Publisher.
type Publisher struct {
	mu       sync.Mutex
	messages []PublishedMessage

	// Err, if set, is returned by Publish; failed messages are not recorded.
	Err error
	// FailFirst makes only the first Publish call fail.
	FailFirst bool
	calls     int
}

// NewPublisher creates an empty Publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

func (m *Publisher) Publish(ctx context.Context, topic, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if m.Err != nil {
		if !m.FailFirst || m.calls == 1 {
			return m.Err
		}
	}

	m.messages = append(m.messages, PublishedMessage{Topic: topic, Key: key, Payload: payload})
	return nil
}

// Messages returns a copy of everything published so far.
func (m *Publisher) Messages() []PublishedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PublishedMessage, len(m.messages))
	copy(out, m.messages)
	return out
}

// MessagesFor returns the messages published to one topic.
func (m *Publisher) MessagesFor(topic string) []PublishedMessage {
	var out []PublishedMessage
	for _, msg := range m.Messages() {
		if msg.Topic == topic {
			out = append(out, msg)
		}
	}
	return out
}

// DecisionFetcher is a scripted oracle.DecisionFetcher.
type DecisionFetcher struct {
	// Decision is returned when Err is nil.
	Decision int
	// Err, if set, is returned by FetchDecision.
	Err error
	// Calls counts invocations.
	Calls int
}

func (m *DecisionFetcher) FetchDecision(ctx context.Context) (int, error) {
	m.Calls++
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Decision, nil
}
