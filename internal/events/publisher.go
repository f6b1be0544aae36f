package events

import "context"

// Publisher defines the interface saga components use to publish facts to
// the event bus without direct knowledge of the broker client.
type Publisher interface {
	// Publish writes a single keyed record to the topic.
	Publish(ctx context.Context, topic, key string, payload []byte) error
}
