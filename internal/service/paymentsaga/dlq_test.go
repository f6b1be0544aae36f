package paymentsaga_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordvik/sagapay/internal/events"
	"github.com/nordvik/sagapay/internal/mocks"
	"github.com/nordvik/sagapay/internal/service/paymentsaga"
)

func TestDLQProducerSend(t *testing.T) {
	publisher := mocks.NewPublisher()
	producer := paymentsaga.NewDLQProducer(publisher, discardLogger())

	original, err := json.Marshal(events.OrderCreatedEvent{
		OrderID:     21,
		UserID:      3,
		TotalAmount: decimal.RequireFromString("10.00"),
		CreatedAt:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	cause := errors.New("decision oracle unavailable")
	require.NoError(t, producer.Send(context.Background(), original, cause))

	dead := publisher.MessagesFor(events.TopicOrderCreatedDLQ)
	require.Len(t, dead, 1)
	assert.Equal(t, "21", dead[0].Key)

	var got events.DeadLetteredEvent
	require.NoError(t, json.Unmarshal(dead[0].Payload, &got))
	assert.Equal(t, int64(21), got.Event.OrderID)
	assert.Equal(t, "decision oracle unavailable", got.Error)
	assert.False(t, got.FailedAt.IsZero())
}

// A fact the consumer cannot even decode must still leave the partition:
// Send carries the raw bytes to the DLQ under an empty key instead of
// erroring, so the runner commits the offset and the consumer moves on.
func TestDLQProducerSendMalformedPayloadShunted(t *testing.T) {
	publisher := mocks.NewPublisher()
	producer := paymentsaga.NewDLQProducer(publisher, discardLogger())

	consumer := paymentsaga.NewConsumer(
		mocks.NewPaymentStore(), &mocks.DecisionFetcher{Decision: 2}, publisher, discardLogger())
	cause := consumer.HandleOrderCreated(context.Background(), []byte(`{not json`))
	require.Error(t, cause)

	require.NoError(t, producer.Send(context.Background(), []byte(`{not json`), cause))

	dead := publisher.MessagesFor(events.TopicOrderCreatedDLQ)
	require.Len(t, dead, 1)
	assert.Empty(t, dead[0].Key)

	var got events.DeadLetteredEvent
	require.NoError(t, json.Unmarshal(dead[0].Payload, &got))
	assert.Equal(t, "{not json", got.RawPayload)
	assert.Zero(t, got.Event.OrderID)
	assert.Equal(t, cause.Error(), got.Error)
	assert.False(t, got.FailedAt.IsZero())
}

func TestDLQProducerSendPublishFailure(t *testing.T) {
	publisher := mocks.NewPublisher()
	publisher.Err = errors.New("broker unavailable")
	producer := paymentsaga.NewDLQProducer(publisher, discardLogger())

	original, err := json.Marshal(events.OrderCreatedEvent{OrderID: 21, UserID: 3})
	require.NoError(t, err)

	err = producer.Send(context.Background(), original, errors.New("boom"))
	assert.Error(t, err)
}
