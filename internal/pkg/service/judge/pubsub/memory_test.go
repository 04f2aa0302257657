package pubsub_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algomarket/problem-service/internal/pkg/service/judge/pubsub"
)

func TestMemoryBroker(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	broker := pubsub.NewMemoryBroker()

	// No subscriber, the message is lost
	require.NoError(t, broker.Publish(ctx, pubsub.ProgressChannel(1), []byte("lost")))

	var received1, received2 []string
	sub1, err := broker.Subscribe(ctx, pubsub.ProgressChannel(1), func(_ context.Context, payload []byte) {
		received1 = append(received1, string(payload))
	})
	require.NoError(t, err)
	_, err = broker.Subscribe(ctx, pubsub.ProgressChannel(1), func(_ context.Context, payload []byte) {
		received2 = append(received2, string(payload))
	})
	require.NoError(t, err)
	assert.Equal(t, 2, broker.SubscriberCount(pubsub.ProgressChannel(1)))

	// Both subscribers receive the broadcast, other channels do not
	require.NoError(t, broker.Publish(ctx, pubsub.ProgressChannel(1), []byte("one")))
	require.NoError(t, broker.Publish(ctx, pubsub.ProgressChannel(2), []byte("other")))
	assert.Equal(t, []string{"one"}, received1)
	assert.Equal(t, []string{"one"}, received2)

	// Unsubscribe is idempotent and stops the delivery
	sub1.Unsubscribe()
	sub1.Unsubscribe()
	require.NoError(t, broker.Publish(ctx, pubsub.ProgressChannel(1), []byte("two")))
	assert.Equal(t, []string{"one"}, received1)
	assert.Equal(t, []string{"one", "two"}, received2)
	assert.Equal(t, 1, broker.SubscriberCount(pubsub.ProgressChannel(1)))
}
