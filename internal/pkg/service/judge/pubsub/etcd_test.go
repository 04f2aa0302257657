package pubsub_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algomarket/problem-service/internal/pkg/log"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/pubsub"
	"github.com/algomarket/problem-service/internal/pkg/utils/etcdhelper"
)

func TestEtcdBroker(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	client := etcdhelper.ClientForTest(t)
	broker := pubsub.NewEtcdBroker(log.NewDebugLogger(), client)

	lock := sync.Mutex{}
	var received []string
	sub, err := broker.Subscribe(ctx, pubsub.ProgressChannel(1), func(_ context.Context, payload []byte) {
		lock.Lock()
		defer lock.Unlock()
		received = append(received, string(payload))
	})
	require.NoError(t, err)

	require.NoError(t, broker.Publish(ctx, pubsub.ProgressChannel(1), []byte("one")))
	require.NoError(t, broker.Publish(ctx, pubsub.ProgressChannel(2), []byte("other channel")))
	require.NoError(t, broker.Publish(ctx, pubsub.ProgressChannel(1), []byte("two")))

	// Messages of the subscribed channel arrive in the publish order
	assert.EventuallyWithT(t, func(c *assert.CollectT) {
		lock.Lock()
		defer lock.Unlock()
		assert.Equal(c, []string{"one", "two"}, received)
	}, 5*time.Second, 10*time.Millisecond)

	// No delivery after unsubscribe
	sub.Unsubscribe()
	require.NoError(t, broker.Publish(ctx, pubsub.ProgressChannel(1), []byte("three")))
	assert.Never(t, func() bool {
		lock.Lock()
		defer lock.Unlock()
		return len(received) > 2
	}, 500*time.Millisecond, 50*time.Millisecond)
}
