package progress_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algomarket/problem-service/internal/pkg/encoding/json"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/dependencies"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/model"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/pubsub"
)

func TestBridge_Subscribe_Idempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	d := dependencies.NewMocked(t, ctx)
	bridge := d.ProgressBridge()
	broker := d.MockedPubSubBroker()

	require.NoError(t, bridge.Subscribe(ctx, 42))
	require.NoError(t, bridge.Subscribe(ctx, 42))

	// One channel subscription, no matter how many clients asked
	assert.Equal(t, 1, bridge.SubscriptionsCount())
	assert.Equal(t, 1, broker.SubscriberCount(pubsub.ProgressChannel(42)))

	bridge.Unsubscribe(ctx, 42)
	assert.Equal(t, 0, bridge.SubscriptionsCount())
	assert.Equal(t, 0, broker.SubscriberCount(pubsub.ProgressChannel(42)))

	// A missing subscription is a no-op
	bridge.Unsubscribe(ctx, 42)
}

func TestBridge_RoutesNotifications(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	d := dependencies.NewMocked(t, ctx)
	bridge := d.ProgressBridge()

	var routed []model.ProgressNotification
	d.ProgressRouter().Subscribe(func(_ context.Context, notification model.ProgressNotification) {
		routed = append(routed, notification)
	})

	require.NoError(t, bridge.Subscribe(ctx, 42))

	notification := notificationFor(model.StreamKey{Username: "alice", SubmissionID: 42}, model.StatusJudging)
	payload := json.MustEncode(notification, false)
	require.NoError(t, d.MockedPubSubBroker().Publish(ctx, pubsub.ProgressChannel(42), payload))

	require.Len(t, routed, 1)
	assert.Equal(t, int64(42), routed[0].SubmissionID)
	assert.Equal(t, model.StatusJudging, routed[0].SubmitStatus)
}

func TestBridge_DropsMalformedPayloads(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	d := dependencies.NewMocked(t, ctx)
	bridge := d.ProgressBridge()

	routedCount := 0
	d.ProgressRouter().Subscribe(func(_ context.Context, _ model.ProgressNotification) {
		routedCount++
	})

	require.NoError(t, bridge.Subscribe(ctx, 42))
	channel := pubsub.ProgressChannel(42)

	// Not a json document
	require.NoError(t, d.MockedPubSubBroker().Publish(ctx, channel, []byte("not a json")))
	// Parsable, but not a valid notification
	require.NoError(t, d.MockedPubSubBroker().Publish(ctx, channel, []byte(`{"submissionId":0}`)))
	require.NoError(t, d.MockedPubSubBroker().Publish(ctx, channel, []byte(`{"submissionId":42,"submitStatus":"NO_SUCH_STATUS"}`)))

	assert.Equal(t, 0, routedCount)
	assert.Equal(t, 1, bridge.SubscriptionsCount(), "a bad payload must not break the subscription")
	d.DebugLogger().AssertJSONMessages(t, `
{"level":"error","message":"cannot parse progress notification:%A"}
{"level":"warn","message":"dropped invalid progress notification: {\"submissionId\":0}"}
{"level":"warn","message":"dropped invalid progress notification: {\"submissionId\":42,\"submitStatus\":\"NO_SUCH_STATUS\"}"}
`)
}

func TestBridge_InactivityExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	d := dependencies.NewMocked(t, ctx)
	bridge := d.ProgressBridge()
	clock := d.MockedClock()
	timeout := d.TestConfig().Progress.InactivityTimeout

	require.NoError(t, bridge.Subscribe(ctx, 42))

	// Traffic within the window postpones the expiry
	clock.Advance(timeout - time.Minute)
	notification := notificationFor(model.StreamKey{Username: "alice", SubmissionID: 42}, model.StatusJudging)
	require.NoError(t, d.MockedPubSubBroker().Publish(ctx, pubsub.ProgressChannel(42), json.MustEncode(notification, false)))

	clock.Advance(timeout - time.Minute)
	assert.Equal(t, 1, bridge.SubscriptionsCount())

	// Silence for the whole window expires the subscription
	clock.Advance(2 * time.Minute)
	assert.EventuallyWithT(t, func(c *assert.CollectT) {
		assert.Equal(c, 0, bridge.SubscriptionsCount())
	}, 5*time.Second, 10*time.Millisecond)
	d.DebugLogger().AssertJSONMessages(t, `
{"level":"info","message":"subscription of submission \"42\" expired due to inactivity"}
{"level":"info","message":"unsubscribed from channel \"progress:42\""}
`)
}
