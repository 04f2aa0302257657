package progress_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algomarket/problem-service/internal/pkg/service/judge/dependencies"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/model"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/progress"
)

func notificationFor(key model.StreamKey, status model.SubmitStatus) model.ProgressNotification {
	return model.ProgressNotification{
		SubmissionID:    key.SubmissionID,
		Username:        key.Username,
		SubmitStatus:    status,
		ProgressPercent: 50,
		CurrentTest:     5,
		TotalTest:       10,
	}
}

func TestRegistry_GetOrCreate_Reuse(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	d := dependencies.NewMocked(t, ctx)
	registry := d.ProgressRegistry()
	key := model.StreamKey{Username: "alice", SubmissionID: 42}

	stream1, err := registry.GetOrCreate(ctx, key)
	require.NoError(t, err)
	stream2, err := registry.GetOrCreate(ctx, key)
	require.NoError(t, err)
	assert.Same(t, stream1, stream2)
	assert.Equal(t, 1, registry.Len())

	// Only the first call sends the connected event
	event := <-stream1.Events()
	assert.Equal(t, progress.EventConnected, event.Name)
	assert.Empty(t, stream1.Events())

	d.DebugLogger().AssertJSONMessages(t, `
{"level":"info","message":"created stream \"alice:42\""}
{"level":"info","message":"stream \"alice:42\" already exists, reusing it"}
`)
}

func TestRegistry_Push(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	d := dependencies.NewMocked(t, ctx)
	registry := d.ProgressRegistry()
	keyAlice := model.StreamKey{Username: "alice", SubmissionID: 42}
	keyBob := model.StreamKey{Username: "bob", SubmissionID: 7}

	streamAlice, err := registry.GetOrCreate(ctx, keyAlice)
	require.NoError(t, err)
	streamBob, err := registry.GetOrCreate(ctx, keyBob)
	require.NoError(t, err)
	<-streamAlice.Events() // connected
	<-streamBob.Events()   // connected

	// Only the matching stream receives the notification
	registry.Push(ctx, keyAlice, notificationFor(keyAlice, model.StatusJudging))
	event := <-streamAlice.Events()
	assert.Equal(t, progress.EventProgress, event.Name)
	require.NotNil(t, event.Notification)
	assert.Equal(t, int64(42), event.Notification.SubmissionID)
	assert.Empty(t, streamBob.Events())

	// A missing stream is a no-op
	registry.Push(ctx, model.StreamKey{Username: "carol", SubmissionID: 1}, notificationFor(keyAlice, model.StatusJudging))
}

func TestRegistry_Complete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	d := dependencies.NewMocked(t, ctx)
	registry := d.ProgressRegistry()
	key := model.StreamKey{Username: "alice", SubmissionID: 42}

	stream, err := registry.GetOrCreate(ctx, key)
	require.NoError(t, err)
	<-stream.Events() // connected

	registry.Complete(ctx, key, model.StatusAccepted)

	event := <-stream.Events()
	assert.Equal(t, progress.EventCompleted, event.Name)
	assert.Equal(t, model.StatusAccepted, event.FinalStatus)

	select {
	case <-stream.Done():
	case <-time.After(time.Second):
		t.Fatal("the stream is not closed")
	}
	assert.Equal(t, progress.CloseCompleted, stream.Reason())

	// The close watcher removes the stream from the registry
	assert.EventuallyWithT(t, func(c *assert.CollectT) {
		assert.Equal(c, 0, registry.Len())
	}, 5*time.Second, 10*time.Millisecond)
}

func TestRegistry_Push_FullBufferClosesStream(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	d := dependencies.NewMocked(t, ctx)
	registry := d.ProgressRegistry()
	key := model.StreamKey{Username: "alice", SubmissionID: 42}

	stream, err := registry.GetOrCreate(ctx, key)
	require.NoError(t, err)

	// The client reads nothing, the buffer fills up
	for range d.TestConfig().Progress.StreamBufferSize + 1 {
		registry.Push(ctx, key, notificationFor(key, model.StatusJudging))
	}

	select {
	case <-stream.Done():
	case <-time.After(time.Second):
		t.Fatal("the stream is not closed")
	}
	assert.Equal(t, progress.CloseError, stream.Reason())
	d.DebugLogger().AssertJSONMessages(t, `{"level":"error","message":"cannot write to stream \"alice:42\": stream \"alice:42\" buffer is full"}`)
}

func TestRegistry_StreamTimeout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	d := dependencies.NewMocked(t, ctx)
	registry := d.ProgressRegistry()
	key := model.StreamKey{Username: "alice", SubmissionID: 42}

	stream, err := registry.GetOrCreate(ctx, key)
	require.NoError(t, err)

	d.MockedClock().Advance(d.TestConfig().Progress.StreamTimeout)

	select {
	case <-stream.Done():
	case <-time.After(time.Second):
		t.Fatal("the stream is not closed")
	}
	assert.Equal(t, progress.CloseTimeout, stream.Reason())
	assert.EventuallyWithT(t, func(c *assert.CollectT) {
		assert.Equal(c, 0, registry.Len())
	}, 5*time.Second, 10*time.Millisecond)
}
