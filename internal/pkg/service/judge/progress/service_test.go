package progress_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algomarket/problem-service/internal/pkg/encoding/json"
	svcerrors "github.com/algomarket/problem-service/internal/pkg/service/common/errors"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/dependencies"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/model"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/progress"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/pubsub"
)

func saveSubmission(t *testing.T, d dependencies.Mocked, username string, status model.SubmitStatus) model.Submission {
	t.Helper()
	submission := model.Submission{
		ProblemID:    1,
		ProblemTitle: "Two Sum",
		Username:     username,
		SourceCode:   "print(42)",
		Language:     model.LanguagePython,
		SubmitStatus: status,
	}
	require.NoError(t, d.SubmissionRepository().Save(context.Background(), &submission))
	return submission
}

func TestService_SubscribeSubmissionProgress_Validation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	d := dependencies.NewMocked(t, ctx)
	service := progress.NewService(d)

	// Unknown submission
	_, err := service.SubscribeSubmissionProgress(ctx, "alice", 999)
	if assert.Error(t, err) {
		assert.Equal(t, 404, svcerrors.HTTPCodeFrom(err))
	}

	// Submission of another user must not leak
	submission := saveSubmission(t, d, "bob", model.StatusJudging)
	_, err = service.SubscribeSubmissionProgress(ctx, "alice", submission.ID)
	if assert.Error(t, err) {
		assert.Equal(t, 404, svcerrors.HTTPCodeFrom(err))
	}

	// Finished grading has no progress to stream
	finished := saveSubmission(t, d, "alice", model.StatusAccepted)
	_, err = service.SubscribeSubmissionProgress(ctx, "alice", finished.ID)
	if assert.Error(t, err) {
		assert.Equal(t, 409, svcerrors.HTTPCodeFrom(err))
	}
}

func TestService_ProgressFlow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	d := dependencies.NewMocked(t, ctx)
	service := progress.NewService(d)
	submission := saveSubmission(t, d, "alice", model.StatusJudging)

	stream, err := service.SubscribeSubmissionProgress(ctx, "alice", submission.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, d.ProgressBridge().SubscriptionsCount())

	event := <-stream.Events()
	assert.Equal(t, progress.EventConnected, event.Name)

	// An intermediate update flows from the broadcast channel to the stream
	key := model.StreamKey{Username: "alice", SubmissionID: submission.ID}
	channel := pubsub.ProgressChannel(submission.ID)
	update := notificationFor(key, model.StatusJudging)
	require.NoError(t, d.MockedPubSubBroker().Publish(ctx, channel, json.MustEncode(update, false)))

	event = <-stream.Events()
	assert.Equal(t, progress.EventProgress, event.Name)
	require.NotNil(t, event.Notification)
	assert.Equal(t, 50, event.Notification.ProgressPercent)

	// The terminal notification completes and tears everything down
	final := notificationFor(key, model.StatusAccepted)
	require.NoError(t, d.MockedPubSubBroker().Publish(ctx, channel, json.MustEncode(final, false)))

	event = <-stream.Events()
	assert.Equal(t, progress.EventProgress, event.Name)
	event = <-stream.Events()
	assert.Equal(t, progress.EventCompleted, event.Name)
	assert.Equal(t, model.StatusAccepted, event.FinalStatus)

	select {
	case <-stream.Done():
	case <-time.After(time.Second):
		t.Fatal("the stream is not closed")
	}
	assert.Equal(t, progress.CloseCompleted, stream.Reason())
	assert.Equal(t, 0, d.ProgressBridge().SubscriptionsCount())
	assert.EventuallyWithT(t, func(c *assert.CollectT) {
		assert.Equal(c, 0, d.ProgressRegistry().Len())
	}, 5*time.Second, 10*time.Millisecond)
}

func TestService_ResubscribeAfterReconnect(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	d := dependencies.NewMocked(t, ctx)
	service := progress.NewService(d)
	submission := saveSubmission(t, d, "alice", model.StatusJudging)

	stream1, err := service.SubscribeSubmissionProgress(ctx, "alice", submission.ID)
	require.NoError(t, err)

	// A parallel subscription of the same client shares the stream
	stream2, err := service.SubscribeSubmissionProgress(ctx, "alice", submission.ID)
	require.NoError(t, err)
	assert.Same(t, stream1, stream2)

	// After the client disconnect a new subscription gets a fresh stream
	stream1.Close(progress.CloseByClient)
	assert.EventuallyWithT(t, func(c *assert.CollectT) {
		assert.Equal(c, 0, d.ProgressRegistry().Len())
	}, 5*time.Second, 10*time.Millisecond)

	stream3, err := service.SubscribeSubmissionProgress(ctx, "alice", submission.ID)
	require.NoError(t, err)
	assert.NotSame(t, stream1, stream3)
}
