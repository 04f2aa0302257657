package queue_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algomarket/problem-service/internal/pkg/log"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/queue"
	"github.com/algomarket/problem-service/internal/pkg/utils/etcdhelper"
)

func TestEtcdPublisher_Send_Deduplication(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	client := etcdhelper.ClientForTest(t)
	logger := log.NewDebugLogger()
	publisher := queue.NewEtcdPublisher(logger, client)

	require.NoError(t, publisher.Send(ctx, "submission-request-queue", []byte(`{"submissionId":1}`), "alice", "1"))
	require.NoError(t, publisher.Send(ctx, "submission-request-queue", []byte(`{"submissionId":2}`), "alice", "2"))

	// A repeated send of the same deduplication key is dropped
	require.NoError(t, publisher.Send(ctx, "submission-request-queue", []byte(`{"submissionId":1,"changed":true}`), "alice", "1"))

	keys, err := etcdhelper.AllKeys(ctx, client)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"queue/submission-request-queue/alice/1",
		"queue/submission-request-queue/alice/2",
	}, keys)

	// The original payload wins
	resp, err := client.Get(ctx, "queue/submission-request-queue/alice/1")
	require.NoError(t, err)
	require.Len(t, resp.Kvs, 1)
	assert.Equal(t, `{"submissionId":1}`, string(resp.Kvs[0].Value))
	logger.AssertJSONMessages(t, `{"level":"debug","message":"message \"queue/submission-request-queue/alice/1\" is already in the queue, skipped"}`)
}
