package outbox_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algomarket/problem-service/internal/pkg/service/judge/model"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/outbox"
)

func TestSQLiteStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db, err := outbox.OpenDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, db.Close())
	})

	store, err := outbox.NewSQLiteStore(ctx, db)
	require.NoError(t, err)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	record := func(id, aggregateID string, age time.Duration) outbox.Record {
		return outbox.Record{
			ID:            id,
			AggregateID:   aggregateID,
			AggregateType: model.AggregateTypeSubmission,
			Payload:       []byte(`{"submissionId":1}`),
			CreatedAt:     now.Add(-age),
		}
	}

	// Insert is deduplicated by the aggregate id
	inserted, err := store.InsertIfAbsent(ctx, record("r1", "1", 2*time.Minute))
	require.NoError(t, err)
	assert.True(t, inserted)
	inserted, err = store.InsertIfAbsent(ctx, record("r1-bis", "1", time.Minute))
	require.NoError(t, err)
	assert.False(t, inserted)

	require.NoError(t, err)
	_, err = store.InsertIfAbsent(ctx, record("r2", "2", 3*time.Minute))
	require.NoError(t, err)
	_, err = store.InsertIfAbsent(ctx, record("r3", "3", time.Second))
	require.NoError(t, err)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	// Stale records are returned oldest first, the fresh one is left alone
	stale, err := store.FindStaleOlderThan(ctx, now.Add(-time.Minute), 100)
	require.NoError(t, err)
	require.Len(t, stale, 2)
	assert.Equal(t, "r2", stale[0].ID)
	assert.Equal(t, "r1", stale[1].ID)

	// The limit caps the batch
	stale, err = store.FindStaleOlderThan(ctx, now.Add(-time.Minute), 1)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, "r2", stale[0].ID)

	// Delete is idempotent
	deleted, err := store.DeleteByAggregateID(ctx, "2")
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = store.DeleteByAggregateID(ctx, "2")
	require.NoError(t, err)
	assert.False(t, deleted)

	count, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
