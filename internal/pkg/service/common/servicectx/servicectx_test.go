package servicectx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/algomarket/problem-service/internal/pkg/log"
	"github.com/algomarket/problem-service/internal/pkg/utils/errors"
)

func TestProcess_ShutdownOrder(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	logger := log.NewDebugLogger()
	proc, err := New(ctx, cancel, logger, WithUniqueID("<id>"))
	assert.NoError(t, err)

	// Operations run in parallel, the sleep makes the completion order stable.
	proc.Add(func(ctx context.Context, errCh chan<- error) {
		<-ctx.Done()
		time.Sleep(100 * time.Millisecond)
		logger.Info(ctx, "end1")
	})
	proc.Add(func(ctx context.Context, errCh chan<- error) {
		errCh <- errors.New("operation failed")
	})

	proc.OnShutdown(func(ctx context.Context) {
		logger.Info(ctx, "onShutdown1")
	})
	proc.OnShutdown(func(ctx context.Context) {
		logger.Info(ctx, "onShutdown2")
	})

	proc.WaitForShutdown()

	expected := `{"level":"info","message":"process unique id \"<id>\""}
{"level":"info","message":"exiting (operation failed)"}
{"level":"info","message":"onShutdown2"}
{"level":"info","message":"onShutdown1"}
{"level":"info","message":"end1"}
{"level":"info","message":"exited"}
`
	assert.Equal(t, expected, logger.AllMessages())
}

func TestProcess_UniqueID(t *testing.T) {
	t.Parallel()

	proc := NewForTest(t)
	assert.NotEmpty(t, proc.UniqueID())
}
