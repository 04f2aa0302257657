package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebugLogger(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	logger := NewDebugLogger()
	logger.Debug(ctx, "Debug message.")
	logger.Info(ctx, "Info message.")
	logger.Warnf(ctx, "Warn %s.", "message")
	logger.Errorf(ctx, "Error %s.", "message")

	expected := `{"level":"debug","message":"Debug message."}
{"level":"info","message":"Info message."}
{"level":"warn","message":"Warn message."}
{"level":"error","message":"Error message."}
`
	assert.Equal(t, expected, logger.AllMessages())
	assert.Equal(t, `{"level":"warn","message":"Warn message."}
{"level":"error","message":"Error message."}
`, logger.WarnAndErrorMessages())

	logger.Truncate()
	assert.Equal(t, "", logger.AllMessages())
}

func TestLogger_WithComponent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	logger := NewDebugLogger()
	sub := logger.WithComponent("outbox").WithComponent("sweeper")
	sub.Info(ctx, "started")

	assert.Equal(t, `{"level":"info","message":"started","component":"outbox.sweeper"}
`, logger.AllMessages())
}

func TestLogger_With(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	logger := NewDebugLogger()
	logger.With("submissionId", 42).Info(ctx, "dispatched")

	assert.Equal(t, `{"level":"info","message":"dispatched","submissionId":42}
`, logger.AllMessages())
}
