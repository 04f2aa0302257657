// Package log provides the project logger backed by the zap library.
//
// The Logger interface is intentionally narrow, components receive it
// via dependencies and scope their output with WithComponent.
package log

import (
	"context"
	"io"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
)

type Logger interface {
	// Debug logs the message in the debug level.
	Debug(ctx context.Context, message string)
	// Info logs the message in the info level.
	Info(ctx context.Context, message string)
	// Warn logs the message in the warning level.
	Warn(ctx context.Context, message string)
	// Error logs the message in the error level.
	Error(ctx context.Context, message string)

	// Debugf logs the formatted message in the debug level.
	Debugf(ctx context.Context, template string, args ...any)
	// Infof logs the formatted message in the info level.
	Infof(ctx context.Context, template string, args ...any)
	// Warnf logs the formatted message in the warning level.
	Warnf(ctx context.Context, template string, args ...any)
	// Errorf logs the formatted message in the error level.
	Errorf(ctx context.Context, template string, args ...any)

	// With returns a logger with the key/value pairs attached to all messages.
	With(args ...any) Logger
	// WithComponent returns a logger with the component name attached, nested calls are joined by a dot.
	WithComponent(component string) Logger

	Sync() error
}

// DebugLogger captures messages, so tests can assert them.
type DebugLogger interface {
	Logger
	ConnectTo(writer io.Writer)
	Truncate()
	AllMessages() string
	DebugMessages() string
	InfoMessages() string
	WarnMessages() string
	ErrorMessages() string
	WarnAndErrorMessages() string
	// CompareJSONMessages checks that expected json messages appear in the log in the same order.
	CompareJSONMessages(expected string) error
	// AssertJSONMessages checks that expected json messages appear in the log in the same order.
	AssertJSONMessages(t assert.TestingT, expected string, msgAndArgs ...any) bool
}
