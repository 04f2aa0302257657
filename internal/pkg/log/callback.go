package log

import (
	"go.uber.org/zap/zapcore"
)

type callbackCore struct {
	fn     func(entry zapcore.Entry, fields []zapcore.Field)
	fields []zapcore.Field
}

// NewCallbackCore creates a zap core that forwards each log entry to the callback.
// It is used to bridge logs from third-party zap based libraries to the Logger.
func NewCallbackCore(fn func(entry zapcore.Entry, fields []zapcore.Field)) zapcore.Core {
	return &callbackCore{fn: fn}
}

func (c *callbackCore) Enabled(zapcore.Level) bool {
	return true
}

func (c *callbackCore) With(fields []zapcore.Field) zapcore.Core {
	clone := &callbackCore{fn: c.fn}
	clone.fields = append(clone.fields, c.fields...)
	clone.fields = append(clone.fields, fields...)
	return clone
}

func (c *callbackCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	return checked.AddCore(entry, c)
}

func (c *callbackCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	all := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	all = append(all, c.fields...)
	all = append(all, fields...)
	c.fn(entry, all)
	return nil
}

func (c *callbackCore) Sync() error {
	return nil
}
