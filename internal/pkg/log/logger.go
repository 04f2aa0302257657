package log

import (
	"context"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const componentKey = "component"

// zapLogger is the default implementation of the Logger interface.
// The component name is tracked separately from the zap fields,
// so nested WithComponent calls replace the field instead of duplicating it.
type zapLogger struct {
	base      *zap.SugaredLogger // all With fields, without the component field
	sugar     *zap.SugaredLogger // base + the component field, used for output
	component string
}

// NewServiceLogger creates a logger with the JSON output format, used by service binaries.
func NewServiceLogger(writer io.Writer, level zapcore.Level) Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.MessageKey = "message"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(writer),
		level,
	)
	return loggerFromZap(zap.New(core))
}

// NewNopLogger drops all messages.
func NewNopLogger() Logger {
	return loggerFromZap(zap.NewNop())
}

func loggerFromZap(l *zap.Logger) *zapLogger {
	sugar := l.Sugar()
	return &zapLogger{base: sugar, sugar: sugar}
}

func (l *zapLogger) Debug(_ context.Context, message string) { l.sugar.Debug(message) }
func (l *zapLogger) Info(_ context.Context, message string)  { l.sugar.Info(message) }
func (l *zapLogger) Warn(_ context.Context, message string)  { l.sugar.Warn(message) }
func (l *zapLogger) Error(_ context.Context, message string) { l.sugar.Error(message) }

func (l *zapLogger) Debugf(_ context.Context, template string, args ...any) {
	l.sugar.Debugf(template, args...)
}

func (l *zapLogger) Infof(_ context.Context, template string, args ...any) {
	l.sugar.Infof(template, args...)
}

func (l *zapLogger) Warnf(_ context.Context, template string, args ...any) {
	l.sugar.Warnf(template, args...)
}

func (l *zapLogger) Errorf(_ context.Context, template string, args ...any) {
	l.sugar.Errorf(template, args...)
}

func (l *zapLogger) With(args ...any) Logger {
	return newClone(l.base.With(args...), l.component)
}

func (l *zapLogger) WithComponent(component string) Logger {
	if l.component != "" {
		component = l.component + "." + component
	}
	return newClone(l.base, component)
}

func newClone(base *zap.SugaredLogger, component string) *zapLogger {
	out := &zapLogger{base: base, sugar: base, component: component}
	if component != "" {
		out.sugar = base.With(componentKey, component)
	}
	return out
}

func (l *zapLogger) Sync() error {
	return l.sugar.Sync()
}
