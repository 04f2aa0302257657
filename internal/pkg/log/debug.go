package log

import (
	"bufio"
	"io"
	"strings"
	"sync"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewDebugLogger returns a logger that stores all messages in memory, used in tests.
func NewDebugLogger() DebugLogger {
	buf := &safeBuffer{}
	encoderCfg := zapcore.EncoderConfig{
		MessageKey:     "message",
		LevelKey:       "level",
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(buf),
		DebugLevel,
	)
	return &debugLogger{zapLogger: loggerFromZap(zap.New(core)), buf: buf}
}

type debugLogger struct {
	*zapLogger
	buf *safeBuffer
}

type safeBuffer struct {
	lock    sync.Mutex
	data    strings.Builder
	writers []io.Writer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	for _, w := range b.writers {
		_, _ = w.Write(p)
	}
	return b.data.Write(p)
}

func (b *safeBuffer) String() string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.data.String()
}

func (b *safeBuffer) Reset() {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.data.Reset()
}

func (b *safeBuffer) connect(w io.Writer) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.writers = append(b.writers, w)
}

func (l *debugLogger) With(args ...any) Logger {
	return &debugLogger{zapLogger: l.zapLogger.With(args...).(*zapLogger), buf: l.buf}
}

func (l *debugLogger) WithComponent(component string) Logger {
	return &debugLogger{zapLogger: l.zapLogger.WithComponent(component).(*zapLogger), buf: l.buf}
}

func (l *debugLogger) ConnectTo(writer io.Writer) {
	l.buf.connect(writer)
}

func (l *debugLogger) Truncate() {
	l.buf.Reset()
}

func (l *debugLogger) AllMessages() string {
	return l.buf.String()
}

func (l *debugLogger) DebugMessages() string {
	return l.messages(`"debug"`)
}

func (l *debugLogger) InfoMessages() string {
	return l.messages(`"info"`)
}

func (l *debugLogger) WarnMessages() string {
	return l.messages(`"warn"`)
}

func (l *debugLogger) ErrorMessages() string {
	return l.messages(`"error"`)
}

func (l *debugLogger) WarnAndErrorMessages() string {
	return l.messages(`"warn"`, `"error"`)
}

func (l *debugLogger) CompareJSONMessages(expected string) error {
	return CompareJSONMessages(expected, l.AllMessages())
}

func (l *debugLogger) AssertJSONMessages(t assert.TestingT, expected string, msgAndArgs ...any) bool {
	return AssertJSONMessages(t, expected, l.AllMessages(), msgAndArgs...)
}

func (l *debugLogger) messages(levels ...string) string {
	var out strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(l.buf.String()))
	for scanner.Scan() {
		line := scanner.Text()
		for _, level := range levels {
			if strings.Contains(line, `"level":`+level) {
				out.WriteString(line)
				out.WriteString("\n")
				break
			}
		}
	}
	return out.String()
}
