package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLoggerDefaultConfig(t *testing.T) {
	logger := NewLogger(nil)
	assert.NotNil(t, logger)
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelWarn, Output: &buf})

	logger.Debug("should not appear")
	logger.Info("also should not appear")
	assert.Empty(t, buf.String())

	logger.Warn("this appears")
	assert.Contains(t, buf.String(), "this appears")
}

func TestLoggerKeyValueArgs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelDebug, Output: &buf})

	logger.Info("dispatching syscall", "num", 3, "thread_id", 7)
	output := buf.String()
	assert.Contains(t, output, "num=3")
	assert.Contains(t, output, "thread_id=7")
}

func TestLoggerWithThread(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelDebug, Output: &buf})

	threadLogger := logger.WithThread(42)
	threadLogger.Info("yielded")
	assert.Contains(t, buf.String(), "thread_id=42")
}

func TestLoggerWithSyscall(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelDebug, Output: &buf})

	sysLogger := logger.WithThread(1).WithSyscall(4)
	sysLogger.Debug("thread_start")

	output := buf.String()
	assert.Contains(t, output, "thread_id=1")
	assert.Contains(t, output, "syscall=4")
}

func TestGlobalLoggerFunctions(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(NewLogger(&Config{Level: LevelDebug, Output: &buf}))
	t.Cleanup(func() { SetDefault(NewLogger(nil)) })

	Debug("debug message", "key", "value")
	assert.Contains(t, buf.String(), "debug message")
	assert.Contains(t, buf.String(), "key=value")

	buf.Reset()
	Info("info message")
	assert.Contains(t, buf.String(), "info message")

	buf.Reset()
	Warn("warning message")
	assert.Contains(t, buf.String(), "warning message")

	buf.Reset()
	Error("error message")
	assert.Contains(t, buf.String(), "error message")
}
