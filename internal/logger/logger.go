// Package logger provides a small leveled logging interface for greengrid
// components. Packages log through Logger so they are not coupled to where
// the output goes: stderr for the web server, a file (or nowhere) while the
// terminal dashboard owns the screen, a buffer in tests.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"
)

// DebugEnv enables debug output when set to any non-empty value.
const DebugEnv = "GREENGRID_DEBUG"

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// verbose forces debug output regardless of the environment (--verbose).
var verbose atomic.Bool

// SetVerbose turns debug output on or off for every writer logger.
func SetVerbose(v bool) {
	verbose.Store(v)
}

// DebugEnabled reports whether debug messages are printed.
func DebugEnabled() bool {
	return verbose.Load() || os.Getenv(DebugEnv) != ""
}

// writerLogger writes prefixed lines through a standard library *log.Logger.
type writerLogger struct {
	prefix string
	out    *log.Logger
}

// New creates a logger writing to w. The prefix is prepended to every
// message (e.g. "[web]" or "[session]").
func New(w io.Writer, prefix string) Logger {
	return &writerLogger{
		prefix: prefix,
		out:    log.New(w, "", log.LstdFlags),
	}
}

// NewStderr creates a logger writing to stderr.
func NewStderr(prefix string) Logger {
	return New(os.Stderr, prefix)
}

func (l *writerLogger) printf(level, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if level != "" {
		msg = level + ": " + msg
	}
	if l.prefix != "" {
		msg = l.prefix + " " + msg
	}
	l.out.Print(msg)
}

func (l *writerLogger) Debug(format string, args ...interface{}) {
	if DebugEnabled() {
		l.printf("DEBUG", format, args...)
	}
}

func (l *writerLogger) Info(format string, args ...interface{}) {
	l.printf("", format, args...)
}

func (l *writerLogger) Warn(format string, args ...interface{}) {
	l.printf("WARN", format, args...)
}

func (l *writerLogger) Error(format string, args ...interface{}) {
	l.printf("ERROR", format, args...)
}

// noopLogger implements Logger but discards all messages.
type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return noopLogger{}
}

func (noopLogger) Debug(format string, args ...interface{}) {}
func (noopLogger) Info(format string, args ...interface{})  {}
func (noopLogger) Warn(format string, args ...interface{})  {}
func (noopLogger) Error(format string, args ...interface{}) {}

// LogMessage represents a captured log message.
type LogMessage struct {
	Level   string
	Message string
}

// BufferLogger captures log messages for test assertions. It is safe for
// concurrent use since the web server logs from several goroutines.
type BufferLogger struct {
	mu       sync.Mutex
	Messages []LogMessage
}

// NewBufferLogger creates a logger that captures messages for inspection.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{
		Messages: make([]LogMessage, 0),
	}
}

func (l *BufferLogger) add(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = append(l.Messages, LogMessage{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Debug(format string, args ...interface{}) { l.add("debug", format, args...) }
func (l *BufferLogger) Info(format string, args ...interface{})  { l.add("info", format, args...) }
func (l *BufferLogger) Warn(format string, args ...interface{})  { l.add("warn", format, args...) }
func (l *BufferLogger) Error(format string, args ...interface{}) { l.add("error", format, args...) }

// HasLevel returns true if any message was logged at the given level.
func (l *BufferLogger) HasLevel(level string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.Messages {
		if m.Level == level {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the captured messages.
func (l *BufferLogger) Snapshot() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogMessage, len(l.Messages))
	copy(out, l.Messages)
	return out
}

// Clear removes all captured messages.
func (l *BufferLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = l.Messages[:0]
}

// defaultLogger is the package-level default logger.
var defaultLogger = NewStderr("")

// Default returns the default logger for the package.
func Default() Logger {
	return defaultLogger
}

// SetDefault sets the default logger for the package.
func SetDefault(l Logger) {
	defaultLogger = l
}
