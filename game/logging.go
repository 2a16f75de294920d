package game

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// WriterLogger writes event lines to an io.Writer, one per line.
type WriterLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterLogger creates a logger writing to w, or stdout when w is nil.
func NewWriterLogger(w io.Writer) *WriterLogger {
	if w == nil {
		w = os.Stdout
	}
	return &WriterLogger{w: w}
}

// Logf writes a formatted log message.
func (l *WriterLogger) Logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	fmt.Fprintln(l.w, msg)
	l.mu.Unlock()
}

// SlogLogger forwards event lines to a structured logger at info level.
type SlogLogger struct {
	l *slog.Logger
}

// NewSlogLogger wraps l, or slog.Default() when l is nil.
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogLogger{l: l.With("source", "sim")}
}

// Logf logs the formatted message. Blank separator lines are dropped.
func (l *SlogLogger) Logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if msg == "" {
		return
	}
	l.l.Info(msg)
}
