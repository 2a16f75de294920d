package shell

import (
	"fmt"
	"io"
	"sync"
)

// LogBuffer keeps the last N event lines and echoes each one to a writer.
// It satisfies components.Logger and is safe for concurrent use.
type LogBuffer struct {
	mu    sync.Mutex
	out   io.Writer
	lines []string
	next  int
	full  bool
}

// NewLogBuffer creates a buffer holding up to size lines. A nil out disables echo.
func NewLogBuffer(size int, out io.Writer) *LogBuffer {
	if size < 1 {
		size = 100
	}
	return &LogBuffer{
		out:   out,
		lines: make([]string, size),
	}
}

// Logf records a formatted line and echoes it.
func (b *LogBuffer) Logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.lines[b.next] = msg
	b.next = (b.next + 1) % len(b.lines)
	if b.next == 0 {
		b.full = true
	}
	if b.out != nil {
		fmt.Fprintln(b.out, msg)
	}
}

// Lines returns the buffered lines, oldest first.
func (b *LogBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.full {
		out := make([]string, b.next)
		copy(out, b.lines[:b.next])
		return out
	}
	out := make([]string, 0, len(b.lines))
	out = append(out, b.lines[b.next:]...)
	out = append(out, b.lines[:b.next]...)
	return out
}

// Write writes p to the echo writer without buffering it.
func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.out == nil {
		return len(p), nil
	}
	return b.out.Write(p)
}
