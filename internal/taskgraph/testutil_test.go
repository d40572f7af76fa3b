package taskgraph

import (
	"bytes"
	"io"
	"log/slog"
	"sync"
)

// discardLogger returns a logger that drops everything, for tests that only
// care about scheduling behavior.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writerSpy is a minimal thread-safe io.Writer for assertions on captured
// diagnostic output.
type writerSpy struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *writerSpy) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func (w *writerSpy) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}
