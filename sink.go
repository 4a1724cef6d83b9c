package peek

import (
	"io"
	"os"
	"sync"
)

// sinkState guards the process-wide default output streams. A Config that
// carries its own Sink or TraceWriter bypasses this entirely; everything
// else shares these handles. Redirection takes effect on the next write.
type sinkState struct {
	mu    sync.RWMutex
	sink  io.Writer
	trace io.Writer
}

var defaultStreams = &sinkState{
	sink:  os.Stderr,
	trace: os.Stderr,
}

// SetDefaultSink redirects the process-wide directive output stream.
// Passing nil restores standard error.
func SetDefaultSink(w io.Writer) {
	defaultStreams.mu.Lock()
	defer defaultStreams.mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	defaultStreams.sink = w
}

// DefaultSink returns the current process-wide directive output stream.
func DefaultSink() io.Writer {
	defaultStreams.mu.RLock()
	defer defaultStreams.mu.RUnlock()
	return defaultStreams.sink
}

// SetDefaultTraceWriter redirects the process-wide trace echo stream.
// Passing nil restores standard error.
func SetDefaultTraceWriter(w io.Writer) {
	defaultStreams.mu.Lock()
	defer defaultStreams.mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	defaultStreams.trace = w
}

// DefaultTraceWriter returns the current process-wide trace echo stream.
func DefaultTraceWriter() io.Writer {
	defaultStreams.mu.RLock()
	defer defaultStreams.mu.RUnlock()
	return defaultStreams.trace
}
