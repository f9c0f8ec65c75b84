package trace

import (
	"io"
	"sync"
)

// StreamTracer writes each event as it arrives.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{w: w, level: level, format: format}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.Records(ev.Scope) {
		return
	}
	data := t.format.Encode(ev)
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = t.w.Write(data) // trace output never fails a run
}

func (t *StreamTracer) Level() Level { return t.level }

// Close closes the writer when it is an io.Closer.
func (t *StreamTracer) Close() error {
	if c, ok := t.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
