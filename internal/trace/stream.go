package trace

import (
	"bufio"
	"io"
	"os"
	"sync"
)

// StreamTracer writes each event to a writer as it arrives.
type StreamTracer struct {
	mu     sync.Mutex
	dst    io.Writer
	w      *bufio.Writer
	level  Level
	format Format
	// flushEach keeps interactive streams readable while a run is going.
	flushEach bool
}

// NewStreamTracer returns a tracer writing format lines to w.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	if format == FormatAuto {
		format = FormatText
	}
	return &StreamTracer{
		dst:       w,
		w:         bufio.NewWriter(w),
		level:     level,
		format:    format,
		flushEach: isStdStream(w),
	}
}

func (t *StreamTracer) Emit(ev *Event) {
	data := FormatEvent(ev, t.format)
	t.mu.Lock()
	defer t.mu.Unlock()
	// a broken trace sink must not fail formatting
	_, _ = t.w.Write(data)
	if t.flushEach || ev.Failed {
		_ = t.w.Flush()
	}
}

// Close flushes the buffer and closes the writer unless it is stdout or
// stderr.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.w.Flush(); err != nil {
		return err
	}
	if c, ok := t.dst.(io.Closer); ok && !isStdStream(t.dst) {
		return c.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level { return t.level }

func isStdStream(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (f == os.Stderr || f == os.Stdout)
}
