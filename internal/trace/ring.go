package trace

import (
	"fmt"
	"io"
	"sync"
)

// DefaultRingSize is the capacity used when a ring size is not positive.
const DefaultRingSize = 4096

// RingTracer keeps the most recent events in memory.
type RingTracer struct {
	mu    sync.Mutex
	buf   []Event
	total uint64 // events ever emitted
	level Level
}

// NewRingTracer returns a ring holding up to capacity events.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = DefaultRingSize
	}
	return &RingTracer{buf: make([]Event, capacity), level: level}
}

func (r *RingTracer) Emit(ev *Event) {
	r.mu.Lock()
	r.buf[r.total%uint64(len(r.buf))] = *ev
	r.total++
	r.mu.Unlock()
}

// Snapshot returns the stored events, oldest first.
func (r *RingTracer) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	size := uint64(len(r.buf))
	n := min(r.total, size)
	out := make([]Event, 0, n)
	for i := r.total - n; i < r.total; i++ {
		out = append(out, r.buf[i%size])
	}
	return out
}

// Dropped reports how many events were overwritten.
func (r *RingTracer) Dropped() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total - min(r.total, uint64(len(r.buf)))
}

// Dump writes the stored events to w in format.
func (r *RingTracer) Dump(w io.Writer, format Format) error {
	if dropped := r.Dropped(); dropped > 0 {
		if _, err := fmt.Fprintf(w, "(%d earlier events dropped)\n", dropped); err != nil {
			return err
		}
	}
	events := r.Snapshot()
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return nil
}

func (r *RingTracer) Close() error { return nil }

func (r *RingTracer) Level() Level { return r.level }
