package trace

import (
	"sync/atomic"
	"time"
)

var (
	seq     atomic.Uint64
	spanIDs atomic.Uint64
)

// Span is an open operation. The zero Span, and the span returned for a
// nil or disabled tracer, records nothing.
type Span struct {
	t      Tracer
	id     uint64
	parent uint64
	scope  Scope
	name   string
	start  time.Time
	extra  map[string]string
	// quiet spans are below the tracer level and only surface on Fail.
	quiet bool
}

// Begin opens a span of scope under parent (0 for a root span).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || t.Level() == LevelOff {
		return &Span{}
	}
	s := &Span{
		t:      t,
		id:     spanIDs.Add(1),
		parent: parent,
		scope:  scope,
		name:   name,
		start:  time.Now(),
		quiet:  !t.Level().Covers(scope),
	}
	if !s.quiet {
		t.Emit(s.event(KindSpanBegin, s.start))
	}
	return s
}

// ID returns the span ID, 0 when the span records nothing.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// WithExtra attaches a key-value pair to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.t == nil {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// End closes the span with detail and returns its duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.t == nil {
		return 0
	}
	now := time.Now()
	if !s.quiet {
		ev := s.event(KindSpanEnd, now)
		ev.Detail = detail
		s.t.Emit(ev)
	}
	return now.Sub(s.start)
}

// Fail closes the span as failed. The end event is emitted whatever the
// scope of the span.
func (s *Span) Fail(err error) time.Duration {
	if s == nil || s.t == nil {
		return 0
	}
	if err != nil {
		s.WithExtra("error", err.Error())
	}
	now := time.Now()
	ev := s.event(KindSpanEnd, now)
	ev.Detail = "error"
	ev.Failed = true
	s.t.Emit(ev)
	return now.Sub(s.start)
}

func (s *Span) event(kind Kind, at time.Time) *Event {
	return &Event{
		Time:     at,
		Seq:      seq.Add(1),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Extra:    s.extra,
	}
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name string, parent uint64, detail string) {
	if t == nil || !t.Level().Covers(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      seq.Add(1),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		Name:     name,
		Detail:   detail,
	})
}
