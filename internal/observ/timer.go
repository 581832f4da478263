// Package observ measures the wall time of the stages of a run.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Timer records named stages in the order they finish. A nil *Timer is
// valid and records nothing, so callers need no --timings checks.
type Timer struct {
	mu     sync.Mutex
	now    func() time.Time
	stages []PhaseReport
}

func NewTimer() *Timer { return &Timer{now: time.Now} }

// Start opens a stage. Calling the returned func closes it with an optional
// note; later calls are ignored.
func (t *Timer) Start(name string) (stop func(note string)) {
	if t == nil {
		return func(string) {}
	}
	began := t.now()
	var once sync.Once
	return func(note string) {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			t.stages = append(t.stages, PhaseReport{Name: name, DurationMS: millis(t.now().Sub(began)), Note: note})
		})
	}
}

// Reset forgets every recorded stage.
func (t *Timer) Reset() {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.stages = nil
	t.mu.Unlock()
}

// PhaseReport is one finished stage.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report is the JSON form of a Timer.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	var r Report
	for _, s := range t.stages {
		r.TotalMS += s.DurationMS
	}
	if len(t.stages) > 0 {
		r.Phases = append([]PhaseReport(nil), t.stages...)
	}
	return r
}

// Summary renders the report as an aligned table for stderr.
func (t *Timer) Summary() string {
	r := t.Report()
	var b strings.Builder
	b.WriteString("timings:\n")
	row := func(name string, ms float64, note string) {
		fmt.Fprintf(&b, "  %-10s %8.2f ms", name, ms)
		if note != "" {
			b.WriteString("  // " + note)
		}
		b.WriteByte('\n')
	}
	for _, p := range r.Phases {
		row(p.Name, p.DurationMS, p.Note)
	}
	row("total", r.TotalMS, "")
	return b.String()
}

func millis(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }
