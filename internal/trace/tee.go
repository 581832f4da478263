package trace

import "go.uber.org/multierr"

// Tee sends every event to several tracers.
type Tee struct {
	level Level
	sinks []Tracer
}

// NewTee returns a tracer at level writing to sinks.
func NewTee(level Level, sinks ...Tracer) *Tee {
	return &Tee{level: level, sinks: sinks}
}

func (t *Tee) Emit(ev *Event) {
	for _, s := range t.sinks {
		cp := *ev
		s.Emit(&cp)
	}
}

// Close closes every sink and returns all their errors.
func (t *Tee) Close() error {
	var err error
	for _, s := range t.sinks {
		err = multierr.Append(err, s.Close())
	}
	return err
}

func (t *Tee) Level() Level { return t.level }
