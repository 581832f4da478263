package trace

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Tracer is a sink for trace events. Emit must be safe for concurrent use.
// Filtering by level happens before Emit is called.
type Tracer interface {
	Emit(ev *Event)
	// Close flushes buffered events and releases the sink.
	Close() error
	Level() Level
}

type nopTracer struct{}

func (nopTracer) Emit(*Event)  {}
func (nopTracer) Close() error { return nil }
func (nopTracer) Level() Level { return LevelOff }

// Nop discards everything.
var Nop Tracer = nopTracer{}

// StorageMode selects the sinks New builds.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // write events as they happen
	ModeRing                          // keep the last events in memory
	ModeBoth                          // stream and ring
	ModeLog                           // forward to a zap logger
)

var modeNames = map[StorageMode]string{
	ModeStream: "stream",
	ModeRing:   "ring",
	ModeBoth:   "both",
	ModeLog:    "log",
}

func (m StorageMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseMode converts a mode name to a StorageMode.
func ParseMode(s string) (StorageMode, error) {
	for m, name := range modeNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return ModeStream, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both|log)", s)
}

// Config describes the tracer built by New.
type Config struct {
	Level  Level
	Mode   StorageMode
	Format Format // FormatAuto picks NDJSON for .ndjson and .jsonl paths
	// Output takes precedence over OutputPath; "-" or "" means stderr.
	Output     io.Writer
	OutputPath string
	RingSize   int
	// Logger is required by ModeLog.
	Logger *zap.Logger
}

// New builds the tracer described by cfg. LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	format := cfg.Format.resolve(cfg.OutputPath)

	switch cfg.Mode {
	case ModeStream, ModeBoth:
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		stream := NewStreamTracer(w, cfg.Level, format)
		if cfg.Mode == ModeStream {
			return stream, nil
		}
		return NewTee(cfg.Level, stream, NewRingTracer(cfg.RingSize, cfg.Level)), nil
	case ModeRing:
		return NewRingTracer(cfg.RingSize, cfg.Level), nil
	case ModeLog:
		if cfg.Logger == nil {
			return nil, fmt.Errorf("trace: log mode requires a logger")
		}
		return NewZapTracer(cfg.Logger, cfg.Level), nil
	}
	return nil, fmt.Errorf("trace: unknown storage mode %v", cfg.Mode)
}

func openOutput(cfg Config) (io.Writer, error) {
	switch {
	case cfg.Output != nil:
		return cfg.Output, nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return os.Stderr, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("trace: failed to open output: %w", err)
	}
	return f, nil
}

// FindRing returns the ring buffer behind t, if any.
func FindRing(t Tracer) (*RingTracer, bool) {
	switch tt := t.(type) {
	case *RingTracer:
		return tt, true
	case *Tee:
		for _, s := range tt.sinks {
			if r, ok := FindRing(s); ok {
				return r, true
			}
		}
	}
	return nil, false
}
