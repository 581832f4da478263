package trace

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapTracer forwards events to a zap logger under the name "trace". Span
// begin events are dropped since the end event carries everything; failed
// spans are logged at warn level, the rest at debug.
type ZapTracer struct {
	log   *zap.Logger
	level Level
}

// NewZapTracer returns a tracer logging through l.
func NewZapTracer(l *zap.Logger, level Level) *ZapTracer {
	return &ZapTracer{log: l.Named("trace"), level: level}
}

func (t *ZapTracer) Emit(ev *Event) {
	if ev.Kind == KindSpanBegin {
		return
	}
	lvl := zapcore.DebugLevel
	if ev.Failed {
		lvl = zapcore.WarnLevel
	}
	ce := t.log.Check(lvl, ev.Name)
	if ce == nil {
		return
	}
	fields := make([]zap.Field, 0, 5+len(ev.Extra))
	fields = append(fields,
		zap.Stringer("kind", ev.Kind),
		zap.Stringer("scope", ev.Scope),
		zap.Uint64("span", ev.SpanID),
	)
	if ev.ParentID != 0 {
		fields = append(fields, zap.Uint64("parent", ev.ParentID))
	}
	if ev.Detail != "" {
		fields = append(fields, zap.String("detail", ev.Detail))
	}
	for k, v := range ev.Extra {
		fields = append(fields, zap.String(k, v))
	}
	ce.Write(fields...)
}

// Close syncs the logger, which belongs to the caller and stays open.
func (t *ZapTracer) Close() error {
	// Sync on a terminal stderr reports EINVAL/ENOTTY; nothing was lost
	_ = t.log.Sync()
	return nil
}

func (t *ZapTracer) Level() Level { return t.level }
