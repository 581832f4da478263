// Package trace records what a derivefmt run did: the run itself, its
// passes, every file and, at the debug level, every derive attribute.
//
// Spans are filtered once, when they are opened, against the level of the
// tracer; sinks store whatever reaches them. A span that fails is always
// recorded, even when its scope is below the level, so that
//
//	derivefmt --trace=- --trace-level=error
//
// prints nothing but the files that could not be formatted.
//
// Sinks:
//
//   - Nop: tracing disabled
//   - StreamTracer: text or NDJSON lines written as events happen
//   - RingTracer: the last N events, dumped when a run fails
//   - ZapTracer: events forwarded to a zap logger
//   - Tee: several of the above at once
//
// Spans travel in a context:
//
//	span, ctx := trace.Start(ctx, trace.ScopePass, "format")
//	defer span.End("")
package trace
