// Package trace records spans of the liveweave pipeline: workspace loading,
// parsing, registration and expansion.
//
// # Usage
//
//	liveweave expand --trace=- --trace-level=detail ./ui
//
// # Tracers
//
//   - Nop: tracing disabled
//   - StreamTracer: writes each event immediately (text, ndjson or chrome)
//   - RingTracer: keeps the last N events in memory for a dump on failure
//   - MultiTracer: fans out to several tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: nothing is streamed; the ring is dumped on failure
//   - LevelPhase: driver and pass boundaries
//   - LevelDetail: per-module register and expand spans
//   - LevelDebug: everything
//
// Tracers travel with the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "expand_all", 0)
//	defer span.End("")
package trace
