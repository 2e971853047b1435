// Package trace records what a build session is doing: the root parse,
// expansion rounds and every module file pulled in by the scheduler.
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Events are kept in a ring and dumped only when a build fails
//   - LevelPhase: Driver and pass boundaries (parse, expand)
//   - LevelDetail: Rounds and per-module-file spans
//   - LevelDebug: Everything including node-level points (macro calls, malformed modules)
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, sp := trace.Start(ctx, trace.ScopePass, "expand")
//	defer sp.End("")
//
// Spans started from ctx become children of sp; Point takes the parent id
// explicitly (trace.SpanID(ctx)).
package trace
