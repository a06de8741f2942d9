// Package trace records what the reader is doing while it runs.
//
// Tracing is off by default and costs one interface call per span when off.
// Enable it from the CLI:
//
//	shisp parse --trace=- --trace-level=phase prog.shisp
//	shisp parse --trace=run.ndjson --trace-level=detail ./src
//
// Events carry a Scope, and a Level decides which scopes get through:
//
//   - ScopeDriver: CLI commands, directory runs
//   - ScopePass:   lex and parse of one file
//   - ScopeFile:   per-file workers in directory runs
//   - ScopeNode:   parser scope open/close
//
// The tracer travels through context:
//
//	ctx = trace.WithTracer(ctx, tr)
//	sp := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", trace.CurrentSpan(ctx).SpanID)
//	defer sp.End("")
//
// Sinks: Nop, StreamTracer (writes each event), RingTracer (keeps the last N
// for a dump after a failure) and MultiTracer (fan-out).
package trace
