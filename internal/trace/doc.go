// Package trace records the run, document, phase, fetch and rule boundaries
// of a lint run as begin/end events.
//
// The tracer travels in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopePhase, "discover")
//	defer span.End("")
//
// StreamTracer writes events as they happen. RingTracer keeps the most recent
// ones so they can be dumped after a failed run; MultiTracer feeds both.
package trace
