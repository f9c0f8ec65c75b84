package main

import (
	"context"
	"fmt"
	"io"

	"eipw/internal/trace"
)

// setupTracing builds the tracer described by s and attaches it to ctx. The
// returned cleanup closes the tracer; when failed is true and events were
// kept in a ring, they are dumped to errOut first.
func setupTracing(ctx context.Context, s *settings, errOut io.Writer) (context.Context, func(failed bool), error) {
	level, err := trace.ParseLevel(s.TraceLevel)
	if err != nil {
		return ctx, nil, fmt.Errorf("invalid trace level: %w", err)
	}

	if level == trace.LevelOff {
		return trace.WithTracer(ctx, trace.Nop), func(bool) {}, nil
	}

	mode, err := trace.ParseMode(s.TraceMode)
	if err != nil {
		return ctx, nil, fmt.Errorf("invalid trace mode: %w", err)
	}
	// error level records phases in memory and only shows them on failure
	if level == trace.LevelError {
		level, mode = trace.LevelPhase, trace.ModeRing
	}

	tracer, err := trace.New(trace.Config{
		Level:    level,
		Mode:     mode,
		Path:     s.Trace,
		RingSize: s.TraceRingSize,
	})
	if err != nil {
		return ctx, nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	cleanup := func(failed bool) {
		if failed {
			dumpRing(tracer, errOut)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(errOut, "trace: close error: %v\n", err)
		}
	}
	return trace.WithTracer(ctx, tracer), cleanup, nil
}

func dumpRing(t trace.Tracer, w io.Writer) {
	var ring *trace.RingTracer
	switch t := t.(type) {
	case *trace.RingTracer:
		ring = t
	case *trace.MultiTracer:
		ring = t.Ring()
	}
	if ring == nil {
		return
	}
	fmt.Fprintln(w, "trace: last events before failure")
	if err := ring.Dump(w, trace.FormatText); err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}
