package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"modtree/internal/trace"
)

// setupTracing builds the tracer from settings and attaches it to the
// command context. The returned cleanup takes the command outcome: at
// --trace-level=error the in-memory ring is dumped only when it failed.
func setupTracing(cmd *cobra.Command, s *settings) (func(failed bool), error) {
	if s.TraceLevel == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func(bool) {}, nil
	}

	tracer, err := trace.New(trace.Config{
		Level:      s.TraceLevel,
		Format:     s.TraceFormat,
		OutputPath: s.TraceOutput,
		RingSize:   s.ringSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)

	errOut := cmd.ErrOrStderr()
	cleanup := func(failed bool) {
		if ring, ok := tracer.(*trace.RingTracer); ok && failed {
			dumpRing(errOut, ring, s.TraceFormat)
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(errOut, "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(errOut, "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}

func dumpRing(w io.Writer, ring *trace.RingTracer, format trace.Format) {
	if format == trace.FormatAuto {
		format = trace.FormatText
	}
	fmt.Fprintln(w, "trace (last events before failure):")
	if err := ring.Dump(w, format); err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}
