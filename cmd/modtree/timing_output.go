package main

import (
	"fmt"
	"io"
	"time"

	"modtree/internal/buildpipeline"
)

// printStageTimings writes per-stage durations of one root.
func printStageTimings(out io.Writer, root string, timings buildpipeline.Timings) {
	if out == nil {
		return
	}
	for _, st := range buildpipeline.Stages {
		if timings.Has(st) {
			fmt.Fprintf(out, "%s: %s %.1f ms\n", root, st, toMillis(timings.Duration(st)))
		}
	}
	fmt.Fprintf(out, "%s: total %.1f ms\n", root, toMillis(timings.Total()))
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
