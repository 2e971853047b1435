package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"modtree/internal/prof"
)

// setupProfiling starts the profilers requested by persistent flags. The
// cleanup is safe to call more than once.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	opts.CPU, _ = flags.GetString("cpu-profile")
	opts.Mem, _ = flags.GetString("mem-profile")
	opts.Trace, _ = flags.GetString("runtime-trace")
	if !opts.Enabled() {
		return func() {}, nil
	}
	p, err := prof.Start(opts)
	if err != nil {
		return nil, err
	}
	errOut := cmd.ErrOrStderr()
	return func() {
		if err := p.Stop(); err != nil {
			fmt.Fprintf(errOut, "profile: %v\n", err)
		}
	}, nil
}
