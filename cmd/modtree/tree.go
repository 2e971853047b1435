package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"modtree/internal/buildpipeline"
	"modtree/internal/diag"
	"modtree/internal/observ"
	"modtree/internal/trace"
	"modtree/internal/treefmt"
)

var treeCmd = &cobra.Command{
	Use:   "tree [flags] root.rs...",
	Short: "Build and print the module tree of one or more root files",
	Long: `Tree parses every root file, loads the files of its "mod x;" declarations
until nothing is left to load and prints the resulting tree. Several roots are
built in parallel as independent trees.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTree,
}

func init() {
	treeCmd.Flags().String("snapshot", "", "write a snapshot of every tree to this path")
	treeCmd.Flags().Int("jobs", 0, "max parallel roots (0=auto)")
	treeCmd.Flags().String("ui", "auto", "progress UI on stderr (auto|on|off)")
	treeCmd.Flags().Int("depth", 0, "print at most this many levels (0 = all)")
	treeCmd.Flags().Bool("exits", false, "print closing records")
	treeCmd.Flags().Bool("stats", false, "print statistics for every tree")
	treeCmd.Flags().Bool("no-tree", false, "do not print the tree itself")
}

// errBuildFailed reports that some root failed; details are already printed.
var errBuildFailed = errors.New("build failed")

func runTree(cmd *cobra.Command, args []string) (err error) {
	s, err := loadSettings(cmd, rootDir(args[0]))
	if err != nil {
		return err
	}
	cleanup, err := setupTracing(cmd, s)
	if err != nil {
		return err
	}
	defer func() { cleanup(err != nil) }()
	stopProf, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProf()

	snapshotPath, _ := cmd.Flags().GetString("snapshot")
	jobs, _ := cmd.Flags().GetInt("jobs")
	uiFlag, _ := cmd.Flags().GetString("ui")
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	var timer *observ.Timer
	if s.timings {
		timer = observ.NewTimer()
	}
	req := &buildpipeline.Request{
		Roots:          args,
		Extension:      s.Extension,
		MaxDiagnostics: s.MaxDiagnostics,
		Jobs:           jobs,
		SnapshotPath:   snapshotPath,
		Timer:          timer,
	}

	ctx, sp := trace.Start(cmd.Context(), trace.ScopeDriver, "tree")

	var results []buildpipeline.Result
	if shouldUseTUI(mode, len(args)) {
		results, err = runBuildWithUI(ctx, "modtree", req)
	} else {
		results, err = buildpipeline.Build(ctx, req)
	}
	sp.End(fmt.Sprintf("roots=%d", len(args)))
	if err != nil {
		return err
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	failed := false
	for _, res := range results {
		if printResult(cmd, out, errOut, s, res) {
			failed = true
		}
	}
	if timer != nil {
		for _, res := range results {
			printStageTimings(errOut, res.Root, res.Timings)
		}
		fmt.Fprint(errOut, timer.Summary())
	}
	if failed {
		return errBuildFailed
	}
	return nil
}

// printResult writes diagnostics and the tree of one root and reports
// whether the root failed.
func printResult(cmd *cobra.Command, out, errOut io.Writer, s *settings, res buildpipeline.Result) bool {
	depth, _ := cmd.Flags().GetInt("depth")
	exits, _ := cmd.Flags().GetBool("exits")
	stats, _ := cmd.Flags().GetBool("stats")
	noTree, _ := cmd.Flags().GetBool("no-tree")

	failed := res.Err != nil
	if res.Session != nil {
		res.Bag.Sort()
		if err := diag.Format(errOut, res.Bag.Items(), res.Session.Sources(), diag.FormatOptions{Color: s.color, Notes: true}); err != nil {
			fmt.Fprintf(errOut, "%s: %v\n", res.Root, err)
		}
		if n := res.Bag.Dropped(); n > 0 {
			fmt.Fprintf(errOut, "%s: %d more diagnostics not shown\n", res.Root, n)
		}
		if res.Bag.HasErrors() {
			failed = true
		}
		opts := treefmt.Options{Color: s.color, Base: rootDir(res.Root), MaxDepth: depth, Exits: exits}
		if !noTree && !s.quiet {
			if err := treefmt.Tree(out, res.Session, opts); err != nil {
				fmt.Fprintf(errOut, "%s: %v\n", res.Root, err)
				failed = true
			}
		}
		if stats {
			if err := treefmt.Stats(out, res.Root, res.Session.Stats(), opts); err != nil {
				fmt.Fprintf(errOut, "%s: %v\n", res.Root, err)
			}
		}
	}
	if res.Err != nil {
		fmt.Fprintf(errOut, "%s: %v\n", res.Root, res.Err)
	}
	if res.Snapshot != "" && !s.quiet {
		fmt.Fprintf(errOut, "snapshot written to %s\n", res.Snapshot)
	}
	return failed
}
