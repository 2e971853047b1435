package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"modtree/internal/snapshot"
	"modtree/internal/treefmt"
)

var showCmd = &cobra.Command{
	Use:   "show [flags] tree.mp",
	Short: "Print a tree saved with tree --snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().Int("depth", 0, "print at most this many levels (0 = all)")
	showCmd.Flags().Bool("exits", false, "print closing records")
	showCmd.Flags().Bool("stats", false, "print statistics")
	showCmd.Flags().Bool("no-tree", false, "do not print the tree itself")
	showCmd.Flags().Bool("check", false, "report source files changed since the snapshot was taken")
}

func runShow(cmd *cobra.Command, args []string) error {
	path := args[0]
	s, err := loadSettings(cmd, rootDir(path))
	if err != nil {
		return err
	}
	snap, err := snapshot.Read(path)
	if err != nil {
		return err
	}

	depth, _ := cmd.Flags().GetInt("depth")
	exits, _ := cmd.Flags().GetBool("exits")
	stats, _ := cmd.Flags().GetBool("stats")
	noTree, _ := cmd.Flags().GetBool("no-tree")
	check, _ := cmd.Flags().GetBool("check")

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	if check {
		stale, err := snap.Stale()
		if err != nil {
			return err
		}
		for _, name := range stale {
			fmt.Fprintf(errOut, "stale: %s\n", name)
		}
	}

	opts := treefmt.Options{Color: s.color, MaxDepth: depth, Exits: exits}
	if snap.Sources().Len() > 0 {
		opts.Base = rootDir(snap.Sources().Name(0))
	}
	if !noTree && !s.quiet {
		if err := treefmt.Tree(out, snap, opts); err != nil {
			return err
		}
	}
	if stats {
		return treefmt.Stats(out, path, snap.Stats(), opts)
	}
	return nil
}
