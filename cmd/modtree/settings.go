package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"modtree/internal/project"
	"modtree/internal/trace"
)

// settings is modtree.toml merged with command-line flags; flags win.
type settings struct {
	project.Config

	color    bool
	quiet    bool
	timings  bool
	ringSize int
}

// loadSettings reads modtree.toml found from startDir upwards and applies
// every flag the user set explicitly.
func loadSettings(cmd *cobra.Command, startDir string) (*settings, error) {
	flags := cmd.Root().PersistentFlags()

	cfg, err := project.Discover(startDir)
	if err != nil {
		return nil, err
	}
	s := &settings{Config: cfg}

	if flags.Changed("ext") {
		ext, _ := flags.GetString("ext")
		ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if !project.IsValidExtension(ext) {
			return nil, fmt.Errorf("invalid --ext %q", ext)
		}
		s.Extension = ext
	}
	if flags.Changed("max-diagnostics") {
		n, _ := flags.GetInt("max-diagnostics")
		if n < 0 {
			return nil, fmt.Errorf("invalid --max-diagnostics %d", n)
		}
		s.MaxDiagnostics = n
	}
	if flags.Changed("trace-level") {
		lvl, _ := flags.GetString("trace-level")
		if s.TraceLevel, err = trace.ParseLevel(lvl); err != nil {
			return nil, err
		}
	}
	if flags.Changed("trace") {
		s.TraceOutput, _ = flags.GetString("trace")
		// --trace без уровня включает фазы
		if !flags.Changed("trace-level") && s.TraceLevel == trace.LevelOff {
			s.TraceLevel = trace.LevelPhase
		}
	}
	if flags.Changed("trace-format") {
		f, _ := flags.GetString("trace-format")
		if s.TraceFormat, err = trace.ParseFormat(f); err != nil {
			return nil, err
		}
	}

	s.quiet, _ = flags.GetBool("quiet")
	s.timings, _ = flags.GetBool("timings")
	s.ringSize, _ = flags.GetInt("trace-ring-size")

	colorFlag, _ := flags.GetString("color")
	switch strings.ToLower(colorFlag) {
	case "on":
		s.color = true
	case "off":
		s.color = false
	case "auto", "":
		s.color = isTerminal(os.Stdout)
	default:
		return nil, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
	// цвет диагностик и версии идёт через fatih/color
	color.NoColor = !s.color
	return s, nil
}

// rootDir is the directory modtree.toml discovery starts from.
func rootDir(path string) string {
	if path == "" {
		return "."
	}
	return filepath.Dir(path)
}
