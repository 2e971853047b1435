package project

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"

	"modtree/internal/trace"
)

// Defaults used when modtree.toml is absent or leaves a key out.
const (
	DefaultExtension      = "rs"
	DefaultMaxDiagnostics = 100
)

var (
	// ErrInvalidExtension indicates a [build].extension that cannot name a file suffix.
	ErrInvalidExtension = errors.New("invalid [build].extension")
	// ErrInvalidLimit indicates a negative [build].max_diagnostics.
	ErrInvalidLimit = errors.New("invalid [build].max_diagnostics")
)

// Config is the resolved project configuration.
type Config struct {
	Path string // пусто, если манифест не найден

	Extension      string
	MaxDiagnostics int

	TraceLevel  trace.Level
	TraceOutput string
	TraceFormat trace.Format
}

type manifest struct {
	Build struct {
		Extension      string `toml:"extension"`
		MaxDiagnostics int    `toml:"max_diagnostics"`
	} `toml:"build"`
	Trace struct {
		Level  string `toml:"level"`
		Output string `toml:"output"`
		Format string `toml:"format"`
	} `toml:"trace"`
}

// Default returns the configuration used without a manifest.
func Default() Config {
	return Config{
		Extension:      DefaultExtension,
		MaxDiagnostics: DefaultMaxDiagnostics,
		TraceLevel:     trace.LevelOff,
		TraceOutput:    "-",
		TraceFormat:    trace.FormatAuto,
	}
}

// Load parses modtree.toml at path on top of Default.
func Load(path string) (Config, error) {
	var m manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}

	cfg := Default()
	cfg.Path = path
	if meta.IsDefined("build", "extension") {
		ext := strings.TrimPrefix(strings.TrimSpace(m.Build.Extension), ".")
		if !IsValidExtension(ext) {
			return Config{}, fmt.Errorf("%s: %w %q", path, ErrInvalidExtension, m.Build.Extension)
		}
		cfg.Extension = ext
	}
	if meta.IsDefined("build", "max_diagnostics") {
		if m.Build.MaxDiagnostics < 0 {
			return Config{}, fmt.Errorf("%s: %w: %d", path, ErrInvalidLimit, m.Build.MaxDiagnostics)
		}
		cfg.MaxDiagnostics = m.Build.MaxDiagnostics
	}
	if meta.IsDefined("trace", "level") {
		lvl, err := trace.ParseLevel(strings.TrimSpace(m.Trace.Level))
		if err != nil {
			return Config{}, fmt.Errorf("%s: [trace].level: %w", path, err)
		}
		cfg.TraceLevel = lvl
	}
	if meta.IsDefined("trace", "output") {
		if out := strings.TrimSpace(m.Trace.Output); out != "" {
			cfg.TraceOutput = out
		}
	}
	if meta.IsDefined("trace", "format") {
		f, err := trace.ParseFormat(strings.TrimSpace(m.Trace.Format))
		if err != nil {
			return Config{}, fmt.Errorf("%s: [trace].format: %w", path, err)
		}
		cfg.TraceFormat = f
	}
	return cfg, nil
}

// Discover looks for modtree.toml from startDir upwards and loads it.
// Without a manifest it returns Default.
func Discover(startDir string) (Config, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// IsValidExtension reports whether ext is a plain ASCII file suffix.
func IsValidExtension(ext string) bool {
	if ext == "" {
		return false
	}
	for _, r := range ext {
		if r > unicode.MaxASCII {
			return false
		}
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
