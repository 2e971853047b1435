package tree

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"modtree/internal/diag"
	"modtree/internal/modpath"
	"modtree/internal/name"
	"modtree/internal/scope"
	"modtree/internal/source"
	"modtree/internal/syntax"
	"modtree/internal/trace"
)

// DefaultExtension is the source extension used to locate module files.
const DefaultExtension = "rs"

// Config controls a Session.
type Config struct {
	// Extension without the dot; DefaultExtension when empty.
	Extension string
	// Frontend produces steps for each file; DefaultFrontend when nil.
	Frontend Frontend
	// Reporter receives non-fatal findings; nil drops them.
	Reporter diag.Reporter
}

// ModuleInfo describes one defined module.
type ModuleInfo struct {
	Path  modpath.ID
	Scope scope.ID
	// Body is the ItemList of an inline module or the root record of a
	// module file.
	Body   syntax.Node
	File   source.FileID
	Inline bool
	At     source.Span // имя в объявлении; пусто для корня
}

// PendingModule is a `mod name;` declaration waiting for its file.
type PendingModule struct {
	Path modpath.ID
	Node syntax.Node // the Module record
	At   source.Span // the module name
}

// PendingMacro is a macro call recorded during building. Nothing expands it.
type PendingMacro struct {
	Node  syntax.Node
	Scope scope.ID
	At    source.Loc
}

// Session is the aggregate state of one build.
type Session struct {
	cfg     Config
	rootDir string

	sources *source.Registry
	names   *name.Interner
	paths   *modpath.Interner
	scopes  *scope.Table
	nodes   *syntax.Nodes

	root      syntax.Node
	rootScope scope.ID
	rootFile  source.FileID

	modules map[modpath.ID]ModuleInfo
	loaded  map[string]source.FileID // module files read by Expand
	pending []PendingModule
	macros  []PendingMacro
	// macrosReported counts macros already reported as unexpanded.
	macrosReported int

	stats Stats
}

func newSession(cfg Config, rootDir string) *Session {
	if cfg.Extension == "" {
		cfg.Extension = DefaultExtension
	}
	cfg.Extension = strings.TrimPrefix(cfg.Extension, ".")
	if cfg.Frontend == nil {
		cfg.Frontend = DefaultFrontend
	}
	return &Session{
		cfg:     cfg,
		rootDir: rootDir,
		sources: source.NewRegistry(),
		names:   name.NewInterner(),
		paths:   modpath.NewInterner(),
		scopes:  scope.NewTable(),
		nodes:   syntax.NewNodes(1 << 12),
		modules: make(map[modpath.ID]ModuleInfo),
		loaded:  make(map[string]source.FileID),
	}
}

// New loads and parses the root file at path. Module files are not read
// until Expand.
func New(ctx context.Context, path string, cfg Config) (*Session, error) {
	s := newSession(cfg, filepath.Dir(path))
	ctx, sp := trace.Start(ctx, trace.ScopePass, "parse")
	defer sp.End(path)

	id, err := s.sources.Load(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	if err := s.parseRoot(ctx, id); err != nil {
		return nil, err
	}
	return s, nil
}

// NewFromSource parses src as the root file. Module files resolve relative
// to the directory of name.
func NewFromSource(ctx context.Context, name string, src []byte, cfg Config) (*Session, error) {
	s := newSession(cfg, filepath.Dir(name))
	ctx, sp := trace.Start(ctx, trace.ScopePass, "parse")
	defer sp.End(name)

	id, err := s.sources.AddVirtual(name, src)
	if err != nil {
		return nil, err
	}
	if err := s.parseRoot(ctx, id); err != nil {
		return nil, err
	}
	return s, nil
}

// Build is New followed by Expand.
func Build(ctx context.Context, path string, cfg Config) (*Session, error) {
	s, err := New(ctx, path, cfg)
	if err != nil {
		return nil, err
	}
	if err := s.Expand(ctx); err != nil {
		return s, err
	}
	return s, nil
}

func (s *Session) parseRoot(ctx context.Context, id source.FileID) error {
	root, sc, err := s.parseFile(ctx, id, modpath.Root, source.Span{})
	if err != nil {
		return err
	}
	s.root, s.rootScope, s.rootFile = root, sc, id
	return nil
}

// parseFile builds one file into the arena under a fresh module-rooted scope
// for module and registers it as that module's body. On failure everything
// the file added is rolled back and module stays undefined.
func (s *Session) parseFile(ctx context.Context, id source.FileID, module modpath.ID, at source.Span) (syntax.Node, scope.ID, error) {
	fileName := s.sources.Name(id)
	toks, steps, err := s.cfg.Frontend.Parse(s.sources.Text(id))
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", fileName, err)
	}

	cp := s.checkpoint()
	body := s.nodes.NextIndex()
	sc := s.scopes.PushModule(module, body)

	b := &builder{
		s:      s,
		steps:  steps,
		toks:   toks,
		text:   s.sources.Text(id),
		file:   id,
		base:   s.sources.Range(id).Start,
		scope:  sc,
		tracer: trace.FromContext(ctx),
		span:   trace.SpanID(ctx),
	}
	if err := b.run(); err != nil {
		s.rollback(cp)
		return 0, 0, fmt.Errorf("%s: %w", fileName, err)
	}
	s.modules[module] = ModuleInfo{Path: module, Scope: sc, Body: body, File: id, At: at}
	s.stats.FileParses++
	return body, sc, nil
}

// checkpoint is the session state before a file is built. Names and paths
// are interned sets and are not rolled back.
type checkpoint struct {
	nodes   syntax.Node
	scopes  int
	pending int
	macros  int
	stats   Stats
}

func (s *Session) checkpoint() checkpoint {
	return checkpoint{
		nodes:   s.nodes.NextIndex(),
		scopes:  s.scopes.Len(),
		pending: len(s.pending),
		macros:  len(s.macros),
		stats:   s.stats,
	}
}

// rollback drops everything built after cp. Diagnostics already reported
// stay reported.
func (s *Session) rollback(cp checkpoint) {
	s.nodes.Truncate(cp.nodes)
	s.scopes.Truncate(cp.scopes)
	s.pending = s.pending[:cp.pending]
	s.macros = s.macros[:cp.macros]
	for path, m := range s.modules {
		if m.Body >= cp.nodes {
			delete(s.modules, path)
		}
	}
	s.stats = cp.stats
}

// Sources returns the source registry.
func (s *Session) Sources() *source.Registry { return s.sources }

// Names returns the name interner.
func (s *Session) Names() *name.Interner { return s.names }

// Paths returns the module path interner.
func (s *Session) Paths() *modpath.Interner { return s.paths }

// Scopes returns the scope table.
func (s *Session) Scopes() *scope.Table { return s.scopes }

// Nodes returns the arena.
func (s *Session) Nodes() *syntax.Nodes { return s.nodes }

// Root returns the root file's top-level node.
func (s *Session) Root() syntax.Node { return s.root }

// RootScope returns the scope of the root module.
func (s *Session) RootScope() scope.ID { return s.rootScope }

// RootFile returns the FileID of the root file.
func (s *Session) RootFile() source.FileID { return s.rootFile }

// Extension returns the module file extension in use.
func (s *Session) Extension() string { return s.cfg.Extension }

// Module returns the definition registered for path.
func (s *Session) Module(path modpath.ID) (ModuleInfo, bool) {
	m, ok := s.modules[path]
	return m, ok
}

// Modules returns every defined module ordered by path id.
func (s *Session) Modules() []ModuleInfo {
	out := make([]ModuleInfo, 0, len(s.modules))
	for _, m := range s.modules {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// PendingModules returns the modules still waiting for their files.
func (s *Session) PendingModules() []PendingModule {
	return append([]PendingModule(nil), s.pending...)
}

// PendingMacros returns every macro call recorded so far.
func (s *Session) PendingMacros() []PendingMacro {
	return append([]PendingMacro(nil), s.macros...)
}

// OwningModule returns the module path of the nearest module-rooted scope.
func (s *Session) OwningModule(sc scope.ID) modpath.ID {
	return s.scopes.Module(s.scopes.ModuleRoot(sc))
}

// DottedPath renders path as a::b::c; the root renders as "crate".
func (s *Session) DottedPath(path modpath.ID) string {
	comps := s.paths.Components(path)
	if len(comps) == 0 {
		return "crate"
	}
	parts := make([]string, len(comps))
	for i, c := range comps {
		parts[i] = s.names.Get(c)
	}
	return strings.Join(parts, "::")
}

// ModuleFile returns the file Expand reads for path: the root directory
// joined with every component, plus the extension.
func (s *Session) ModuleFile(path modpath.ID) string {
	comps := s.paths.Components(path)
	parts := make([]string, 0, len(comps)+1)
	parts = append(parts, s.rootDir)
	for _, c := range comps {
		parts = append(parts, s.names.Get(c))
	}
	return filepath.Join(parts...) + "." + s.cfg.Extension
}

// ModuleBody returns the body written into the slot of the Module record
// at node; false while the slot is unresolved.
func (s *Session) ModuleBody(node syntax.Node) (syntax.Node, bool) {
	if s.nodes.KindAt(node) != syntax.Module {
		return 0, false
	}
	body := s.nodes.Slot(node)
	return body, body != node
}

func (s *Session) report() diag.Reporter {
	if s.cfg.Reporter == nil {
		return nopReporter{}
	}
	return s.cfg.Reporter
}

type nopReporter struct{}

func (nopReporter) Report(diag.Code, diag.Severity, source.Span, string, []diag.Note) {}
