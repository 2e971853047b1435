package tree

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"modtree/internal/diag"
	"modtree/internal/modpath"
	"modtree/internal/syntax"
	"modtree/internal/testkit"
)

func TestExpandSiblingModules(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.rs": "mod a;\nmod b;\n",
		"a.rs":    "",
		"b.rs":    "",
	})
	s, _ := openSession(t, dir)
	if got := len(s.PendingModules()); got != 2 {
		t.Fatalf("pending before expand = %d, want 2", got)
	}
	expand(t, s)

	if got := len(s.PendingModules()); got != 0 {
		t.Fatalf("pending after expand = %d", got)
	}
	mods := moduleRecords(t, s)
	if len(mods) != 2 {
		t.Fatalf("module records = %d, want 2", len(mods))
	}
	for _, m := range mods {
		body, ok := s.ModuleBody(m.Node)
		if !ok {
			t.Fatalf("module at %d left unresolved", m.Node)
		}
		if k := s.Nodes().KindAt(body); k != syntax.SourceFile {
			t.Fatalf("module body kind = %s", k)
		}
	}
	st := s.Stats()
	if st.FileParses != 3 || st.Rounds != 1 || st.Files != 3 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestExpandMissingFile(t *testing.T) {
	dir := writeTree(t, map[string]string{"main.rs": "mod missing;"})
	s, _ := openSession(t, dir)

	err := s.Expand(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	var fe *FileError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FileError, got %T: %v", err, err)
	}
	if filepath.Base(fe.Path) != "missing.rs" || fe.Module != "missing" {
		t.Fatalf("unexpected file error: %+v", fe)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("error should wrap fs.ErrNotExist: %v", err)
	}
	if !strings.Contains(err.Error(), "missing.rs") {
		t.Fatalf("message must name the file: %v", err)
	}
	if got := len(s.PendingModules()); got != 1 {
		t.Fatalf("failed module should stay queued, pending = %d", got)
	}
	if _, ok := s.ModuleBody(moduleRecords(t, s)[0].Node); ok {
		t.Fatal("slot must stay unresolved")
	}
}

func TestExpandFailedFileLeavesNoTrace(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.rs": "mod a;",
		"a.rs":    "mod c;\nmod inner { fn g() {} }\nfn f() { x.0.1; }",
		"c.rs":    "",
	})
	s, bag := openSession(t, dir)
	before := s.Stats()

	for i := range 2 {
		err := s.Expand(context.Background())
		if !errors.Is(err, ErrUnimplemented) {
			t.Fatalf("Expand #%d: expected ErrUnimplemented, got %v", i+1, err)
		}
		st := s.Stats()
		if st.ArenaBytes != before.ArenaBytes || st.Scopes != before.Scopes || st.Tokens != before.Tokens {
			t.Fatalf("Expand #%d kept records of the failed file: before %+v, after %+v", i+1, before, st)
		}
		if st.Modules != 1 || st.FileParses != 1 {
			t.Fatalf("Expand #%d: modules=%d parses=%d, want 1 and 1", i+1, st.Modules, st.FileParses)
		}
		if st.Files != 2 {
			t.Fatalf("Expand #%d: files = %d, a.rs must be read once", i+1, st.Files)
		}
		pending := s.PendingModules()
		if len(pending) != 1 || s.DottedPath(pending[0].Path) != "a" {
			t.Fatalf("Expand #%d: pending = %+v, want only a", i+1, pending)
		}
	}

	if n := bag.Count(diag.ModDuplicate); n != 0 {
		t.Fatalf("a failed module must not count as defined, got %d duplicate reports", n)
	}
	if _, ok := s.ModuleBody(moduleRecords(t, s)[0].Node); ok {
		t.Fatal("slot of the failed module must stay unresolved")
	}
	if err := s.Walk(func(syntax.Record, int) bool { return true }); err != nil {
		t.Fatalf("walk after failure: %v", err)
	}
	if err := testkit.CheckArena(s.Nodes(), s.Sources()); err != nil {
		t.Fatalf("arena after failure: %v", err)
	}
}

func TestExpandFixpoint(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.rs":  "mod a;\nmod b;\n",
		"a.rs":     "pub mod c;\n",
		"a/c.rs":   "mod d;\nfn in_c() {}\n",
		"a/c/d.rs": "",
		"b.rs":     "struct B;\n",
	})
	s, _ := openSession(t, dir)
	expand(t, s)

	st := s.Stats()
	if st.FileParses != 5 {
		t.Fatalf("file parses = %d, want 5", st.FileParses)
	}
	if st.Rounds != 3 {
		t.Fatalf("rounds = %d, want 3", st.Rounds)
	}
	mods := moduleRecords(t, s)
	if len(mods) != 4 {
		t.Fatalf("module records = %d, want 4", len(mods))
	}
	for _, m := range mods {
		if _, ok := s.ModuleBody(m.Node); !ok {
			t.Fatalf("module at %d unresolved", m.Node)
		}
	}

	a := s.Paths().Child(modpath.Root, s.Names().Make("a"))
	c := s.Paths().Child(a, s.Names().Make("c"))
	d := s.Paths().Child(c, s.Names().Make("d"))
	if got := s.DottedPath(d); got != "a::c::d" {
		t.Fatalf("DottedPath = %q", got)
	}
	if got, want := s.ModuleFile(d), filepath.Join(dir, "a", "c", "d.rs"); got != want {
		t.Fatalf("ModuleFile = %q, want %q", got, want)
	}
	info, ok := s.Module(d)
	if !ok || info.Inline {
		t.Fatalf("module a::c::d not registered as a file module: %+v", info)
	}
	if s.Sources().Name(info.File) != filepath.Join(dir, "a", "c", "d.rs") {
		t.Fatalf("module file = %q", s.Sources().Name(info.File))
	}

	// второй вызов ничего не делает
	expand(t, s)
	if s.Stats().FileParses != 5 {
		t.Fatal("Expand must be idempotent once the queue is empty")
	}
}

func TestExpandWalkCoversAllFiles(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.rs": "mod a;\nfn root() {}\n",
		"a.rs":    "mod b;\nfn in_a() {}\n",
		"a/b.rs":  "fn in_b() {}\n",
	})
	s, _ := openSession(t, dir)
	expand(t, s)

	for _, fn := range []string{"root", "in_a", "in_b"} {
		if len(identNodes(t, s, fn)) != 1 {
			t.Fatalf("walk did not reach fn %s", fn)
		}
	}
	depths := map[string]int{}
	err := s.Walk(func(r syntax.Record, depth int) bool {
		if r.HasName {
			depths[s.Names().Get(r.Name)] = depth
		}
		return true
	})
	if err != nil {
		t.Fatal(err)
	}
	if !(depths["root"] < depths["in_a"] && depths["in_a"] < depths["in_b"]) {
		t.Fatalf("expanded files should nest under their declarations: %v", depths)
	}
}

func TestExpandDuplicateFileModules(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.rs": "mod a;\nmod a;\n",
		"a.rs":    "fn f() {}\n",
	})
	s, bag := openSession(t, dir)
	expand(t, s)

	st := s.Stats()
	if st.FileParses != 2 || st.Duplicates != 1 {
		t.Fatalf("stats = %+v", st)
	}
	mods := moduleRecords(t, s)
	if len(mods) != 2 {
		t.Fatalf("module records = %d", len(mods))
	}
	b1, ok1 := s.ModuleBody(mods[0].Node)
	b2, ok2 := s.ModuleBody(mods[1].Node)
	if !ok1 || !ok2 || b1 != b2 {
		t.Fatalf("both declarations should point at the first body: %d/%v %d/%v", b1, ok1, b2, ok2)
	}
	if bag.Count(diag.ModDuplicate) != 1 {
		t.Fatalf("expected one duplicate diagnostic, got %d", bag.Count(diag.ModDuplicate))
	}
	if notes := bag.Items()[0].Notes; len(notes) != 1 || notes[0].Msg != "first defined here" {
		t.Fatalf("unexpected notes: %+v", notes)
	}
}

func TestExpandDuplicateInlineAndFile(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.rs": "mod a { fn x() {} }\nmod a;\n",
	})
	s, bag := openSession(t, dir)
	expand(t, s) // a.rs не читается: путь уже определён

	mods := moduleRecords(t, s)
	inline, _ := s.ModuleBody(mods[0].Node)
	second, ok := s.ModuleBody(mods[1].Node)
	if !ok || second != inline {
		t.Fatalf("duplicate should point at the inline body")
	}
	if s.Nodes().KindAt(inline) != syntax.ItemList {
		t.Fatalf("inline body kind = %s", s.Nodes().KindAt(inline))
	}
	if bag.Count(diag.ModDuplicate) != 1 {
		t.Fatalf("expected a duplicate diagnostic")
	}
	d := bag.Items()[0]
	if len(d.Notes) != 1 || d.Notes[0].Msg != "first defined here" {
		t.Fatalf("expected a note on the first definition: %+v", d)
	}
}

func TestExpandReportsMacrosOnce(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.rs": "foo!();\nmod a;\n",
		"a.rs":    "fn f() { bar!(1); }\n",
	})
	s, bag := openSession(t, dir)
	expand(t, s)
	expand(t, s)

	if got := len(s.PendingMacros()); got != 2 {
		t.Fatalf("pending macros = %d, want 2", got)
	}
	if got := bag.Count(diag.MacroUnexpanded); got != 2 {
		t.Fatalf("macro diagnostics = %d, want 2", got)
	}
	for _, m := range s.PendingMacros() {
		if s.Nodes().KindAt(m.Node) != syntax.MacroCall {
			t.Fatalf("macro node kind = %s", s.Nodes().KindAt(m.Node))
		}
	}
}

func TestExpandCustomExtension(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.rs": "mod a;",
		"a.mt":    "fn f() {}",
	})
	s, err := New(context.Background(), filepath.Join(dir, "main.rs"), Config{Extension: ".mt"})
	if err != nil {
		t.Fatal(err)
	}
	expand(t, s)
	if s.Extension() != "mt" || s.Stats().FileParses != 2 {
		t.Fatalf("extension %q, parses %d", s.Extension(), s.Stats().FileParses)
	}
}

func TestBuildStopsOnLexError(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.rs": "mod a;",
		"a.rs":    "fn f() { \"open",
	})
	_, err := Build(context.Background(), filepath.Join(dir, "main.rs"), Config{})
	if err == nil || !strings.Contains(err.Error(), "a.rs") {
		t.Fatalf("expected a lexical error naming a.rs, got %v", err)
	}
}

func TestExpandHonoursCancellation(t *testing.T) {
	dir := writeTree(t, map[string]string{"main.rs": "mod a;", "a.rs": ""})
	s, _ := openSession(t, dir)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Expand(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWalkSkipsSlotPastArena(t *testing.T) {
	dir := writeTree(t, map[string]string{"main.rs": "mod a;", "a.rs": "fn f() {}"})
	s, _ := openSession(t, dir)
	expand(t, s)

	data := append([]byte(nil), s.Nodes().Bytes()...)
	nodes := syntax.FromBytes(data)
	nodes.Patch(syntax.SlotOf(moduleRecords(t, s)[0].Node), syntax.Node(0xFFFFFFF0))

	visited := 0
	err := Walk(nodes, s.Root(), func(syntax.Record, int) bool {
		visited++
		return true
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if visited == 0 {
		t.Fatal("walk visited nothing")
	}
}
