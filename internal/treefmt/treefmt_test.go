package treefmt

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"modtree/internal/lexer"
	"modtree/internal/tree"
)

func session(t *testing.T, src string) (*tree.Session, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := tree.NewFromSource(context.Background(), filepath.Join(dir, "main.rs"), []byte(src), tree.Config{})
	if err != nil {
		t.Fatalf("NewFromSource: %v", err)
	}
	return s, dir
}

func TestTreeDump(t *testing.T) {
	s, dir := session(t, "mod a { fn f() {} }\nmod b;\n")
	var buf bytes.Buffer
	if err := Tree(&buf, s, Options{Base: dir}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[0] != "SOURCE_FILE" {
		t.Fatalf("first line %q", lines[0])
	}
	for _, want := range []string{
		"\n  MODULE -> @",
		" ITEM_LIST\n",
		"\n  MODULE -> unresolved\n",
		"\n      IDENT \"a\" main.rs:1:5\n",
		"\n      IDENT \"b\" main.rs:2:5\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
	if strings.Contains(out, "end") {
		t.Error("exit records printed without Exits")
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("colour escapes with Color off")
	}
}

func TestTreeDepthAndExits(t *testing.T) {
	s, _ := session(t, "fn f() {}\n")
	var buf bytes.Buffer
	if err := Tree(&buf, s, Options{MaxDepth: 2, Exits: true}); err != nil {
		t.Fatal(err)
	}
	want := "SOURCE_FILE\n  FN\n  end\nend\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestTreeColor(t *testing.T) {
	s, _ := session(t, "fn f() {}\n")
	var buf bytes.Buffer
	if err := Tree(&buf, s, Options{Color: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatal("expected colour escapes")
	}
}

func TestTokensDump(t *testing.T) {
	s, dir := session(t, "mod 日本;\n")
	toks, err := lexer.Lex(s.Sources().Text(s.RootFile()))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Tokens(&buf, s.Sources(), s.RootFile(), toks, Options{Base: dir}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != toks.Len() {
		t.Fatalf("lines = %d, tokens = %d", len(lines), toks.Len())
	}
	if !strings.HasPrefix(lines[0], "   1: MOD_KW") || !strings.HasSuffix(lines[0], "main.rs:1:1") {
		t.Fatalf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[2], `"日本"`) || !strings.HasSuffix(lines[2], "main.rs:1:5") {
		t.Fatalf("line 2 = %q", lines[2])
	}
	// location column lines up regardless of wide runes
	col := func(l string) int { return strings.Index(l, "main.rs") }
	ascii := strings.Replace(lines[2], "日本", "xxxx", 1)
	if col(ascii) != col(lines[0]) {
		t.Fatalf("columns differ:\n%s\n%s", lines[0], lines[2])
	}
}

func TestStatsPlain(t *testing.T) {
	st := tree.Stats{Files: 3, FileParses: 3, Rounds: 2, Duplicates: 1}
	var buf bytes.Buffer
	if err := Stats(&buf, "main.rs", st, Options{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "main.rs\n") {
		t.Fatalf("title missing:\n%s", out)
	}
	for _, want := range []string{"  files        3\n", "  rounds       2\n", "  duplicates   1\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
}

func TestStatsStyled(t *testing.T) {
	var buf bytes.Buffer
	if err := Stats(&buf, "root", tree.Stats{Files: 1}, Options{Color: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "files") || !strings.Contains(buf.String(), "1") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}
