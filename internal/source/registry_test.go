package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRegistryRanges(t *testing.T) {
	r := NewRegistry()

	a, err := r.AddVirtual("a.rs", []byte("mod b;\n"))
	if err != nil {
		t.Fatalf("add a: %v", err)
	}
	b, err := r.AddVirtual("b.rs", []byte("fn f() {}"))
	if err != nil {
		t.Fatalf("add b: %v", err)
	}

	if a != 0 || b != 1 {
		t.Fatalf("unexpected ids: a=%d b=%d", a, b)
	}
	if got := r.Name(a); got != "a.rs" {
		t.Errorf("Name(a) = %q", got)
	}
	if got := r.Name(b); got != "b.rs" {
		t.Errorf("Name(b) = %q", got)
	}

	// диапазон файла заканчивается там, где начинается следующий
	ra, rb := r.Range(a), r.Range(b)
	if ra.End != rb.Start {
		t.Errorf("range of a ends at %d, b starts at %d", ra.End, rb.Start)
	}
	if string(r.Text(a)) != "mod b;\n" {
		t.Errorf("Text(a) = %q", r.Text(a))
	}
	if string(r.Text(b)) != "fn f() {}" {
		t.Errorf("Text(b) = %q", r.Text(b))
	}
	if got := string(r.Code(Span{Start: rb.Start.Plus(3), End: rb.Start.Plus(4)})); got != "f" {
		t.Errorf("Code = %q, want f", got)
	}
}

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry()
	if _, err := r.AddVirtual("first.rs", []byte("ab\ncd\n")); err != nil {
		t.Fatal(err)
	}
	if _, err := r.AddVirtual("empty.rs", nil); err != nil {
		t.Fatal(err)
	}
	second, err := r.AddVirtual("second.rs", []byte("x\n  y"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		loc  Loc
		want string
	}{
		{0, "first.rs:1:1"},
		{2, "first.rs:1:3"},
		{3, "first.rs:2:1"},
		{4, "first.rs:2:2"},
		{6, "second.rs:1:1"},
		{10, "second.rs:2:3"},
		{100, "@100"},
	}
	for _, tt := range tests {
		if got := r.Format(tt.loc); got != tt.want {
			t.Errorf("Format(%d) = %q, want %q", tt.loc, got, tt.want)
		}
	}

	id, _, ok := r.Resolve(r.Range(second).Start)
	if !ok || id != second {
		t.Errorf("Resolve(start of second) = %d, %v", id, ok)
	}
}

func TestRegistryLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.rs")
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("mod a;\r\nmod b;\r\n")...)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := NewRegistry()
	id, err := r.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := string(r.Text(id)); got != "mod a;\nmod b;\n" {
		t.Errorf("Text = %q", got)
	}
	flags := r.Flags(id)
	if flags&FileHadBOM == 0 || flags&FileNormalizedCRLF == 0 {
		t.Errorf("flags = %b, want BOM and CRLF bits", flags)
	}
}

func TestRegistryLoadMissing(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Load(filepath.Join(t.TempDir(), "nope.rs")); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if r.Len() != 0 {
		t.Errorf("failed load must not register a file")
	}
}
