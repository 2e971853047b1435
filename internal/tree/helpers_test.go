package tree

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"modtree/internal/diag"
	"modtree/internal/scope"
	"modtree/internal/source"
	"modtree/internal/syntax"
)

// writeTree creates files under a temp dir and returns the dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return dir
}

// openSession parses dir/main.rs and collects diagnostics into the returned bag.
func openSession(t *testing.T, dir string) (*Session, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(100)
	s, err := New(context.Background(), filepath.Join(dir, "main.rs"), Config{Reporter: diag.BagReporter{Bag: bag}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, bag
}

func expand(t *testing.T, s *Session) {
	t.Helper()
	if err := s.Expand(context.Background()); err != nil {
		t.Fatalf("Expand: %v", err)
	}
}

// moduleRecords returns every Module record reachable from the root,
// expanded files included.
func moduleRecords(t *testing.T, s *Session) []syntax.Record {
	t.Helper()
	var out []syntax.Record
	err := s.Walk(func(r syntax.Record, _ int) bool {
		if r.IsEnter() && r.Kind == syntax.Module {
			out = append(out, r)
		}
		return true
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	return out
}

// identNodes returns the identifier records with the given text.
func identNodes(t *testing.T, s *Session, text string) []syntax.Record {
	t.Helper()
	var out []syntax.Record
	err := s.Walk(func(r syntax.Record, _ int) bool {
		if r.HasName && s.Names().Get(r.Name) == text {
			out = append(out, r)
		}
		return true
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	return out
}

func scopeID(i int) scope.ID { return scope.ID(i) }

func spanAt(loc source.Loc, n uint32) source.Span {
	return source.Span{Start: loc, End: loc.Plus(n)}
}
