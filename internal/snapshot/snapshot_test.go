package snapshot

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"modtree/internal/modpath"
	"modtree/internal/name"
	"modtree/internal/syntax"
	"modtree/internal/tree"
)

func buildTree(t *testing.T) (*tree.Session, string) {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"main.rs": "mod a;\nmod b { fn inner() {} }\n",
		"a.rs":    "fn alpha() { { } }\n",
	}
	for rel, content := range files {
		if err := os.WriteFile(filepath.Join(dir, rel), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	s, err := tree.Build(context.Background(), filepath.Join(dir, "main.rs"), tree.Config{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return s, dir
}

func TestRoundTrip(t *testing.T) {
	s, dir := buildTree(t)
	path := filepath.Join(dir, "out", "tree.mp")
	if err := Write(path, Capture(s)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	snap, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if !bytes.Equal(snap.Nodes().Bytes(), s.Nodes().Bytes()) {
		t.Fatal("arena differs")
	}
	if snap.Root() != s.Root() || snap.RootScope() != s.RootScope() {
		t.Fatal("root differs")
	}
	if snap.Stats() != s.Stats() {
		t.Fatalf("stats differ: %+v vs %+v", snap.Stats(), s.Stats())
	}
	if snap.Sources().Len() != s.Sources().Len() {
		t.Fatalf("files = %d", snap.Sources().Len())
	}
	if snap.Names().Len() != s.Names().Len() || snap.Paths().Len() != s.Paths().Len() || snap.Scopes().Len() != s.Scopes().Len() {
		t.Fatal("interner sizes differ")
	}

	// каждая запись печатается одинаково
	var live, restored []string
	err = tree.Walk(s.Nodes(), s.Root(), func(r syntax.Record, _ int) bool {
		if r.IsToken() {
			live = append(live, s.Sources().Format(r.Loc))
			if r.HasName {
				live = append(live, s.Names().Get(r.Name))
			}
		}
		return true
	})
	if err != nil {
		t.Fatal(err)
	}
	err = tree.Walk(snap.Nodes(), snap.Root(), func(r syntax.Record, _ int) bool {
		if r.IsToken() {
			restored = append(restored, snap.Sources().Format(r.Loc))
			if r.HasName {
				restored = append(restored, snap.Names().Get(r.Name))
			}
		}
		return true
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(live) == 0 || len(live) != len(restored) {
		t.Fatalf("token count %d vs %d", len(live), len(restored))
	}
	for i := range live {
		if live[i] != restored[i] {
			t.Fatalf("token %d: %q vs %q", i, live[i], restored[i])
		}
	}

	stale, err := snap.Stale()
	if err != nil || len(stale) != 0 {
		t.Fatalf("fresh snapshot reported stale files %v (%v)", stale, err)
	}
}

func TestStale(t *testing.T) {
	s, dir := buildTree(t)
	snap, err := Restore(Capture(s))
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.rs"), []byte("fn beta() {}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	stale, err := snap.Stale()
	if err != nil {
		t.Fatal(err)
	}
	if len(stale) != 1 || filepath.Base(stale[0]) != "a.rs" {
		t.Fatalf("stale = %v", stale)
	}
}

// firstModuleSlot returns the arena offset of the first Module slot.
func firstModuleSlot(t *testing.T, s *tree.Session) syntax.Node {
	t.Helper()
	slot, found := syntax.Node(0), false
	if err := s.Walk(func(r syntax.Record, _ int) bool {
		if r.HasSlot {
			slot, found = syntax.SlotOf(r.Node), true
			return false
		}
		return true
	}); err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("no module record")
	}
	return slot
}

func TestRestoreRejects(t *testing.T) {
	s, _ := buildTree(t)
	slot := firstModuleSlot(t, s)
	tests := []struct {
		name   string
		mutate func(p *Payload)
		want   error
	}{
		{"schema", func(p *Payload) { p.Schema++ }, ErrSchema},
		{"file hash", func(p *Payload) { p.Files[1].Code = []byte("fn x() {}") }, ErrCorrupt},
		{"tree hash", func(p *Payload) { p.TreeHash[0] ^= 1 }, ErrCorrupt},
		{"duplicate name", func(p *Payload) { p.Names = append(p.Names, p.Names[0]) }, ErrCorrupt},
		{"root scope", func(p *Payload) { p.RootScope = uint32(len(p.Scopes)) }, ErrCorrupt},
		{"root", func(p *Payload) { p.Root = uint32(len(p.Arena)) }, ErrCorrupt},
		{"truncated arena", func(p *Payload) { p.Arena = p.Arena[:len(p.Arena)-1] }, ErrCorrupt},
		{"slot past arena", func(p *Payload) { binary.LittleEndian.PutUint32(p.Arena[slot:], 0xFFFFFFF0) }, ErrCorrupt},
		{"slot at arena end", func(p *Payload) { binary.LittleEndian.PutUint32(p.Arena[slot:], uint32(len(p.Arena)-1)) }, ErrCorrupt},
		{"scope path", func(p *Payload) { p.Scopes[len(p.Scopes)-1].Module = modpath.ID(len(p.Paths)) }, ErrCorrupt},
		{"path stem", func(p *Payload) { p.Paths[1].Stem = name.ID(len(p.Names)) }, ErrCorrupt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Capture(s)
			tt.mutate(p)
			if _, err := Restore(p); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReadGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.mp")
	if err := os.WriteFile(path, []byte{0xc1, 0x00}, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); err == nil {
		t.Fatal("expected a decode error")
	}
}
