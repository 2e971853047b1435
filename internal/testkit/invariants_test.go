package testkit

import (
	"testing"

	"modtree/internal/source"
	"modtree/internal/syntax"
)

func registry(t *testing.T, files ...string) *source.Registry {
	t.Helper()
	reg := source.NewRegistry()
	for i, f := range files {
		if _, err := reg.AddVirtual(string(rune('a'+i))+".rs", []byte(f)); err != nil {
			t.Fatal(err)
		}
	}
	return reg
}

func TestCheckArenaAccepts(t *testing.T) {
	reg := registry(t, "mod a;", "fn")
	n := syntax.NewNodes(64)
	n.PushEnter(syntax.SourceFile)
	m := n.PushEnter(syntax.Module)
	n.PushSlot(m)
	n.PushToken(syntax.ModKw, 0)
	n.PushExit()
	n.PushExit()
	file := n.PushEnter(syntax.SourceFile)
	n.PushToken(syntax.FnKw, 6)
	n.PushExit()
	n.Patch(syntax.SlotOf(m), file)

	if err := CheckArena(n, reg); err != nil {
		t.Fatal(err)
	}
}

func TestCheckArenaRejects(t *testing.T) {
	reg := registry(t, "mod a;")
	tests := []struct {
		name  string
		build func(n *syntax.Nodes)
	}{
		{"unclosed", func(n *syntax.Nodes) {
			n.PushEnter(syntax.SourceFile)
		}},
		{"not a file", func(n *syntax.Nodes) {
			n.PushEnter(syntax.Fn)
			n.PushExit()
		}},
		{"backwards", func(n *syntax.Nodes) {
			n.PushEnter(syntax.SourceFile)
			n.PushToken(syntax.Ident, 4)
			n.PushToken(syntax.ModKw, 0)
			n.PushExit()
		}},
		{"outside", func(n *syntax.Nodes) {
			n.PushEnter(syntax.SourceFile)
			n.PushToken(syntax.Ident, 400)
			n.PushExit()
		}},
		{"bad slot", func(n *syntax.Nodes) {
			n.PushEnter(syntax.SourceFile)
			m := n.PushEnter(syntax.Module)
			n.PushSlot(m)
			n.PushExit()
			n.PushExit()
			n.Patch(syntax.SlotOf(m), m+6) // запись EXIT
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := syntax.NewNodes(64)
			tt.build(n)
			if err := CheckArena(n, reg); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
