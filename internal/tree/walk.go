package tree

import (
	"modtree/internal/syntax"
)

// Visit receives one decoded record and its depth in the whole-program
// tree. Returning false stops the walk.
type Visit func(r syntax.Record, depth int) bool

// Walk decodes the subtree at start depth-first. A Module record whose slot
// holds the root of another file is followed right after the Module's own
// record, so the walk covers every expanded file. Each file is entered at
// most once even when duplicates point at it.
func Walk(nodes *syntax.Nodes, start syntax.Node, fn Visit) error {
	w := walker{nodes: nodes, fn: fn, seen: make(map[syntax.Node]bool)}
	_, err := w.walk(start, 0)
	return err
}

type walker struct {
	nodes *syntax.Nodes
	fn    Visit
	seen  map[syntax.Node]bool
}

func (w *walker) walk(at syntax.Node, base int) (bool, error) {
	cont := true
	var inner error
	err := syntax.Subtree(w.nodes, at, func(r syntax.Record) bool {
		if !w.fn(r, base+r.Depth) {
			cont = false
			return false
		}
		if !w.followable(r) {
			return true
		}
		w.seen[r.Slot] = true
		ok, err := w.walk(r.Slot, base+r.Depth+1)
		if err != nil {
			inner = err
			return false
		}
		if !ok {
			cont = false
			return false
		}
		return true
	})
	if err != nil {
		return false, err
	}
	if inner != nil {
		return false, inner
	}
	return cont, nil
}

// followable reports a resolved Module slot pointing outside its own record,
// at a file root not yet visited. Slots past the arena end are never followed.
func (w *walker) followable(r syntax.Record) bool {
	if !r.HasSlot || r.Slot == r.Node || w.seen[r.Slot] {
		return false
	}
	if uint64(r.Slot)+syntax.StructuralSize > uint64(w.nodes.Len()) {
		return false
	}
	return w.nodes.KindAt(r.Slot) == syntax.SourceFile
}

// Walk traverses the whole program starting at the root file.
func (s *Session) Walk(fn Visit) error {
	return Walk(s.nodes, s.root, fn)
}
