// Package testkit holds checks shared by tests of packages that produce
// node arenas.
package testkit

import (
	"fmt"

	"modtree/internal/source"
	"modtree/internal/syntax"
)

// CheckArena runs a minimal set of invariants over a whole arena:
// 1) records decode and every top-level subtree is a closed SOURCE_FILE
// 2) tokens of one file lie inside that file and never move backwards
// 3) a Module slot is unresolved (points at itself) or points at an
// ITEM_LIST or SOURCE_FILE record
func CheckArena(nodes *syntax.Nodes, reg *source.Registry) error {
	if nodes == nil || reg == nil {
		return fmt.Errorf("nil arena or registry")
	}
	c := syntax.NewCursor(nodes, 0)

	var (
		file    source.FileID
		hasFile bool
		last    source.Loc
	)
	for {
		r, ok := c.Next()
		if !ok {
			break
		}
		if r.Depth == 0 && r.IsEnter() {
			if r.Kind != syntax.SourceFile {
				return fmt.Errorf("top-level record %d is %s", r.Node, r.Kind)
			}
			hasFile = false
		}
		switch {
		case r.IsToken():
			id, ok := reg.FileAt(r.Loc)
			if !ok {
				return fmt.Errorf("token %d at %d is outside every file", r.Node, r.Loc)
			}
			if hasFile && id != file {
				return fmt.Errorf("token %d jumps from file %d to %d", r.Node, file, id)
			}
			if hasFile && r.Loc < last {
				return fmt.Errorf("token %d at %d precedes previous token at %d", r.Node, r.Loc, last)
			}
			file, last, hasFile = id, r.Loc, true
		case r.HasSlot:
			if r.Slot == r.Node {
				continue
			}
			if int(r.Slot) >= nodes.Len() {
				return fmt.Errorf("module %d slot %d is outside the arena", r.Node, r.Slot)
			}
			if k := nodes.KindAt(r.Slot); k != syntax.ItemList && k != syntax.SourceFile {
				return fmt.Errorf("module %d slot points at %s", r.Node, k)
			}
		}
	}
	if err := c.Err(); err != nil {
		return err
	}
	if c.Depth() != 0 {
		return fmt.Errorf("arena ends with %d open records", c.Depth())
	}
	return nil
}
