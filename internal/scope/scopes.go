// Package scope records lexical scopes: which module owns a tree position
// and which scope encloses it.
package scope

import (
	"fmt"

	"fortio.org/safecast"

	"modtree/internal/modpath"
	"modtree/internal/syntax"
)

// ID identifies a scope. A module-rooted scope is its own parent.
type ID uint32

type data struct {
	module modpath.ID
	parent ID
	node   syntax.Node
}

// Table is an append-only arena of scopes.
type Table struct {
	data []data
}

// NewTable creates an empty Table.
func NewTable() *Table {
	return &Table{data: make([]data, 0, 64)}
}

// Push adds a scope anchored at node. hasParent=false creates a
// module-rooted scope.
func (t *Table) Push(module modpath.ID, parent ID, hasParent bool, node syntax.Node) ID {
	n, err := safecast.Conv[uint32](len(t.data))
	if err != nil {
		panic(fmt.Errorf("scope table overflow: %w", err))
	}
	id := ID(n)
	if !hasParent {
		parent = id
	}
	t.data = append(t.data, data{module: module, parent: parent, node: node})
	return id
}

// PushModule adds a module-rooted scope.
func (t *Table) PushModule(module modpath.ID, node syntax.Node) ID {
	return t.Push(module, 0, false, node)
}

// PushNested adds a scope inside parent, inheriting its module.
func (t *Table) PushNested(parent ID, node syntax.Node) ID {
	return t.Push(t.Module(parent), parent, true, node)
}

// Module returns the module path owning s.
func (t *Table) Module(s ID) modpath.ID { return t.data[s].module }

// Parent returns the enclosing scope; false for a module-rooted scope.
func (t *Table) Parent(s ID) (ID, bool) {
	p := t.data[s].parent
	if p == s {
		return 0, false
	}
	return p, true
}

// Node returns the tree node the scope is anchored at.
func (t *Table) Node(s ID) syntax.Node { return t.data[s].node }

// ModuleRoot walks parents up to the nearest module-rooted scope.
func (t *Table) ModuleRoot(s ID) ID {
	for {
		p, ok := t.Parent(s)
		if !ok {
			return s
		}
		s = p
	}
}

// Len returns the number of scopes.
func (t *Table) Len() int { return len(t.data) }

// Truncate forgets every scope with an ID >= n.
func (t *Table) Truncate(n int) {
	if n < len(t.data) {
		t.data = t.data[:n]
	}
}

// Record is the exported form of a scope, used for snapshots.
type Record struct {
	Module modpath.ID
	Parent ID
	Node   syntax.Node
}

// Records returns a copy of every scope ordered by ID.
func (t *Table) Records() []Record {
	out := make([]Record, len(t.data))
	for i, d := range t.data {
		out[i] = Record{Module: d.module, Parent: d.parent, Node: d.node}
	}
	return out
}

// FromRecords rebuilds a Table from Records output.
func FromRecords(recs []Record) (*Table, error) {
	t := &Table{data: make([]data, len(recs))}
	for i, r := range recs {
		if int(r.Parent) > i {
			return nil, fmt.Errorf("scope %d refers to later parent %d", i, r.Parent)
		}
		t.data[i] = data{module: r.Module, parent: r.Parent, node: r.Node}
	}
	return t, nil
}
