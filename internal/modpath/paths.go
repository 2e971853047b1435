// Package modpath interns module paths as a trie of (parent, stem) records.
package modpath

import (
	"fmt"

	"fortio.org/safecast"

	"modtree/internal/name"
)

// ID identifies a module path. Root is the synthetic crate root.
type ID uint32

// Root is always the first record and is its own parent.
const Root ID = 0

type record struct {
	parent ID
	stem   name.ID
}

type key struct {
	parent ID
	stem   name.ID
}

// Interner assigns stable ids to module paths independent of discovery order.
type Interner struct {
	data     []record
	children map[key]ID
}

// NewInterner creates an Interner holding only the root.
func NewInterner() *Interner {
	return &Interner{
		// stem корня не используется
		data:     []record{{parent: Root}},
		children: make(map[key]ID),
	}
}

// Root returns the root path.
func (in *Interner) Root() ID { return Root }

// Child returns the path parent::stem, creating it on first use.
func (in *Interner) Child(parent ID, stem name.ID) ID {
	if int(parent) >= len(in.data) {
		panic(fmt.Errorf("modpath: unknown parent %d", parent))
	}
	k := key{parent: parent, stem: stem}
	if id, ok := in.children[k]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(in.data))
	if err != nil {
		panic(fmt.Errorf("module path table overflow: %w", err))
	}
	id := ID(n)
	in.data = append(in.data, record{parent: parent, stem: stem})
	in.children[k] = id
	return id
}

// IsRoot reports whether p is its own parent.
func (in *Interner) IsRoot(p ID) bool { return in.data[p].parent == p }

// Stem returns the last component of p; false for the root.
func (in *Interner) Stem(p ID) (name.ID, bool) {
	if in.IsRoot(p) {
		return 0, false
	}
	return in.data[p].stem, true
}

// Parent returns the enclosing path of p; false for the root.
func (in *Interner) Parent(p ID) (ID, bool) {
	if in.IsRoot(p) {
		return 0, false
	}
	return in.data[p].parent, true
}

// Components returns the stems of p from the root down.
func (in *Interner) Components(p ID) []name.ID {
	var out []name.ID
	for {
		stem, ok := in.Stem(p)
		if !ok {
			break
		}
		out = append(out, stem)
		p = in.data[p].parent
	}
	// собирали от листа к корню
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Depth returns the number of components of p.
func (in *Interner) Depth(p ID) int {
	d := 0
	for !in.IsRoot(p) {
		p = in.data[p].parent
		d++
	}
	return d
}

// Len returns the number of paths, root included.
func (in *Interner) Len() int { return len(in.data) }

// Record is the exported form of a path entry, used for snapshots.
type Record struct {
	Parent ID
	Stem   name.ID
}

// Records returns a copy of every entry ordered by ID.
func (in *Interner) Records() []Record {
	out := make([]Record, len(in.data))
	for i, r := range in.data {
		out[i] = Record{Parent: r.parent, Stem: r.stem}
	}
	return out
}

// FromRecords rebuilds an Interner. Every parent must precede its child.
func FromRecords(recs []Record) (*Interner, error) {
	if len(recs) == 0 || recs[0].Parent != Root {
		return nil, fmt.Errorf("modpath: missing root record")
	}
	in := &Interner{
		data:     make([]record, 0, len(recs)),
		children: make(map[key]ID, len(recs)),
	}
	in.data = append(in.data, record{parent: Root, stem: recs[0].Stem})
	for i, r := range recs[1:] {
		id := ID(i + 1)
		if r.Parent >= id {
			return nil, fmt.Errorf("modpath: record %d refers to later parent %d", id, r.Parent)
		}
		in.data = append(in.data, record{parent: r.Parent, stem: r.Stem})
		in.children[key{parent: r.Parent, stem: r.Stem}] = id
	}
	return in, nil
}
