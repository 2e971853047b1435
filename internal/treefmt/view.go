package treefmt

import (
	"modtree/internal/name"
	"modtree/internal/source"
	"modtree/internal/syntax"
	"modtree/internal/tree"
)

// View is the read side shared by tree.Session and snapshot.Snapshot.
type View interface {
	Sources() *source.Registry
	Names() *name.Interner
	Nodes() *syntax.Nodes
	Root() syntax.Node
	Stats() tree.Stats
}
