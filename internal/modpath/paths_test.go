package modpath

import (
	"testing"

	"modtree/internal/name"
)

func TestRootHasNoParentOrStem(t *testing.T) {
	in := NewInterner()
	root := in.Root()
	if root != Root {
		t.Fatalf("Root() = %d", root)
	}
	if _, ok := in.Parent(root); ok {
		t.Error("root must not have a parent")
	}
	if _, ok := in.Stem(root); ok {
		t.Error("root must not have a stem")
	}
	if len(in.Components(root)) != 0 {
		t.Error("root has no components")
	}
}

func TestChildDedup(t *testing.T) {
	names := name.NewInterner()
	in := NewInterner()
	a := names.Make("a")
	b := names.Make("b")

	pa := in.Child(Root, a)
	if again := in.Child(Root, a); again != pa {
		t.Fatalf("Child(root, a) twice = %d, %d", pa, again)
	}
	pab := in.Child(pa, b)
	pb := in.Child(Root, b)
	if pab == pb {
		t.Fatal("a::b and b must differ")
	}
	if parent, ok := in.Parent(pab); !ok || parent != pa {
		t.Errorf("Parent(a::b) = %d, %v", parent, ok)
	}
	if stem, ok := in.Stem(pab); !ok || stem != b {
		t.Errorf("Stem(a::b) = %d, %v", stem, ok)
	}
	if in.Len() != 4 {
		t.Errorf("Len = %d, want 4", in.Len())
	}
}

func TestComponentsRootToLeaf(t *testing.T) {
	names := name.NewInterner()
	in := NewInterner()
	p := Root
	for _, s := range []string{"net", "http", "client"} {
		p = in.Child(p, names.Make(s))
	}
	comps := in.Components(p)
	var got []string
	for _, c := range comps {
		got = append(got, names.Get(c))
	}
	if len(got) != 3 || got[0] != "net" || got[1] != "http" || got[2] != "client" {
		t.Errorf("Components = %v", got)
	}
	if in.Depth(p) != 3 {
		t.Errorf("Depth = %d", in.Depth(p))
	}
}

func TestFromRecords(t *testing.T) {
	names := name.NewInterner()
	in := NewInterner()
	x := in.Child(Root, names.Make("x"))
	y := in.Child(x, names.Make("y"))

	back, err := FromRecords(in.Records())
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	if got := back.Child(x, names.Make("y")); got != y {
		t.Errorf("rebuilt interner lost child: %d != %d", got, y)
	}

	if _, err := FromRecords([]Record{{Parent: 0}, {Parent: 5}}); err == nil {
		t.Error("forward parent reference must be rejected")
	}
}
