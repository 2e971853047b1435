package name

import (
	"fmt"
	"testing"
)

func TestInternerSame(t *testing.T) {
	in := NewInterner()
	a := in.Make("foo")
	b := in.Make("foo")
	if a != b {
		t.Fatalf("Make(foo) twice returned %d and %d", a, b)
	}
	if in.Len() != 1 {
		t.Errorf("Len = %d, want 1", in.Len())
	}
	if got := in.Get(a); got != "foo" {
		t.Errorf("Get = %q, want foo", got)
	}
}

func TestInternerDifferent(t *testing.T) {
	in := NewInterner()
	a := in.Make("foo")
	b := in.Make("bar")
	if a == b {
		t.Fatalf("different text got the same id %d", a)
	}
	if in.Get(a) != "foo" || in.Get(b) != "bar" {
		t.Errorf("Get mismatch: %q %q", in.Get(a), in.Get(b))
	}
}

func TestInternerCollisionsCheckedAgainstText(t *testing.T) {
	in := NewInterner()
	// все строки попадают в одну корзину
	in.hash = func(string) uint64 { return 42 }

	words := []string{"alpha", "beta", "gamma", "alpha", "", "beta"}
	ids := make([]ID, len(words))
	for i, w := range words {
		ids[i] = in.Make(w)
	}
	if ids[0] != ids[3] || ids[1] != ids[5] {
		t.Errorf("re-interning under collision must be idempotent: %v", ids)
	}
	seen := map[ID]string{}
	for i, id := range ids {
		if prev, ok := seen[id]; ok && prev != words[i] {
			t.Errorf("id %d shared by %q and %q", id, prev, words[i])
		}
		seen[id] = words[i]
	}
	if in.Len() != 4 {
		t.Errorf("Len = %d, want 4", in.Len())
	}
}

func TestInternerManyNames(t *testing.T) {
	in := NewInterner()
	const n = 2000
	ids := make([]ID, n)
	for i := range n {
		ids[i] = in.Make(fmt.Sprintf("name_%d", i))
	}
	for i := range n {
		want := fmt.Sprintf("name_%d", i)
		if got := in.Get(ids[i]); got != want {
			t.Fatalf("Get(%d) = %q, want %q", ids[i], got, want)
		}
		if again := in.Make(want); again != ids[i] {
			t.Fatalf("Make(%q) = %d, want %d", want, again, ids[i])
		}
	}
	if _, ok := in.Lookup(ID(n)); ok {
		t.Errorf("Lookup of unknown id must fail")
	}
	if len(in.Snapshot()) != n {
		t.Errorf("Snapshot length = %d", len(in.Snapshot()))
	}
}
