// Package name interns identifier text into small program-wide ids.
package name

import (
	"fmt"
	"hash/maphash"
	"strings"

	"fortio.org/safecast"
)

// ID is an interned identifier. Equal text always maps to the same ID.
type ID uint32

type span struct{ start, end uint32 }

// Interner keeps every distinct identifier once in a single append-only
// buffer. Lookups compare against the stored text, so hash collisions never
// merge different names.
type Interner struct {
	data    strings.Builder
	spans   []span
	buckets map[uint64][]ID // hash -> кандидаты
	hash    func(string) uint64
}

// NewInterner creates an empty Interner.
func NewInterner() *Interner {
	seed := maphash.MakeSeed()
	return &Interner{
		spans:   make([]span, 0, 256),
		buckets: make(map[uint64][]ID, 256),
		hash:    func(s string) uint64 { return maphash.String(seed, s) },
	}
}

// Make returns the ID of text, interning it on first sight.
func (in *Interner) Make(text string) ID {
	h := in.hash(text)
	for _, id := range in.buckets[h] {
		if in.Get(id) == text {
			return id
		}
	}

	id, err := safecast.Conv[uint32](len(in.spans))
	if err != nil {
		panic(fmt.Errorf("name table overflow: %w", err))
	}
	start, err := safecast.Conv[uint32](in.data.Len())
	if err != nil {
		panic(fmt.Errorf("name buffer overflow: %w", err))
	}
	in.data.WriteString(text)
	end, err := safecast.Conv[uint32](in.data.Len())
	if err != nil {
		panic(fmt.Errorf("name buffer overflow: %w", err))
	}
	in.spans = append(in.spans, span{start: start, end: end})
	in.buckets[h] = append(in.buckets[h], ID(id))
	return ID(id)
}

// MakeBytes is Make for a byte slice; the bytes are copied.
func (in *Interner) MakeBytes(b []byte) ID {
	return in.Make(string(b))
}

// Get returns the text of id. It panics for ids not returned by Make.
func (in *Interner) Get(id ID) string {
	sp := in.spans[id]
	// Builder только дописывает, поэтому срез String() остаётся валидным
	return in.data.String()[sp.start:sp.end]
}

// Lookup returns the text of id and whether id is known.
func (in *Interner) Lookup(id ID) (string, bool) {
	if int(id) >= len(in.spans) {
		return "", false
	}
	return in.Get(id), true
}

// Len returns the number of distinct names.
func (in *Interner) Len() int { return len(in.spans) }

// Snapshot returns every interned name ordered by ID.
func (in *Interner) Snapshot() []string {
	out := make([]string, len(in.spans))
	for i := range in.spans {
		out[i] = in.Get(ID(i))
	}
	return out
}
