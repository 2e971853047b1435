package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"modtree/internal/modpath"
	"modtree/internal/name"
	"modtree/internal/scope"
	"modtree/internal/source"
	"modtree/internal/syntax"
	"modtree/internal/tree"
)

// Current schema version - increment when Payload format changes
const SchemaVersion uint16 = 1

var (
	// ErrSchema reports a payload written by an incompatible version.
	ErrSchema = errors.New("snapshot schema mismatch")
	// ErrCorrupt reports a payload that decodes but does not describe a
	// consistent session.
	ErrCorrupt = errors.New("corrupt snapshot")
)

// FilePayload is one registry entry.
type FilePayload struct {
	Name  string
	Flags uint8
	Code  []byte
	Hash  Digest
}

// Payload is the on-disk form.
type Payload struct {
	Schema uint16

	Files  []FilePayload
	Names  []string
	Paths  []modpath.Record
	Scopes []scope.Record
	Arena  []byte

	Root      uint32
	RootScope uint32
	Stats     tree.Stats

	TreeHash Digest // Combine по всем файлам
}

// Snapshot is a read-only session image.
type Snapshot struct {
	sources   *source.Registry
	names     *name.Interner
	paths     *modpath.Interner
	scopes    *scope.Table
	nodes     *syntax.Nodes
	root      syntax.Node
	rootScope scope.ID
	stats     tree.Stats
	hashes    []Digest
}

// Capture copies the state of s into a payload.
func Capture(s *tree.Session) *Payload {
	reg := s.Sources()
	p := &Payload{
		Schema:    SchemaVersion,
		Files:     make([]FilePayload, reg.Len()),
		Names:     s.Names().Snapshot(),
		Paths:     s.Paths().Records(),
		Scopes:    s.Scopes().Records(),
		Arena:     append([]byte(nil), s.Nodes().Bytes()...),
		Root:      uint32(s.Root()),
		RootScope: uint32(s.RootScope()),
		Stats:     s.Stats(),
	}
	hashes := make([]Digest, reg.Len())
	for i := range p.Files {
		id := source.FileID(i) // Len ограничен uint16
		code := reg.Text(id)
		hashes[i] = Sum(code)
		p.Files[i] = FilePayload{
			Name:  reg.Name(id),
			Flags: uint8(reg.Flags(id)),
			Code:  append([]byte(nil), code...),
			Hash:  hashes[i],
		}
	}
	p.TreeHash = Combine(hashes...)
	return p
}

// Write serializes the payload to path, replacing it atomically.
func Write(path string, p *Payload) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), path)
}

// Read decodes a payload and rebuilds the session image.
func Read(path string) (*Snapshot, error) {
	// #nosec G304 -- path is provided by the caller
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var p Payload
	if err := msgpack.NewDecoder(f).Decode(&p); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	snap, err := Restore(&p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

// Restore rebuilds a Snapshot from a decoded payload.
func Restore(p *Payload) (*Snapshot, error) {
	if p.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchema, p.Schema, SchemaVersion)
	}
	snap := &Snapshot{
		sources: source.NewRegistry(),
		names:   name.NewInterner(),
		nodes:   syntax.FromBytes(p.Arena),
		stats:   p.Stats,
		hashes:  make([]Digest, len(p.Files)),
	}
	for i, fp := range p.Files {
		if Sum(fp.Code) != fp.Hash {
			return nil, fmt.Errorf("%w: file %s content does not match its hash", ErrCorrupt, fp.Name)
		}
		if _, err := snap.sources.Add(fp.Name, fp.Code, source.FileFlags(fp.Flags)); err != nil {
			return nil, err
		}
		snap.hashes[i] = fp.Hash
	}
	if Combine(snap.hashes...) != p.TreeHash {
		return nil, fmt.Errorf("%w: tree hash mismatch", ErrCorrupt)
	}
	for i, text := range p.Names {
		if id := snap.names.Make(text); int(id) != i {
			return nil, fmt.Errorf("%w: name %q interned twice", ErrCorrupt, text)
		}
	}

	var err error
	if snap.paths, err = modpath.FromRecords(p.Paths); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	for i, r := range p.Paths[1:] {
		if _, ok := snap.names.Lookup(r.Stem); !ok {
			return nil, fmt.Errorf("%w: path %d names unknown id %d", ErrCorrupt, i+1, r.Stem)
		}
	}
	if snap.scopes, err = scope.FromRecords(p.Scopes); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	for i, r := range p.Scopes {
		if int(r.Module) >= snap.paths.Len() {
			return nil, fmt.Errorf("%w: scope %d owned by unknown path %d", ErrCorrupt, i, r.Module)
		}
	}
	if int(p.RootScope) >= len(p.Scopes) {
		return nil, fmt.Errorf("%w: root scope %d out of range", ErrCorrupt, p.RootScope)
	}
	snap.rootScope = scope.ID(p.RootScope)
	snap.root = syntax.Node(p.Root)
	if err := snap.check(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return snap, nil
}

// check walks the whole tree once so later printing cannot hit a truncated
// record or a name outside the interner.
func (s *Snapshot) check() error {
	size := uint64(s.nodes.Len())
	if uint64(s.root)+syntax.StructuralSize > size {
		return fmt.Errorf("root %d outside the arena", s.root)
	}
	var bad error
	err := tree.Walk(s.nodes, s.root, func(r syntax.Record, _ int) bool {
		if r.HasSlot && uint64(r.Slot)+syntax.StructuralSize > size {
			bad = fmt.Errorf("module %d points past the arena at %d", r.Node, r.Slot)
			return false
		}
		if r.HasName {
			if _, ok := s.names.Lookup(r.Name); !ok {
				bad = fmt.Errorf("record %d names unknown id %d", r.Node, r.Name)
				return false
			}
		}
		return true
	})
	if err != nil {
		return err
	}
	return bad
}

// Sources returns the restored registry.
func (s *Snapshot) Sources() *source.Registry { return s.sources }

// Names returns the restored name interner.
func (s *Snapshot) Names() *name.Interner { return s.names }

// Paths returns the restored path interner.
func (s *Snapshot) Paths() *modpath.Interner { return s.paths }

// Scopes returns the restored scope table.
func (s *Snapshot) Scopes() *scope.Table { return s.scopes }

// Nodes returns the restored arena.
func (s *Snapshot) Nodes() *syntax.Nodes { return s.nodes }

// Root returns the root SourceFile node.
func (s *Snapshot) Root() syntax.Node { return s.root }

// RootScope returns the root module scope.
func (s *Snapshot) RootScope() scope.ID { return s.rootScope }

// Stats returns the counters captured with the session.
func (s *Snapshot) Stats() tree.Stats { return s.stats }

// Stale returns the files whose on-disk content no longer matches the
// snapshot. Virtual files are skipped.
func (s *Snapshot) Stale() ([]string, error) {
	var out []string
	probe := source.NewRegistry()
	for i, want := range s.hashes {
		id := source.FileID(i)
		if s.sources.Flags(id)&source.FileVirtual != 0 {
			continue
		}
		fid, err := probe.Load(s.sources.Name(id))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				out = append(out, s.sources.Name(id))
				continue
			}
			return nil, err
		}
		if Sum(probe.Text(fid)) != want {
			out = append(out, s.sources.Name(id))
		}
	}
	return out, nil
}
