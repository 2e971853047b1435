package syntax

import (
	"encoding/binary"
	"fmt"

	"fortio.org/safecast"

	"modtree/internal/name"
	"modtree/internal/source"
)

// Node is a byte offset into the arena where a record starts.
type Node uint32

// Record sizes in bytes.
const (
	TokenSize      = 6  // kind + loc
	IdentSize      = 10 // kind + loc + name
	StructuralSize = 2  // kind
	SlotSize       = 4  // reserved backpatch slot
	ExitSize       = 2
)

// Nodes is the append-only arena. Every record is encoded little-endian with
// a fixed width per shape; the only in-place mutation is Patch.
type Nodes struct {
	data []byte
}

// NewNodes creates an arena; capHint is the initial capacity in bytes.
func NewNodes(capHint uint) *Nodes {
	return &Nodes{data: make([]byte, 0, capHint)}
}

// FromBytes wraps an encoded arena, e.g. one read back from a snapshot.
func FromBytes(data []byte) *Nodes {
	return &Nodes{data: data}
}

// NextIndex returns the Node the next push will land on.
func (n *Nodes) NextIndex() Node {
	i, err := safecast.Conv[uint32](len(n.data))
	if err != nil {
		panic(fmt.Errorf("node arena overflow: %w", err))
	}
	return Node(i)
}

func (n *Nodes) push16(v uint16) Node {
	at := n.NextIndex()
	n.data = binary.LittleEndian.AppendUint16(n.data, v)
	return at
}

func (n *Nodes) push32(v uint32) Node {
	at := n.NextIndex()
	n.data = binary.LittleEndian.AppendUint32(n.data, v)
	return at
}

// PushToken appends a non-identifier token record.
func (n *Nodes) PushToken(k Kind, loc source.Loc) Node {
	at := n.push16(uint16(k))
	n.push32(uint32(loc))
	return at
}

// PushIdent appends an identifier token record carrying its interned name.
func (n *Nodes) PushIdent(k Kind, loc source.Loc, nm name.ID) Node {
	at := n.PushToken(k, loc)
	n.push32(uint32(nm))
	return at
}

// PushEnter opens a structural record.
func (n *Nodes) PushEnter(k Kind) Node {
	return n.push16(uint16(k))
}

// PushSlot reserves a 4-byte backpatch slot holding initial.
func (n *Nodes) PushSlot(initial Node) Node {
	return n.push32(uint32(initial))
}

// PushExit closes the innermost open structural record.
func (n *Nodes) PushExit() Node {
	return n.push16(uint16(Exit))
}

// Patch overwrites a previously reserved slot. The arena never grows here.
func (n *Nodes) Patch(slot Node, target Node) {
	end := uint64(slot) + SlotSize
	if end > uint64(len(n.data)) {
		panic(fmt.Errorf("patch of slot %d outside arena of %d bytes", slot, len(n.data)))
	}
	binary.LittleEndian.PutUint32(n.data[slot:end], uint32(target))
}

// SlotOf returns the slot position of a Module record opened at node.
func SlotOf(node Node) Node { return node + StructuralSize }

// Slot reads the value stored in the slot of the Module record at node.
func (n *Nodes) Slot(node Node) Node {
	at := SlotOf(node)
	return Node(binary.LittleEndian.Uint32(n.data[at : at+SlotSize]))
}

// KindAt returns the kind tag of the record at node.
func (n *Nodes) KindAt(node Node) Kind {
	return Kind(binary.LittleEndian.Uint16(n.data[node : node+2]))
}

// Len returns the arena size in bytes.
func (n *Nodes) Len() int { return len(n.data) }

// Truncate drops every record at or after at. Used to undo a file that
// failed halfway; at must be a value NextIndex returned earlier.
func (n *Nodes) Truncate(at Node) {
	if uint64(at) > uint64(len(n.data)) {
		panic(fmt.Errorf("truncate to %d beyond arena of %d bytes", at, len(n.data)))
	}
	n.data = n.data[:at]
}

// Bytes exposes the encoded arena. READONLY
func (n *Nodes) Bytes() []byte { return n.data }
