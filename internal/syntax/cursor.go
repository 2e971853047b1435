package syntax

import (
	"encoding/binary"
	"errors"
	"fmt"

	"modtree/internal/name"
	"modtree/internal/source"
)

// ErrTruncated reports a record cut short by the end of the arena.
var ErrTruncated = errors.New("truncated arena record")

// Record is one decoded arena entry.
type Record struct {
	Node Node
	Kind Kind // Exit для закрывающих записей
	// Depth is the nesting level the record sits at: an Enter and its
	// matching Exit report the same depth.
	Depth int

	Loc     source.Loc // tokens only
	Name    name.ID    // valid when HasName
	HasName bool
	Slot    Node // valid when HasSlot
	HasSlot bool
}

// IsExit reports whether the record closes a structural record.
func (r Record) IsExit() bool { return r.Kind == Exit }

// IsToken reports whether the record is a token.
func (r Record) IsToken() bool { return r.Kind != Exit && r.Kind.IsToken() }

// IsEnter reports whether the record opens a structural record.
func (r Record) IsEnter() bool { return r.Kind != Exit && !r.Kind.IsToken() }

// Cursor decodes records forward from a start node.
type Cursor struct {
	data  []byte
	pos   int
	depth int
	err   error
}

// NewCursor starts decoding at start.
func NewCursor(n *Nodes, start Node) *Cursor {
	return &Cursor{data: n.data, pos: int(start)}
}

// Next decodes the next record. It returns false at the end of the arena or
// on a decoding error; check Err afterwards.
func (c *Cursor) Next() (Record, bool) {
	if c.err != nil || c.pos >= len(c.data) {
		return Record{}, false
	}
	at := c.pos
	tag, ok := c.u16()
	if !ok {
		return Record{}, false
	}
	rec := Record{Node: Node(at), Kind: Kind(tag)}

	switch {
	case rec.Kind == Exit:
		if c.depth == 0 {
			c.err = fmt.Errorf("unbalanced exit at %d", at)
			return Record{}, false
		}
		c.depth--
		rec.Depth = c.depth
	case rec.Kind.IsToken():
		rec.Depth = c.depth
		loc, ok := c.u32()
		if !ok {
			return Record{}, false
		}
		rec.Loc = source.Loc(loc)
		if rec.Kind.HasName() {
			nm, ok := c.u32()
			if !ok {
				return Record{}, false
			}
			rec.Name, rec.HasName = name.ID(nm), true
		}
	default:
		rec.Depth = c.depth
		if rec.Kind.HasSlot() {
			slot, ok := c.u32()
			if !ok {
				return Record{}, false
			}
			rec.Slot, rec.HasSlot = Node(slot), true
		}
		c.depth++
	}
	return rec, true
}

// Depth returns the number of currently open structural records.
func (c *Cursor) Depth() int { return c.depth }

// Pos returns the Node the next record will be decoded from.
func (c *Cursor) Pos() Node { return Node(c.pos) }

// Err returns the first decoding error.
func (c *Cursor) Err() error { return c.err }

func (c *Cursor) u16() (uint16, bool) {
	if c.pos+2 > len(c.data) {
		c.err = fmt.Errorf("at %d: %w", c.pos, ErrTruncated)
		return 0, false
	}
	v := binary.LittleEndian.Uint16(c.data[c.pos:])
	c.pos += 2
	return v, true
}

func (c *Cursor) u32() (uint32, bool) {
	if c.pos+4 > len(c.data) {
		c.err = fmt.Errorf("at %d: %w", c.pos, ErrTruncated)
		return 0, false
	}
	v := binary.LittleEndian.Uint32(c.data[c.pos:])
	c.pos += 4
	return v, true
}

// Subtree calls fn for the record at start and every record up to and
// including its matching Exit. A token start yields just that token.
func Subtree(n *Nodes, start Node, fn func(Record) bool) error {
	c := NewCursor(n, start)
	for {
		rec, ok := c.Next()
		if !ok {
			if err := c.Err(); err != nil {
				return err
			}
			return fmt.Errorf("subtree at %d is not closed: %w", start, ErrTruncated)
		}
		if !fn(rec) {
			return nil
		}
		if c.Depth() == 0 {
			return nil
		}
	}
}
