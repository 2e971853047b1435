package treefmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"modtree/internal/source"
	"modtree/internal/syntax"
	"modtree/internal/tree"
)

// Options controls printing.
type Options struct {
	Color bool
	// Base shortens file names to paths relative to it.
	Base string
	// MaxDepth stops descending below this depth; 0 means no limit.
	MaxDepth int
	// Exits prints closing records as "end" lines.
	Exits bool
}

type palette struct {
	node, token, ident, errs, loc, slot *color.Color
}

func newPalette(on bool) palette {
	p := palette{
		node:  color.New(color.Bold),
		token: color.New(color.FgCyan),
		ident: color.New(color.FgGreen),
		errs:  color.New(color.FgRed, color.Bold),
		loc:   color.New(color.Faint),
		slot:  color.New(color.FgMagenta),
	}
	for _, c := range []*color.Color{p.node, p.token, p.ident, p.errs, p.loc, p.slot} {
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Tree prints every record reachable from the root, one per line, indented
// by depth. Module declarations show where their slot points.
func Tree(w io.Writer, v View, opts Options) error {
	pal := newPalette(opts.Color)
	reg := v.Sources()
	nodes := v.Nodes()

	var werr error
	err := tree.Walk(nodes, v.Root(), func(r syntax.Record, depth int) bool {
		if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
			return true
		}
		if r.IsExit() && !opts.Exits {
			return true
		}
		var b strings.Builder
		b.WriteString(strings.Repeat("  ", depth))
		switch {
		case r.IsExit():
			b.WriteString(pal.loc.Sprint("end"))
		case r.IsToken():
			if r.HasName {
				fmt.Fprintf(&b, "%s %s", pal.token.Sprint(r.Kind), pal.ident.Sprintf("%q", v.Names().Get(r.Name)))
			} else {
				b.WriteString(pal.token.Sprint(r.Kind))
			}
			b.WriteString(" ")
			b.WriteString(pal.loc.Sprint(location(reg, r.Loc, opts.Base)))
		default:
			if r.Kind == syntax.Error {
				b.WriteString(pal.errs.Sprint(r.Kind))
			} else {
				b.WriteString(pal.node.Sprint(r.Kind))
			}
			if r.HasSlot {
				b.WriteString(" ")
				b.WriteString(pal.slot.Sprint(slotLabel(nodes, r)))
			}
		}
		b.WriteString("\n")
		if _, err := io.WriteString(w, b.String()); err != nil {
			werr = err
			return false
		}
		return true
	})
	if werr != nil {
		return werr
	}
	return err
}

func slotLabel(nodes *syntax.Nodes, r syntax.Record) string {
	if r.Slot == r.Node {
		return "-> unresolved"
	}
	return fmt.Sprintf("-> @%d %s", r.Slot, nodes.KindAt(r.Slot))
}

// location renders loc as file:line:col with the file name relative to base.
func location(reg *source.Registry, loc source.Loc, base string) string {
	id, lc, ok := reg.Resolve(loc)
	if !ok {
		return fmt.Sprintf("@%d", loc)
	}
	return fmt.Sprintf("%s:%d:%d", relName(reg.Name(id), base), lc.Line, lc.Col)
}

func relName(name, base string) string {
	if base == "" {
		return name
	}
	rel, err := filepath.Rel(base, name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return name
	}
	return filepath.ToSlash(rel)
}
