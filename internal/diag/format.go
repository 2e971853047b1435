package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"modtree/internal/source"
)

// Locator resolves a global location to "file:line:col".
type Locator interface {
	Format(loc source.Loc) string
}

// FormatOptions controls terminal rendering.
type FormatOptions struct {
	Color bool
	Notes bool
}

// Format writes one line per diagnostic:
//
//	error SYN2001 main.rs:3:5 expected `;`
func Format(w io.Writer, items []Diagnostic, loc Locator, opts FormatOptions) error {
	noteColor := color.New(color.FgBlue)
	setColor(noteColor, opts.Color)

	for _, d := range items {
		sev := d.Severity.paint(opts.Color).Sprint(d.Severity)
		if _, err := fmt.Fprintf(w, "%s %s %s %s\n", sev, d.Code.ID(), loc.Format(d.Primary.Start), oneLine(d.Message)); err != nil {
			return err
		}
		if !opts.Notes {
			continue
		}
		for _, n := range d.Notes {
			if _, err := fmt.Fprintf(w, "  %s %s %s\n", noteColor.Sprint("note"), loc.Format(n.Span.Start), oneLine(n.Msg)); err != nil {
				return err
			}
		}
	}
	return nil
}

func setColor(c *color.Color, on bool) {
	if on {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
