package treefmt

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"modtree/internal/lexer"
	"modtree/internal/source"
)

const (
	kindWidth = 14
	textWidth = 28
)

// Tokens prints the lexed tokens of one registered file, trivia included.
func Tokens(w io.Writer, reg *source.Registry, file source.FileID, toks *lexer.Tokens, opts Options) error {
	pal := newPalette(opts.Color)
	trivia := color.New(color.Faint)
	if opts.Color {
		trivia.EnableColor()
	} else {
		trivia.DisableColor()
	}

	base := reg.Range(file).Start
	text := reg.Text(file)
	for i, tok := range toks.All() {
		end := tok.End()
		quoted := strconv.Quote(string(text[tok.Start:end]))
		quoted = runewidth.FillRight(runewidth.Truncate(quoted, textWidth, "..."), textWidth)
		kind := runewidth.FillRight(tok.Kind.String(), kindWidth)

		switch {
		case tok.Kind.IsTrivia():
			kind = trivia.Sprint(kind)
		default:
			kind = pal.token.Sprint(kind)
		}
		loc := location(reg, base.Plus(tok.Start), opts.Base)
		if _, err := fmt.Fprintf(w, "%4d: %s %s %s\n", i+1, kind, quoted, pal.loc.Sprint(loc)); err != nil {
			return err
		}
	}
	return nil
}
