// Package lexer splits source text into tokens, keeping whitespace and
// comments as trivia tokens so byte offsets stay exact.
package lexer

import (
	"math"

	"fortio.org/safecast"

	"modtree/internal/syntax"
)

type lexer struct {
	cursor Cursor
	toks   []Token
}

// Lex tokenizes src. The returned list ends with an Eof token at len(src).
func Lex(src []byte) (*Tokens, error) {
	if uint64(len(src)) > math.MaxUint32 {
		return nil, &Error{Kind: SourceTooLarge, Start: math.MaxUint32, End: math.MaxUint32}
	}
	lx := &lexer{
		cursor: Cursor{Src: src},
		toks:   make([]Token, 0, len(src)/4+1),
	}
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		kind, err := lx.next()
		if err != nil {
			return nil, err
		}
		if err := lx.emit(kind, start); err != nil {
			return nil, err
		}
	}
	eof, _ := safecast.Conv[uint32](len(src)) // проверено выше
	lx.toks = append(lx.toks, Token{Kind: syntax.Eof, Start: eof})
	return &Tokens{toks: lx.toks}, nil
}

func (lx *lexer) emit(kind syntax.Kind, start Mark) error {
	n, err := safecast.Conv[uint16](lx.cursor.Off - uint32(start))
	if err != nil {
		return &Error{Kind: TokenTooLarge, Start: uint32(start), End: lx.cursor.Off}
	}
	lx.toks = append(lx.toks, Token{Kind: kind, Start: uint32(start), Len: n})
	return nil
}

func (lx *lexer) invalid(start Mark) error {
	end := lx.cursor.Off
	if end == uint32(start) {
		end++
	}
	return &Error{Kind: InvalidToken, Start: uint32(start), End: end}
}

// next сканирует один токен и возвращает его вид.
func (lx *lexer) next() (syntax.Kind, error) {
	start := lx.cursor.Mark()
	ch := lx.cursor.Peek()

	switch {
	case isSpace(ch):
		lx.scanWhitespace()
		return syntax.Whitespace, nil

	case ch == '/' && (lx.cursor.PeekAt(1) == '/' || lx.cursor.PeekAt(1) == '*'):
		if !lx.scanComment() {
			return 0, lx.invalid(start)
		}
		return syntax.Comment, nil

	case ch == 'r' && (lx.cursor.PeekAt(1) == '"' || (lx.cursor.PeekAt(1) == '#' && lx.isRawStringHashes(1))):
		lx.cursor.Bump()
		if !lx.scanRawString() {
			return 0, lx.invalid(start)
		}
		return syntax.String, nil

	case ch == 'b' && lx.cursor.PeekAt(1) == '"':
		lx.cursor.Bump()
		if !lx.scanString() {
			return 0, lx.invalid(start)
		}
		return syntax.String, nil

	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		kind, ok := lx.scanIdentOrKeyword()
		if !ok {
			return 0, lx.invalid(start)
		}
		return kind, nil

	case isDec(ch):
		return lx.scanNumber(), nil

	case ch == '"':
		if !lx.scanString() {
			return 0, lx.invalid(start)
		}
		return syntax.String, nil

	case ch == '\'':
		kind, ok := lx.scanQuote()
		if !ok {
			return 0, lx.invalid(start)
		}
		return kind, nil

	default:
		kind, ok := lx.scanPunct()
		if !ok {
			return 0, lx.invalid(start)
		}
		return kind, nil
	}
}
