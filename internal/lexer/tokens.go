package lexer

import "modtree/internal/syntax"

// Token is one lexed token, trivia included.
type Token struct {
	Kind  syntax.Kind
	Start uint32
	Len   uint16
}

// End returns the exclusive end offset.
func (t Token) End() uint32 { return t.Start + uint32(t.Len) }

// Tokens is the full token list of one file, terminated by an Eof token.
type Tokens struct {
	toks []Token
}

// Len returns the number of tokens including Eof.
func (t *Tokens) Len() int { return len(t.toks) }

// At returns the i-th token.
func (t *Tokens) At(i int) Token { return t.toks[i] }

// Kind returns the kind of the i-th token; Eof past the end.
func (t *Tokens) Kind(i int) syntax.Kind {
	if i >= len(t.toks) {
		return syntax.Eof
	}
	return t.toks[i].Kind
}

// Range returns the in-file byte range of the i-th token.
func (t *Tokens) Range(i int) (start, end uint32) {
	tok := t.toks[i]
	return tok.Start, tok.End()
}

// All returns the underlying slice. READONLY
func (t *Tokens) All() []Token { return t.toks }
