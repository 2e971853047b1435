package lexer

import "modtree/internal/syntax"

// scanString: "..." с escape-последовательностями; переводы строк разрешены.
// Курсор стоит на открывающей кавычке.
func (lx *lexer) scanString() bool {
	lx.cursor.Bump() // '"'
	for !lx.cursor.EOF() {
		switch lx.cursor.Bump() {
		case '"':
			return true
		case '\\':
			if lx.cursor.EOF() {
				return false
			}
			lx.cursor.Bump()
		}
	}
	return false
}

// isRawStringHashes проверяет, что с позиции at идут '#'* и затем '"'.
func (lx *lexer) isRawStringHashes(at uint32) bool {
	for lx.cursor.PeekAt(at) == '#' {
		at++
	}
	return lx.cursor.PeekAt(at) == '"'
}

// scanRawString: r"..." или r#"..."#; курсор стоит после 'r'.
func (lx *lexer) scanRawString() bool {
	hashes := 0
	for lx.cursor.Eat('#') {
		hashes++
	}
	if !lx.cursor.Eat('"') {
		return false
	}
	for !lx.cursor.EOF() {
		if lx.cursor.Bump() != '"' {
			continue
		}
		n := 0
		for n < hashes && lx.cursor.Peek() == '#' {
			lx.cursor.Bump()
			n++
		}
		if n == hashes {
			return true
		}
	}
	return false
}

// scanQuote различает символьный литерал ('a', '\n') и lifetime ('a, 'static).
func (lx *lexer) scanQuote() (syntax.Kind, bool) {
	lx.cursor.Bump() // '\''
	if lx.cursor.Peek() == '\\' {
		lx.cursor.Bump()
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\'' && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		return syntax.Char, lx.cursor.Eat('\'')
	}

	r, sz := lx.peekRune()
	if sz == 0 {
		return 0, false
	}
	isIdent := (r < utf8RuneSelf && isIdentStartByte(byte(r))) || (r >= utf8RuneSelf && isIdentStartRune(r))
	lx.bumpRune()
	if lx.cursor.Eat('\'') {
		return syntax.Char, true
	}
	if !isIdent {
		return 0, false
	}
	for {
		r2, sz2 := lx.peekRune()
		if sz2 == 0 || !isIdentContinueRune(r2) {
			break
		}
		lx.bumpRune()
	}
	return syntax.Lifetime, true
}
