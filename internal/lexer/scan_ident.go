package lexer

import "modtree/internal/syntax"

// scanIdentOrKeyword сканирует идентификатор и проверяет через LookupKeyword.
// Одиночный '_' - это Underscore.
func (lx *lexer) scanIdentOrKeyword() (syntax.Kind, bool) {
	start := lx.cursor.Off

	r, sz := lx.peekRune()
	if sz == 0 {
		return 0, false
	}
	if r < utf8RuneSelf {
		lx.cursor.Bump()
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	} else {
		if !isIdentStartRune(r) {
			lx.bumpRune()
			return 0, false
		}
		lx.bumpRune()
	}
	// хвост может смешивать ASCII и Unicode
	for {
		r2, sz2 := lx.peekRune()
		if sz2 == 0 || !isIdentContinueRune(r2) {
			break
		}
		lx.bumpRune()
	}

	text := lx.cursor.Src[start:lx.cursor.Off]
	if len(text) == 1 && text[0] == '_' {
		return syntax.Underscore, true
	}
	if k, ok := syntax.LookupKeyword(string(text)); ok {
		return k, true
	}
	return syntax.Ident, true
}
