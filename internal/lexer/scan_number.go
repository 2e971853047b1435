package lexer

import "modtree/internal/syntax"

// Поддержка: 123, 1_000, 0b..., 0o..., 0x..., 1.5, 1e-3, суффиксы (10u32, 1.0f64).
// "1..2" и "x.0.1" не превращаются в float: после точки обязана идти цифра.
func (lx *lexer) scanNumber() syntax.Kind {
	kind := syntax.IntNumber

	if lx.cursor.Peek() == '0' {
		switch lx.cursor.PeekAt(1) {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			lx.cursor.Bump()
			lx.cursor.Bump()
			for isHex(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
				lx.cursor.Bump()
			}
			lx.scanSuffix()
			return kind
		}
	}

	lx.scanDigits()
	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		kind = syntax.FloatNumber
		lx.cursor.Bump()
		lx.scanDigits()
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		next := lx.cursor.PeekAt(1)
		if isDec(next) || ((next == '+' || next == '-') && isDec(lx.cursor.PeekAt(2))) {
			kind = syntax.FloatNumber
			lx.cursor.Bump()
			if next == '+' || next == '-' {
				lx.cursor.Bump()
			}
			lx.scanDigits()
		}
	}
	lx.scanSuffix()
	return kind
}

func (lx *lexer) scanDigits() {
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
}

func (lx *lexer) scanSuffix() {
	if !isIdentStartByte(lx.cursor.Peek()) {
		return
	}
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}
