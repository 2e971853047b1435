package lexer

import "modtree/internal/syntax"

// Пунктуация всегда однобайтовая; составные операторы ("::", "->", "==")
// склеивает парсер, сообщая число входных токенов.
var punct = [256]syntax.Kind{
	';': syntax.Semi,
	',': syntax.Comma,
	':': syntax.Colon,
	'.': syntax.Dot,
	'(': syntax.LParen,
	')': syntax.RParen,
	'{': syntax.LBrace,
	'}': syntax.RBrace,
	'[': syntax.LBracket,
	']': syntax.RBracket,
	'!': syntax.Bang,
	'=': syntax.Eq,
	'<': syntax.Lt,
	'>': syntax.Gt,
	'+': syntax.Plus,
	'-': syntax.Minus,
	'*': syntax.Star,
	'/': syntax.Slash,
	'%': syntax.Percent,
	'&': syntax.Amp,
	'|': syntax.Pipe,
	'^': syntax.Caret,
	'#': syntax.Pound,
	'$': syntax.Dollar,
	'?': syntax.Question,
	'@': syntax.At,
	'~': syntax.Tilde,
}

func (lx *lexer) scanPunct() (syntax.Kind, bool) {
	k := punct[lx.cursor.Peek()]
	if k == syntax.Eof {
		lx.bumpRune()
		return 0, false
	}
	lx.cursor.Bump()
	return k, true
}
