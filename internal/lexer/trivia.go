package lexer

// scanWhitespace коалесцирует подряд идущие пробельные байты в один токен.
func (lx *lexer) scanWhitespace() {
	for !lx.cursor.EOF() && isSpace(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

// scanComment съедает //... до \n или /* ... */ с вложенностью.
// Возвращает false для незакрытого блочного комментария.
func (lx *lexer) scanComment() bool {
	lx.cursor.Bump() // '/'
	if lx.cursor.Eat('/') {
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		return true
	}
	lx.cursor.Bump() // '*'
	depth := 1
	for !lx.cursor.EOF() {
		b0, b1 := lx.cursor.Peek(), lx.cursor.PeekAt(1)
		switch {
		case b0 == '/' && b1 == '*':
			lx.cursor.Bump()
			lx.cursor.Bump()
			depth++
		case b0 == '*' && b1 == '/':
			lx.cursor.Bump()
			lx.cursor.Bump()
			depth--
			if depth == 0 {
				return true
			}
		default:
			lx.cursor.Bump()
		}
	}
	return false
}
