package lexer

// Cursor представляет собой позицию в тексте файла
type Cursor struct {
	Src []byte
	Off uint32
}

// EOF проверяет, достигнут ли конец текста
func (c *Cursor) EOF() bool {
	return int(c.Off) >= len(c.Src)
}

// Peek читает текущий байт, если есть, иначе возвращает 0
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.Src[c.Off]
}

// PeekAt читает байт на n позиций впереди, иначе 0
func (c *Cursor) PeekAt(n uint32) byte {
	i := int(c.Off) + int(n)
	if i >= len(c.Src) {
		return 0
	}
	return c.Src[i]
}

// Bump перемещает курсор на один байт вперед и возвращает прочитанный байт
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.Src[c.Off]
	c.Off++
	return b
}

// Eat consumes the next byte if it matches b.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.Src[c.Off] == b {
		c.Off++
		return true
	}
	return false
}

// Mark это метка начала читаемого фрагмента
type Mark uint32

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark { return Mark(c.Off) }

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) { c.Off = uint32(m) }
