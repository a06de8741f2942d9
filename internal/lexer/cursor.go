package lexer

import (
	"fmt"
	"unicode/utf8"

	"shisp/internal/source"

	"fortio.org/safecast"
)

// Cursor представляет собой позицию в файле.
// Line и Col считаются с нуля; Col считается в рунах.
type Cursor struct {
	File *source.File
	Off  uint32
	// Limit is the exclusive upper bound for Off; defaults to len(File.Content).
	Limit uint32
	Line  uint32
	Col   uint32
}

// NewCursor creates a new cursor for the provided file.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{
		File:  f,
		Limit: limit,
	}
}

// EOF проверяет, достигнут ли конец файла
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// Peek читает текущий байт, если есть, иначе возвращает 0
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Content[c.Off]
}

// Peek2 читает текущий и следующий байт, если есть, иначе возвращает 0, 0, false
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= c.Limit {
		return 0, 0, false
	}
	return c.File.Content[c.Off], c.File.Content[c.Off+1], true
}

// PeekRune декодирует руну под курсором. На EOF возвращает size 0.
func (c *Cursor) PeekRune() (r rune, size int) {
	if c.EOF() {
		return utf8.RuneError, 0
	}
	b := c.File.Content[c.Off]
	if b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(c.File.Content[c.Off:c.Limit])
}

// Bump сдвигает курсор на одну руну, обновляя колонку.
// Переводы строки двигают курсор через NewLine, а не через Bump.
func (c *Cursor) Bump() rune {
	r, sz := c.PeekRune()
	if sz == 0 {
		return 0
	}
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("rune size overflow: %w", err))
	}
	c.Off += usz
	c.Col++
	return r
}

// NewLine consumes "\n" or "\r\n" and moves to the start of the next line.
// It reports false and leaves the cursor alone when no line break is under it.
func (c *Cursor) NewLine() bool {
	switch {
	case c.Peek() == '\n':
		c.Off++
	case c.Peek() == '\r':
		if _, b1, ok := c.Peek2(); !ok || b1 != '\n' {
			return false
		}
		c.Off += 2
	default:
		return false
	}
	c.Line++
	c.Col = 0
	return true
}

// AtLineBreak reports whether the cursor sits on "\n" or "\r\n".
func (c *Cursor) AtLineBreak() bool {
	if c.Peek() == '\n' {
		return true
	}
	b0, b1, ok := c.Peek2()
	return ok && b0 == '\r' && b1 == '\n'
}

// Mark это метка, что бы быстро получать Span и позицию читаемого фрагмента
type Mark struct {
	Off  uint32
	Line uint32
	Col  uint32
}

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark{Off: c.Off, Line: c.Line, Col: c.Col}
}

// SpanFrom получает Span для фрагмента, начиная с метки
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{
		File:  c.File.ID,
		Start: m.Off,
		End:   c.Off,
	}
}

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) {
	c.Off, c.Line, c.Col = m.Off, m.Line, m.Col
}

// Eat consumes the next byte if it matches the provided ASCII byte.
func (c *Cursor) Eat(b byte) bool {
	if b != '\n' && !c.EOF() && c.File.Content[c.Off] == b {
		c.Off++
		c.Col++
		return true
	}
	return false
}
