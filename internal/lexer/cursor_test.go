package lexer

import (
	"testing"

	"shisp/internal/source"
)

func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.shisp", []byte(content))
	return fs.Get(id)
}

func TestCursorTracksRunesAndLines(t *testing.T) {
	c := NewCursor(createFile("aλ\r\nb"))

	if r := c.Bump(); r != 'a' {
		t.Fatalf("expected 'a', got %q", r)
	}
	if r := c.Bump(); r != 'λ' {
		t.Fatalf("expected 'λ', got %q", r)
	}
	if c.Off != 3 || c.Col != 2 || c.Line != 0 {
		t.Fatalf("after two runes: off=%d col=%d line=%d", c.Off, c.Col, c.Line)
	}
	if !c.AtLineBreak() || !c.NewLine() {
		t.Fatal("expected CRLF line break")
	}
	if c.Off != 5 || c.Col != 0 || c.Line != 1 {
		t.Fatalf("after CRLF: off=%d col=%d line=%d", c.Off, c.Col, c.Line)
	}
	if c.NewLine() {
		t.Fatal("no line break under 'b'")
	}
	c.Bump()
	if !c.EOF() || c.Bump() != 0 || c.Peek() != 0 {
		t.Fatal("expected EOF")
	}
}

func TestCursorLoneCRIsNotALineBreak(t *testing.T) {
	c := NewCursor(createFile("\rx"))
	if c.AtLineBreak() || c.NewLine() {
		t.Fatal("lone CR must not break the line")
	}
}

func TestCursorMarkResetAndSpan(t *testing.T) {
	c := NewCursor(createFile("ab\ncd"))
	c.Bump()
	m := c.Mark()
	c.Bump()
	c.NewLine()
	c.Bump()

	sp := c.SpanFrom(m)
	if sp.Start != 1 || sp.End != 4 {
		t.Fatalf("unexpected span %v", sp)
	}
	c.Reset(m)
	if c.Off != 1 || c.Line != 0 || c.Col != 1 || c.Peek() != 'b' {
		t.Fatalf("reset failed: %+v", c)
	}
}

func TestCursorEat(t *testing.T) {
	c := NewCursor(createFile(",@\n"))
	if c.Eat('@') {
		t.Fatal("Eat must not consume a different byte")
	}
	if !c.Eat(',') || !c.Eat('@') || c.Col != 2 {
		t.Fatalf("expected to eat ',@', col=%d", c.Col)
	}
	if c.Eat('\n') {
		t.Fatal("line breaks go through NewLine")
	}
	b0, b1, ok := c.Peek2()
	if ok {
		t.Fatalf("Peek2 at the last byte must fail, got %q %q", b0, b1)
	}
}
