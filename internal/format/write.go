package format

import (
	"bytes"

	"github.com/mattn/go-runewidth"
)

// Writer accumulates formatted output and tracks the current display column.
type Writer struct {
	buf         []byte
	indents     []int
	col         int
	atLineStart bool
}

// NewWriter creates a writer with room for sizeHint bytes.
func NewWriter(sizeHint int) *Writer {
	return &Writer{buf: make([]byte, 0, sizeHint), atLineStart: true}
}

// Bytes returns the accumulated formatted output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Col is the display column the next byte lands in.
func (w *Writer) Col() int {
	if w.atLineStart {
		return w.indent()
	}
	return w.col
}

func (w *Writer) indent() int {
	if len(w.indents) == 0 {
		return 0
	}
	return w.indents[len(w.indents)-1]
}

func (w *Writer) writeIndent() {
	if !w.atLineStart {
		return
	}
	n := w.indent()
	for range n {
		w.buf = append(w.buf, ' ')
	}
	w.col = n
	w.atLineStart = false
}

// WriteString writes s, indenting first when at the start of a line.
func (w *Writer) WriteString(s string) {
	if s == "" {
		return
	}
	w.writeIndent()
	w.buf = append(w.buf, s...)
	if i := bytes.LastIndexByte([]byte(s), '\n'); i >= 0 {
		w.col = runewidth.StringWidth(s[i+1:])
		w.atLineStart = i == len(s)-1
		return
	}
	w.col += runewidth.StringWidth(s)
}

// Space writes a single space unless the output already ends with whitespace.
func (w *Writer) Space() {
	if len(w.buf) == 0 || w.atLineStart {
		return
	}
	last := w.buf[len(w.buf)-1]
	if last == ' ' || last == '\n' {
		return
	}
	w.buf = append(w.buf, ' ')
	w.col++
}

// Newline ends the current line; repeated calls do not stack.
func (w *Writer) Newline() {
	if len(w.buf) == 0 || w.atLineStart {
		return
	}
	w.buf = append(w.buf, '\n')
	w.col = 0
	w.atLineStart = true
}

// BlankLine ends the current line and leaves one empty line after it.
func (w *Writer) BlankLine() {
	if len(w.buf) == 0 {
		return
	}
	w.Newline()
	if !bytes.HasSuffix(w.buf, []byte("\n\n")) {
		w.buf = append(w.buf, '\n')
	}
}

// IndentPush sets the indentation of following lines to col.
func (w *Writer) IndentPush(col int) {
	w.indents = append(w.indents, col)
}

// IndentPop restores the previous indentation.
func (w *Writer) IndentPop() {
	if len(w.indents) > 0 {
		w.indents = w.indents[:len(w.indents)-1]
	}
}
