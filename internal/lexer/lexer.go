package lexer

import (
	"fmt"

	"shisp/internal/diag"
	"shisp/internal/source"
	"shisp/internal/token"
)

// maxTokenLength caps the lexeme size handed to the classifier.
const maxTokenLength = 64 * 1024

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token // 1 элементный буфер для токена
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Scan lexes the whole file and returns every token in source order.
// The trailing EndOfInput is not included.
func Scan(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	out := make([]token.Token, 0, len(file.Content)/3+1)
	for {
		tok := lx.Next()
		if tok.Kind.IsEOF() {
			return out
		}
		out = append(out, tok)
	}
}

// Next возвращает следующий токен. Trivia пропускается, если не включён KeepTrivia.
// После конца ввода всегда возвращает EndOfInput.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	for {
		if lx.cursor.EOF() {
			return lx.eof()
		}

		var tok token.Token
		r, _ := lx.cursor.PeekRune()
		switch {
		case lx.cursor.AtLineBreak():
			tok = lx.scanNewline()
		case r == '\t':
			tok = lx.scanOne()
		case isBlank(r):
			tok = lx.scanBlanks()
		case r == '(' || r == ')' || r == '\'' || r == '`':
			tok = lx.scanOne()
		case r == ',':
			tok = lx.scanComma()
		case r == '"':
			tok = lx.scanString()
		case r == ';':
			tok = lx.scanComment()
		default:
			tok = lx.scanAtom()
		}

		if tok.Kind.IsTrivia() && !lx.opts.KeepTrivia {
			continue
		}
		return tok
	}
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) eof() token.Token {
	sp := source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
	return token.Token{
		Kind: token.EndOfInput,
		Span: sp,
		Row:  source.Range{Start: lx.cursor.Line, End: lx.cursor.Line},
		Col:  source.Range{Start: lx.cursor.Col, End: lx.cursor.Col},
	}
}

// finish builds the token for everything consumed since m. The lexeme never
// crosses a line, except for the line break itself which is accounted to the
// line it ends.
func (lx *Lexer) finish(m Mark, endCol uint32) token.Token {
	sp := lx.cursor.SpanFrom(m)
	text := string(lx.file.Content[sp.Start:sp.End])
	row := source.Range{Start: m.Line, End: m.Line}
	col := source.Range{Start: m.Col, End: endCol}

	if sp.Len() > maxTokenLength {
		lx.errLex(diag.LexTokenTooLong, sp,
			fmt.Sprintf("token is %d bytes long, limit is %d", sp.Len(), maxTokenLength))
		return token.Token{Kind: token.Atom, Text: text, Span: sp, Row: row, Col: col}
	}
	return token.New(text, sp, row, col)
}

// lastCol is the inclusive end column of a lexeme that started at m and ends
// right before the cursor.
func (lx *Lexer) lastCol(m Mark) uint32 {
	if lx.cursor.Col == m.Col {
		return m.Col
	}
	return lx.cursor.Col - 1
}
