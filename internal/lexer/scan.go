package lexer

import (
	"fmt"
	"unicode"

	"shisp/internal/diag"
	"shisp/internal/token"
)

// scanNewline consumes "\n" or "\r\n". The token belongs to the line it ends.
func (lx *Lexer) scanNewline() token.Token {
	m := lx.cursor.Mark()
	lx.cursor.NewLine()
	endCol := m.Col + (lx.cursor.Off - m.Off) - 1 // оба варианта ASCII
	return lx.finish(m, endCol)
}

// scanOne consumes a single self-delimiting rune: ( ) ' ` or a tab.
func (lx *Lexer) scanOne() token.Token {
	m := lx.cursor.Mark()
	lx.cursor.Bump()
	return lx.finish(m, lx.lastCol(m))
}

// scanBlanks consumes a run of blanks up to a tab or a line break.
func (lx *Lexer) scanBlanks() token.Token {
	m := lx.cursor.Mark()
	for !lx.cursor.EOF() && !lx.cursor.AtLineBreak() {
		r, _ := lx.cursor.PeekRune()
		if r == '\t' || !isBlank(r) {
			break
		}
		lx.cursor.Bump()
	}
	return lx.finish(m, lx.lastCol(m))
}

// scanComma consumes "," or ",@".
func (lx *Lexer) scanComma() token.Token {
	m := lx.cursor.Mark()
	lx.cursor.Bump()
	lx.cursor.Eat('@')
	return lx.finish(m, lx.lastCol(m))
}

// scanString consumes a string literal. Strings have no escapes and end at
// the next '"' on the same line.
func (lx *Lexer) scanString() token.Token {
	m := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() && !lx.cursor.AtLineBreak() {
		if lx.cursor.Bump() == '"' {
			return lx.finish(m, lx.lastCol(m))
		}
	}
	tok := lx.finish(m, lx.lastCol(m))
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated string literal")
	return tok
}

// scanComment consumes ';' and the rest of the line, line break excluded.
func (lx *Lexer) scanComment() token.Token {
	m := lx.cursor.Mark()
	for !lx.cursor.EOF() && !lx.cursor.AtLineBreak() {
		lx.cursor.Bump()
	}
	return lx.finish(m, lx.lastCol(m))
}

// scanAtom consumes a lexeme up to the next delimiter. Quote characters and
// '@' inside the lexeme are ordinary characters.
func (lx *Lexer) scanAtom() token.Token {
	m := lx.cursor.Mark()
	for !lx.cursor.EOF() && !lx.cursor.AtLineBreak() {
		r, _ := lx.cursor.PeekRune()
		if isBlank(r) || endsAtom(r) {
			break
		}
		lx.cursor.Bump()
	}
	tok := lx.finish(m, lx.lastCol(m))
	if tok.Kind == token.Atom && tok.Span.Len() <= maxTokenLength && token.IsNumeral(tok.Text) {
		lx.warnLex(diag.LexBadNumber, tok.Span,
			fmt.Sprintf("number %s does not fit into 64 bits, read as a symbol", tok.Text))
	}
	return tok
}

func isBlank(r rune) bool {
	return r != '\n' && unicode.IsSpace(r)
}

func endsAtom(r rune) bool {
	switch r {
	case '(', ')', ',', '"', ';':
		return true
	default:
		return false
	}
}
