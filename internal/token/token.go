package token

import (
	"shisp/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Text string
	Span source.Span
	Row  source.Range
	Col  source.Range
	// Num holds the value of a Number token.
	Num uint64
}

// New builds a token from a finished lexeme, classifying it with Classify.
func New(text string, span source.Span, row, col source.Range) Token {
	kind, num := Classify(text)
	return Token{
		Kind: kind,
		Text: text,
		Span: span,
		Row:  row,
		Col:  col,
		Num:  num,
	}
}

// IsLiteral reports whether the token is a numeric, boolean, or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case Number, Str, True, False:
		return true
	default:
		return false
	}
}

// IsQuotePrefix reports whether the token is one of the four reader prefixes.
func (t Token) IsQuotePrefix() bool {
	switch t.Kind {
	case SingleQuote, Backquote, Comma, UnquoteSplice:
		return true
	default:
		return false
	}
}

// IsTrivia reports whether the token is whitespace or a line break.
func (t Token) IsTrivia() bool { return t.Kind.IsTrivia() }
