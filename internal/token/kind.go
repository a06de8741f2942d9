package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid is the zero Kind; the classifier never produces it.
	Invalid Kind = iota

	// Atom represents a symbol: anything that is not a literal or punctuation.
	Atom
	// Number represents an unsigned decimal integer literal.
	Number
	// Str represents a string literal, delimiters included.
	Str
	// True represents the '#t' literal.
	True // #t
	// False represents the '#f' literal.
	False // #f
	// UnquoteSplice represents the ',@' reader prefix.
	UnquoteSplice // ,@

	// LeftParen opens an expression.
	LeftParen // (
	// RightParen closes an expression.
	RightParen // )
	// Comma represents the unquote prefix.
	Comma // ,
	// At represents a bare '@'.
	At // @
	// Backquote represents the quasiquote prefix.
	Backquote // `
	// SingleQuote represents the quote prefix.
	SingleQuote // '
	// Comment represents a line comment, ';' included.
	Comment

	// Newline represents a line break.
	Newline
	// Tab represents a single tab.
	Tab
	// Whitespace represents any other run of blanks.
	Whitespace

	// EndOfInput marks the end of the source.
	EndOfInput
)

var kindNames = [...]string{
	Invalid:       "Invalid",
	Atom:          "Atom",
	Number:        "Number",
	Str:           "Str",
	True:          "True",
	False:         "False",
	UnquoteSplice: "UnquoteSplice",
	LeftParen:     "LeftParen",
	RightParen:    "RightParen",
	Comma:         "Comma",
	At:            "At",
	Backquote:     "Backquote",
	SingleQuote:   "SingleQuote",
	Comment:       "Comment",
	Newline:       "Newline",
	Tab:           "Tab",
	Whitespace:    "Whitespace",
	EndOfInput:    "EndOfInput",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Invalid"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name && i != int(Invalid) {
			return Kind(i), true
		}
	}
	return Invalid, false
}

// IsEOF reports whether the kind marks the end of input.
func (k Kind) IsEOF() bool { return k == EndOfInput }

// IsTrivia reports whether the kind carries no syntactic meaning.
func (k Kind) IsTrivia() bool {
	switch k {
	case Newline, Tab, Whitespace:
		return true
	default:
		return false
	}
}
