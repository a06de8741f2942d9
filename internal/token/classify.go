package token

import (
	"regexp"
	"strconv"
)

// literals are lexemes that map to a kind by exact match. They win over the
// pattern matchers below.
var literals = map[string]Kind{
	"(":    LeftParen,
	")":    RightParen,
	",@":   UnquoteSplice,
	",":    Comma,
	"@":    At,
	"`":    Backquote,
	"'":    SingleQuote,
	"#t":   True,
	"#f":   False,
	"\n":   Newline,
	"\r\n": Newline,
	"\t":   Tab,
}

// Matchers are compiled once and only read afterwards.
var (
	strPattern        = regexp.MustCompile(`^"[^"]*"$`)
	numberPattern     = regexp.MustCompile(`^[0-9]+$`)
	commentPattern    = regexp.MustCompile(`^;`)
	whitespacePattern = regexp.MustCompile(`^[\s\v\x{85}\p{Z}]+$`)
)

// Classify maps a finished lexeme to its Kind. For Number the decoded value is
// returned as well. Numbers are one or more decimal digits; leading zeros are
// allowed. A digit run that does not fit into uint64 is an Atom.
func Classify(lexeme string) (Kind, uint64) {
	if k, ok := literals[lexeme]; ok {
		return k, 0
	}
	switch {
	case strPattern.MatchString(lexeme):
		return Str, 0
	case numberPattern.MatchString(lexeme):
		n, err := strconv.ParseUint(lexeme, 10, 64)
		if err != nil {
			return Atom, 0
		}
		return Number, n
	case commentPattern.MatchString(lexeme):
		return Comment, 0
	case whitespacePattern.MatchString(lexeme):
		return Whitespace, 0
	case lexeme == "":
		return EndOfInput, 0
	default:
		return Atom, 0
	}
}

// IsNumeral reports whether lexeme matches the numeric grammar regardless of
// whether its value fits into uint64.
func IsNumeral(lexeme string) bool {
	return numberPattern.MatchString(lexeme)
}
