package token_test

import (
	"testing"

	"shisp/internal/token"
)

func TestClassify_EveryKindHasALexeme(t *testing.T) {
	tests := []struct {
		lexeme string
		kind   token.Kind
		num    uint64
	}{
		{"foo", token.Atom, 0},
		{"123", token.Number, 123},
		{`"test"`, token.Str, 0},
		{"#t", token.True, 0},
		{"#f", token.False, 0},
		{",@", token.UnquoteSplice, 0},
		{"(", token.LeftParen, 0},
		{")", token.RightParen, 0},
		{",", token.Comma, 0},
		{"@", token.At, 0},
		{"`", token.Backquote, 0},
		{"'", token.SingleQuote, 0},
		{";comment", token.Comment, 0},
		{"\n", token.Newline, 0},
		{"\t", token.Tab, 0},
		{"   ", token.Whitespace, 0},
		{"", token.EndOfInput, 0},
	}

	seen := map[token.Kind]bool{}
	for _, tt := range tests {
		kind, num := token.Classify(tt.lexeme)
		if kind != tt.kind || num != tt.num {
			t.Errorf("Classify(%q) = %v, %d; want %v, %d", tt.lexeme, kind, num, tt.kind, tt.num)
		}
		seen[kind] = true
	}
	for k := token.Atom; k <= token.EndOfInput; k++ {
		if !seen[k] {
			t.Errorf("no lexeme classified as %v", k)
		}
	}
}

func TestClassify_NumericGrammar(t *testing.T) {
	tests := []struct {
		lexeme string
		kind   token.Kind
		num    uint64
	}{
		{"0", token.Number, 0},
		{"0123", token.Number, 123},
		{"007", token.Number, 7},
		{"18446744073709551615", token.Number, 18446744073709551615},
		{"18446744073709551616", token.Atom, 0}, // не влезает в uint64
		{"-1", token.Atom, 0},
		{"1a", token.Atom, 0},
		{"a1", token.Atom, 0},
		{"1.5", token.Atom, 0},
	}
	for _, tt := range tests {
		kind, num := token.Classify(tt.lexeme)
		if kind != tt.kind || num != tt.num {
			t.Errorf("Classify(%q) = %v, %d; want %v, %d", tt.lexeme, kind, num, tt.kind, tt.num)
		}
	}
	if !token.IsNumeral("18446744073709551616") {
		t.Error("overflowing digit run is still a numeral")
	}
}

func TestClassify_Precedence(t *testing.T) {
	tests := []struct {
		lexeme string
		kind   token.Kind
	}{
		{`""`, token.Str},
		{`"a b ; c"`, token.Str},
		{`"unterminated`, token.Atom},
		{`a"b"`, token.Atom},
		{";", token.Comment},
		{";; (not code)", token.Comment},
		{"a;b", token.Atom},
		{"#true", token.Atom},
		{"a@b", token.Atom},
		{"'a", token.Atom},
		{" \t ", token.Whitespace},
		{"\t\t", token.Whitespace},
	}
	for _, tt := range tests {
		if kind, _ := token.Classify(tt.lexeme); kind != tt.kind {
			t.Errorf("Classify(%q) = %v, want %v", tt.lexeme, kind, tt.kind)
		}
	}
}

func TestNew(t *testing.T) {
	tk := token.New("42", sourceSpan(0, 2), rng(0, 0), rng(0, 1))
	if tk.Kind != token.Number || tk.Num != 42 || tk.Text != "42" {
		t.Fatalf("unexpected token %+v", tk)
	}
}
