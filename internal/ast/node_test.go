package ast_test

import (
	"testing"

	"shisp/internal/ast"
	"shisp/internal/source"
	"shisp/internal/token"
)

func TestFromToken(t *testing.T) {
	row := source.Range{Start: 2, End: 2}
	col := source.Range{Start: 4, End: 6}
	tests := []struct {
		tok  token.Token
		want ast.Node
		ok   bool
	}{
		{token.Token{Kind: token.Atom, Text: "foo"}, ast.Atom("foo"), true},
		{token.Token{Kind: token.At, Text: "@"}, ast.Atom("@"), true},
		{token.Token{Kind: token.Number, Text: "042", Num: 42}, ast.Number(42), true},
		{token.Token{Kind: token.Str, Text: `"s"`}, ast.Str(`"s"`), true},
		{token.Token{Kind: token.Comment, Text: ";c"}, ast.Comment(";c"), true},
		{token.Token{Kind: token.True, Text: "#t"}, ast.Boolean(true), true},
		{token.Token{Kind: token.False, Text: "#f"}, ast.Boolean(false), true},
		{token.Token{Kind: token.SingleQuote, Text: "'"}, ast.Of(ast.NodeQuote), true},
		{token.Token{Kind: token.Backquote, Text: "`"}, ast.Of(ast.NodeQuasiquote), true},
		{token.Token{Kind: token.Comma, Text: ","}, ast.Of(ast.NodeUnquote), true},
		{token.Token{Kind: token.UnquoteSplice, Text: ",@"}, ast.Of(ast.NodeUnquoteSplice), true},
		{token.Token{Kind: token.LeftParen, Text: "("}, ast.Of(ast.NodeExpr), true},
		{token.Token{Kind: token.RightParen, Text: ")"}, ast.Of(ast.NodeCloseExpr), true},
		{token.Token{Kind: token.Whitespace, Text: " "}, ast.Node{}, false},
		{token.Token{Kind: token.Newline, Text: "\n"}, ast.Node{}, false},
		{token.Token{Kind: token.Tab, Text: "\t"}, ast.Node{}, false},
		{token.Token{Kind: token.EndOfInput}, ast.Node{}, false},
		{token.Token{Kind: token.Invalid}, ast.Node{}, false},
	}

	for _, tt := range tests {
		tt.tok.Row, tt.tok.Col = row, col
		got, ok := ast.FromToken(tt.tok)
		if ok != tt.ok {
			t.Fatalf("FromToken(%s): ok=%v, want %v", tt.tok.Kind, ok, tt.ok)
		}
		if !ok {
			continue
		}
		if got.Bare() != tt.want {
			t.Errorf("FromToken(%s) = %s, want %s", tt.tok.Kind, got, tt.want)
		}
		if got.Row != row || got.Col != col {
			t.Errorf("FromToken(%s) lost position: %v %v", tt.tok.Kind, got.Row, got.Col)
		}
	}
}

func TestNodeKindNames(t *testing.T) {
	for k := ast.NodeStr; k <= ast.NodeCloseExpr; k++ {
		back, ok := ast.ParseNodeKind(k.String())
		if !ok || back != k {
			t.Fatalf("ParseNodeKind(%q) = %v, %v", k.String(), back, ok)
		}
	}
	if _, ok := ast.ParseNodeKind("Invalid"); ok {
		t.Fatal("Invalid must not parse")
	}
}

func TestNodeEqualityIncludesPosition(t *testing.T) {
	a := ast.Atom("x")
	b := a
	b.Col = source.Range{Start: 3, End: 3}
	if a == b {
		t.Fatal("nodes at different positions must differ")
	}
	if a != b.Bare() {
		t.Fatal("Bare must drop the position only")
	}
	if got := ast.Boolean(true).Payload(); got != "#t" {
		t.Fatalf("Payload(#t) = %q", got)
	}
	if got := ast.Number(7).String(); got != "Number(7)" {
		t.Fatalf("String() = %q", got)
	}
}
