package parser_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"shisp/internal/ast"
	"shisp/internal/diag"
	"shisp/internal/lexer"
	"shisp/internal/parser"
	"shisp/internal/source"
	"shisp/internal/testkit"
	"shisp/internal/token"
)

func makeFile(input string) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("test.shisp", []byte(input)))
}

func parse(t *testing.T, input string, opts parser.Options) (*parser.Result, *diag.Bag, error) {
	t.Helper()
	bag := diag.NewBag(32)
	opts.Reporter = diag.BagReporter{Bag: bag}
	res, err := parser.ParseFile(context.Background(), makeFile(input), opts)
	if res == nil {
		t.Fatalf("nil result for %q", input)
	}
	if cerr := testkit.CheckForest(res.Graph); cerr != nil {
		t.Fatalf("forest broken for %q: %v", input, cerr)
	}
	return res, bag, err
}

func bare(t *testing.T, g *ast.Graph, ids []ast.NodeID) []string {
	t.Helper()
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		n, ok := g.Node(id)
		if !ok {
			t.Fatalf("dangling id %d", id)
		}
		out = append(out, n.Bare().String())
	}
	return out
}

func TestSingleExpression(t *testing.T) {
	res, _, err := parse(t, "(for the win)", parser.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := res.Graph.RootIndexes(); fmt.Sprint(got) != "[0]" {
		t.Fatalf("roots = %v, want [0]", got)
	}
	kids := bare(t, res.Graph, res.Graph.Children(res.Roots[0]))
	want := []string{`Atom("for")`, `Atom("the")`, `Atom("win")`}
	if !slices.Equal(kids, want) {
		t.Fatalf("children = %v, want %v", kids, want)
	}
	if res.Graph.Len() != 4 {
		t.Fatalf("CloseExpr must not become a node, got %d nodes", res.Graph.Len())
	}
}

func TestForestOfExpressionsAndComment(t *testing.T) {
	res, _, err := parse(t, "(for the win);a\n(shisp)", parser.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g := res.Graph
	roots := bare(t, g, res.Roots)
	if !slices.Equal(roots, []string{"Expr", `Comment(";a")`, "Expr"}) {
		t.Fatalf("roots = %v", roots)
	}
	if got := g.RootIndexes(); fmt.Sprint(got) != "[0 4 5]" {
		t.Fatalf("root indexes = %v, want [0 4 5]", got)
	}
	if got := g.ChildrenIndex(0); fmt.Sprint(got) != "[1 2 3]" {
		t.Fatalf("children(0) = %v", got)
	}
	if got := g.ChildrenIndex(4); len(got) != 0 {
		t.Fatalf("comment must have no children, got %v", got)
	}
	if kids := bare(t, g, g.Children(res.Roots[2])); !slices.Equal(kids, []string{`Atom("shisp")`}) {
		t.Fatalf("children of second expr = %v", kids)
	}
	second, _ := g.Node(res.Roots[2])
	if second.Row.Start != 1 || second.Col.Start != 0 {
		t.Fatalf("second expr position = %v %v", second.Row, second.Col)
	}
}

func TestTokenStreamsFeedParser(t *testing.T) {
	toks := lexer.Scan(makeFile(",@(a b c)"), lexer.Options{})
	kinds := make([]token.Kind, 0, len(toks))
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	want := []token.Kind{token.UnquoteSplice, token.LeftParen, token.Atom, token.Atom, token.Atom, token.RightParen}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v", kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", kinds, want)
		}
	}

	res, err := parser.Parse(toks, parser.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if roots := bare(t, res.Graph, res.Roots); !slices.Equal(roots, []string{"UnquoteSplice", "Expr"}) {
		t.Fatalf("quote prefixes stay siblings of their operand, got %v", roots)
	}

	toks = lexer.Scan(makeFile(`"test"`), lexer.Options{})
	if len(toks) != 1 || toks[0].Kind != token.Str || toks[0].Text != `"test"` {
		t.Fatalf("string tokens = %v", toks)
	}
}

func TestLoneComment(t *testing.T) {
	res, _, err := parse(t, ";comment", parser.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if roots := bare(t, res.Graph, res.Roots); !slices.Equal(roots, []string{`Comment(";comment")`}) {
		t.Fatalf("roots = %v", roots)
	}
	if len(res.Graph.Children(res.Roots[0])) != 0 {
		t.Fatal("comment must have no children")
	}
}

func TestNestedExpressions(t *testing.T) {
	res, _, err := parse(t, "(define (sq x)\n  '(* x x)) #t 42", parser.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g := res.Graph
	if roots := bare(t, g, res.Roots); !slices.Equal(roots, []string{"Expr", "Boolean(true)", "Number(42)"}) {
		t.Fatalf("roots = %v", roots)
	}
	define := g.Children(res.Roots[0])
	if got := bare(t, g, define); !slices.Equal(got, []string{`Atom("define")`, "Expr", "Quote", "Expr"}) {
		t.Fatalf("define children = %v", got)
	}
	if got := bare(t, g, g.Children(define[1])); !slices.Equal(got, []string{`Atom("sq")`, `Atom("x")`}) {
		t.Fatalf("signature children = %v", got)
	}
	if got := bare(t, g, g.Children(define[3])); !slices.Equal(got, []string{`Atom("*")`, `Atom("x")`, `Atom("x")`}) {
		t.Fatalf("body children = %v", got)
	}
	if p, ok := g.Parent(define[3]); !ok || p != res.Roots[0] {
		t.Fatal("body must hang off define")
	}
}

func TestStrictUnmatchedClose(t *testing.T) {
	res, bag, err := parse(t, "(a)) b", parser.Options{})
	var ub *parser.UnbalancedError
	if !errors.As(err, &ub) || !errors.Is(err, parser.ErrUnbalanced) {
		t.Fatalf("expected *UnbalancedError, got %v", err)
	}
	if len(ub.UnmatchedClose) != 1 || len(ub.UnclosedOpen) != 0 {
		t.Fatalf("unexpected error contents: %+v", ub)
	}
	if pos := ub.UnmatchedClose[0]; pos.Col.Start != 3 || pos.String() != "1:4" {
		t.Fatalf("unmatched ')' reported at %v", pos)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SynUnexpectedToken {
		t.Fatalf("expected one SYN2001, got %v", bag.Items())
	}
	if len(bag.Items()[0].Fixes) != 1 {
		t.Fatal("expected a removal fix")
	}
	if roots := bare(t, res.Graph, res.Roots); !slices.Equal(roots, []string{"Expr", `Atom("b")`}) {
		t.Fatalf("partial tree roots = %v", roots)
	}
}

func TestStrictUnclosedOpen(t *testing.T) {
	res, bag, err := parse(t, "(a (b\n c", parser.Options{})
	var ub *parser.UnbalancedError
	if !errors.As(err, &ub) {
		t.Fatalf("expected *UnbalancedError, got %v", err)
	}
	if len(ub.UnclosedOpen) != 2 {
		t.Fatalf("expected two unclosed '(', got %+v", ub)
	}
	if ub.UnclosedOpen[0].Col.Start != 0 || ub.UnclosedOpen[1].Col.Start != 3 {
		t.Fatalf("unclosed positions = %v", ub.UnclosedOpen)
	}
	for _, d := range bag.Items() {
		if d.Code != diag.SynUnclosedDelimiter {
			t.Fatalf("unexpected diagnostic %s", d.Code.ID())
		}
	}
	if bag.Len() != 2 {
		t.Fatalf("expected two SYN2002, got %d", bag.Len())
	}
	fix := bag.Items()[0].Fixes[0].Edits[0]
	if fix.NewText != ")" || fix.Span.Start != 8 {
		t.Fatalf("insert fix should point at end of input, got %+v", fix)
	}
	g := res.Graph
	inner := g.Children(res.Roots[0])[1]
	if got := bare(t, g, g.Children(inner)); !slices.Equal(got, []string{`Atom("b")`, `Atom("c")`}) {
		t.Fatalf("partial tree lost nodes: %v", got)
	}
}

func TestLenientToleratesImbalance(t *testing.T) {
	res, bag, err := parse(t, ")(a) b) (c", parser.Options{Mode: parser.ModeLenient})
	if err != nil {
		t.Fatalf("lenient mode must not fail: %v", err)
	}
	if bag.Len() != 0 {
		t.Fatalf("lenient mode must stay silent, got %v", bag.Items())
	}
	roots := bare(t, res.Graph, res.Roots)
	if !slices.Equal(roots, []string{"Expr", `Atom("b")`, "Expr"}) {
		t.Fatalf("roots = %v", roots)
	}
}

func TestMaxErrorsCapsDiagnostics(t *testing.T) {
	_, bag, err := parse(t, ")))))", parser.Options{MaxErrors: 2})
	var ub *parser.UnbalancedError
	if !errors.As(err, &ub) || len(ub.UnmatchedClose) != 5 {
		t.Fatalf("error must list every unmatched ')', got %v", err)
	}
	if bag.Len() != 2 {
		t.Fatalf("expected diagnostics capped at 2, got %d", bag.Len())
	}
}

func TestParseFileHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := parser.ParseFile(ctx, makeFile("(a)"), parser.Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]parser.Mode{"": parser.ModeStrict, "Strict": parser.ModeStrict, "lenient": parser.ModeLenient} {
		got, err := parser.ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := parser.ParseMode("loose"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
