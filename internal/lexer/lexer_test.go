package lexer_test

import (
	"fmt"
	"testing"

	"shisp/internal/diag"
	"shisp/internal/lexer"
	"shisp/internal/source"
	"shisp/internal/testkit"
	"shisp/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
		Fixes:    fixes,
	})
}

func (r *testReporter) codes() []string {
	out := make([]string, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		out = append(out, fmt.Sprintf("%s/%s", d.Code.ID(), d.Severity))
	}
	return out
}

func makeFile(input string) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("test.shisp", []byte(input)))
}

func scan(t *testing.T, input string, opts lexer.Options) ([]token.Token, *testReporter) {
	t.Helper()
	rep := &testReporter{}
	opts.Reporter = rep
	file := makeFile(input)
	toks := lexer.Scan(file, opts)
	if err := testkit.CheckTokenTiling(file, toks, opts.KeepTrivia); err != nil {
		t.Fatalf("tiling broken for %q: %v", input, err)
	}
	return toks, rep
}

type want struct {
	kind     token.Kind
	text     string
	row      uint32
	from, to uint32
}

func TestScanPositions(t *testing.T) {
	tests := []struct {
		input string
		want  []want
	}{
		{",@(a b c)", []want{
			{token.UnquoteSplice, ",@", 0, 0, 1},
			{token.LeftParen, "(", 0, 2, 2},
			{token.Atom, "a", 0, 3, 3},
			{token.Atom, "b", 0, 5, 5},
			{token.Atom, "c", 0, 7, 7},
			{token.RightParen, ")", 0, 8, 8},
		}},
		{"(a@b c)", []want{
			{token.LeftParen, "(", 0, 0, 0},
			{token.Atom, "a@b", 0, 1, 3},
			{token.Atom, "c", 0, 5, 5},
			{token.RightParen, ")", 0, 6, 6},
		}},
		{`"test"`, []want{{token.Str, `"test"`, 0, 0, 5}}},
		{";comment", []want{{token.Comment, ";comment", 0, 0, 7}}},
		{"123\n345", []want{
			{token.Number, "123", 0, 0, 2},
			{token.Number, "345", 1, 0, 2},
		}},
		{",123", []want{
			{token.Comma, ",", 0, 0, 0},
			{token.Number, "123", 0, 1, 3},
		}},
		{",@123", []want{
			{token.UnquoteSplice, ",@", 0, 0, 1},
			{token.Number, "123", 0, 2, 4},
		}},
		{"(for the win);a\n(shisp)", []want{
			{token.LeftParen, "(", 0, 0, 0},
			{token.Atom, "for", 0, 1, 3},
			{token.Atom, "the", 0, 5, 7},
			{token.Atom, "win", 0, 9, 11},
			{token.RightParen, ")", 0, 12, 12},
			{token.Comment, ";a", 0, 13, 14},
			{token.LeftParen, "(", 1, 0, 0},
			{token.Atom, "shisp", 1, 1, 5},
			{token.RightParen, ")", 1, 6, 6},
		}},
		{"'(a `b)", []want{
			{token.SingleQuote, "'", 0, 0, 0},
			{token.LeftParen, "(", 0, 1, 1},
			{token.Atom, "a", 0, 2, 2},
			{token.Backquote, "`", 0, 4, 4},
			{token.Atom, "b", 0, 5, 5},
			{token.RightParen, ")", 0, 6, 6},
		}},
		{"a'b `c`", []want{
			{token.Atom, "a'b", 0, 0, 2},
			{token.Backquote, "`", 0, 4, 4},
			{token.Atom, "c`", 0, 5, 6},
		}},
		{"#t #f #x", []want{
			{token.True, "#t", 0, 0, 1},
			{token.False, "#f", 0, 3, 4},
			{token.Atom, "#x", 0, 6, 7},
		}},
		{"@ x", []want{
			{token.At, "@", 0, 0, 0},
			{token.Atom, "x", 0, 2, 2},
		}},
		{`a"b"c`, []want{
			{token.Atom, "a", 0, 0, 0},
			{token.Str, `"b"`, 0, 1, 3},
			{token.Atom, "c", 0, 4, 4},
		}},
		{"x;c (d)", []want{
			{token.Atom, "x", 0, 0, 0},
			{token.Comment, ";c (d)", 0, 1, 6},
		}},
		{"λx (βγ)", []want{
			{token.Atom, "λx", 0, 0, 1},
			{token.LeftParen, "(", 0, 3, 3},
			{token.Atom, "βγ", 0, 4, 5},
			{token.RightParen, ")", 0, 6, 6},
		}},
		{"a,b", []want{
			{token.Atom, "a", 0, 0, 0},
			{token.Comma, ",", 0, 1, 1},
			{token.Atom, "b", 0, 2, 2},
		}},
		{"  \n\n\t(0)  ", []want{
			{token.LeftParen, "(", 2, 1, 1},
			{token.Number, "0", 2, 2, 2},
			{token.RightParen, ")", 2, 3, 3},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, rep := scan(t, tt.input, lexer.Options{})
			if len(rep.diagnostics) != 0 {
				t.Fatalf("unexpected diagnostics: %v", rep.codes())
			}
			if len(toks) != len(tt.want) {
				t.Fatalf("got %d tokens, want %d: %v", len(toks), len(tt.want), toks)
			}
			for i, w := range tt.want {
				tok := toks[i]
				if tok.Kind != w.kind || tok.Text != w.text {
					t.Errorf("token %d: got %s %q, want %s %q", i, tok.Kind, tok.Text, w.kind, w.text)
				}
				if tok.Row != (source.Range{Start: w.row, End: w.row}) {
					t.Errorf("token %d (%q): row %v, want %d", i, tok.Text, tok.Row, w.row)
				}
				if tok.Col != (source.Range{Start: w.from, End: w.to}) {
					t.Errorf("token %d (%q): cols %v, want %d..%d", i, tok.Text, tok.Col, w.from, w.to)
				}
			}
		})
	}
}

func TestScanNumbersCarryValue(t *testing.T) {
	toks, _ := scan(t, "(0 007 42)", lexer.Options{})
	got := []uint64{toks[1].Num, toks[2].Num, toks[3].Num}
	if got[0] != 0 || got[1] != 7 || got[2] != 42 {
		t.Fatalf("unexpected values %v", got)
	}
}

func TestKeepTriviaTilesEveryLine(t *testing.T) {
	input := "(a\tb)  c\r\n;x\n\n \"s\" "
	toks, rep := scan(t, input, lexer.Options{KeepTrivia: true})
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.codes())
	}
	kinds := make([]token.Kind, 0, len(toks))
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	wantKinds := []token.Kind{
		token.LeftParen, token.Atom, token.Tab, token.Atom, token.RightParen,
		token.Whitespace, token.Atom, token.Newline,
		token.Comment, token.Newline,
		token.Newline,
		token.Whitespace, token.Str, token.Whitespace,
	}
	if fmt.Sprint(kinds) != fmt.Sprint(wantKinds) {
		t.Fatalf("kinds:\n got %v\nwant %v", kinds, wantKinds)
	}
	crlf := toks[7]
	if crlf.Text != "\r\n" || crlf.Col != (source.Range{Start: 8, End: 9}) {
		t.Fatalf("unexpected CRLF token %+v", crlf)
	}
}

func TestUnterminatedStringStopsAtLineEnd(t *testing.T) {
	toks, rep := scan(t, "\"abc\n(x)", lexer.Options{})
	if len(toks) != 4 {
		t.Fatalf("expected 4 tokens, got %v", toks)
	}
	if toks[0].Kind != token.Atom || toks[0].Text != `"abc` {
		t.Fatalf("unterminated string must fall back to Atom, got %s %q", toks[0].Kind, toks[0].Text)
	}
	if toks[1].Kind != token.LeftParen || toks[1].Row.Start != 1 {
		t.Fatalf("expected '(' on row 1, got %+v", toks[1])
	}
	if codes := rep.codes(); len(codes) != 1 || codes[0] != "LEX1002/ERROR" {
		t.Fatalf("expected one LEX1002 error, got %v", codes)
	}
}

func TestNumberOverflowWarns(t *testing.T) {
	toks, rep := scan(t, "99999999999999999999 1", lexer.Options{})
	if toks[0].Kind != token.Atom || toks[1].Kind != token.Number {
		t.Fatalf("unexpected kinds %s %s", toks[0].Kind, toks[1].Kind)
	}
	if codes := rep.codes(); len(codes) != 1 || codes[0] != "LEX1004/WARNING" {
		t.Fatalf("expected one LEX1004 warning, got %v", codes)
	}
}

func TestNextAfterEndOfInput(t *testing.T) {
	lx := lexer.New(makeFile("a"), lexer.Options{})
	if tok := lx.Peek(); tok.Kind != token.Atom {
		t.Fatalf("peek: got %s", tok.Kind)
	}
	if tok := lx.Next(); tok.Kind != token.Atom || tok.Text != "a" {
		t.Fatalf("next after peek: got %s %q", tok.Kind, tok.Text)
	}
	for i := 0; i < 3; i++ {
		tok := lx.Next()
		if tok.Kind != token.EndOfInput {
			t.Fatalf("call %d: expected EndOfInput, got %s", i, tok.Kind)
		}
		if tok.Span.Start != 1 || !tok.Span.Empty() || tok.Col.Start != 1 {
			t.Fatalf("EndOfInput must sit at the end of input, got %+v", tok)
		}
	}
}

func TestScanEmpty(t *testing.T) {
	toks, _ := scan(t, "", lexer.Options{KeepTrivia: true})
	if len(toks) != 0 {
		t.Fatalf("expected no tokens, got %v", toks)
	}
	toks, _ = scan(t, " \n\t ", lexer.Options{})
	if len(toks) != 0 {
		t.Fatalf("trivia must be dropped by default, got %v", toks)
	}
}
