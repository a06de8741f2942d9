package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"shisp/internal/ast"
	"shisp/internal/lexer"
	"shisp/internal/parser"
	"shisp/internal/source"
	"shisp/internal/token"
)

func scan(t *testing.T, src string) []token.Token {
	t.Helper()
	fs := source.NewFileSet()
	return lexer.Scan(fs.Get(fs.AddVirtual("t.shisp", []byte(src))), lexer.Options{})
}

func parse(t *testing.T, src string) *ast.Graph {
	t.Helper()
	res, err := parser.Parse(scan(t, src), parser.Options{})
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return res.Graph
}

func TestFormatTokensPretty(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, scan(t, "(+ 12)")); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[2], "Number") || !strings.HasSuffix(lines[2], "at 0:3-0:4 = 12") {
		t.Errorf("number line = %q", lines[2])
	}
}

func TestFormatTokensJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, scan(t, "#t 7")); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].Kind != "True" || out[1].Value == nil || *out[1].Value != 7 {
		t.Fatalf("tokens = %+v", out)
	}
	if out[0].Value != nil {
		t.Error("value on a non-number token")
	}
	if out[1].Col != [2]uint32{3, 3} {
		t.Errorf("col = %v", out[1].Col)
	}
}

func TestFormatTokensJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("got %q", buf.String())
	}
}

func TestFormatGraphTree(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatGraph(&buf, parse(t, "(a (b))\nc"), GraphTree); err != nil {
		t.Fatal(err)
	}
	want := `Expr @0:0-0:0
  Atom("a") @0:1-0:1
  Expr @0:3-0:3
    Atom("b") @0:4-0:4
Atom("c") @1:0-1:0
`
	if buf.String() != want {
		t.Errorf("tree:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestFormatGraphPretty(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatGraph(&buf, parse(t, "(a)"), GraphPretty); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "parent=-") || !strings.Contains(out, "children=[1]") || !strings.Contains(out, "parent=0") {
		t.Errorf("pretty:\n%s", out)
	}
}

func TestFormatGraphSerialised(t *testing.T) {
	g := parse(t, "'(x 1 \"s\")")
	want := g.Snapshot()

	var js bytes.Buffer
	if err := FormatGraph(&js, g, GraphJSON); err != nil {
		t.Fatal(err)
	}
	var fromJSON ast.Snapshot
	if err := json.Unmarshal(js.Bytes(), &fromJSON); err != nil {
		t.Fatal(err)
	}
	if len(fromJSON.Nodes) != len(want.Nodes) || len(fromJSON.Edges) != len(want.Edges) {
		t.Errorf("json snapshot = %+v", fromJSON)
	}

	var mp bytes.Buffer
	if err := FormatGraph(&mp, g, GraphMsgpack); err != nil {
		t.Fatal(err)
	}
	var fromMsgpack ast.Snapshot
	if err := msgpack.Unmarshal(mp.Bytes(), &fromMsgpack); err != nil {
		t.Fatal(err)
	}
	if len(fromMsgpack.Nodes) != len(want.Nodes) || fromMsgpack.Nodes[3].Num != 1 {
		t.Errorf("msgpack snapshot = %+v", fromMsgpack)
	}
}

func TestParseGraphFormat(t *testing.T) {
	if f, err := ParseGraphFormat(""); err != nil || f != GraphTree {
		t.Errorf("empty: %v %v", f, err)
	}
	if _, err := ParseGraphFormat("xml"); err == nil {
		t.Error("xml accepted")
	}
}
