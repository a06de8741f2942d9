package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"shisp/internal/ast"
)

// GraphFormat selects how a parsed graph is printed.
type GraphFormat string

const (
	GraphTree    GraphFormat = "tree"    // indented forest
	GraphPretty  GraphFormat = "pretty"  // one line per position with edges
	GraphJSON    GraphFormat = "json"    // ast.Snapshot
	GraphMsgpack GraphFormat = "msgpack" // ast.Snapshot, binary
)

// ParseGraphFormat converts a flag value to GraphFormat.
func ParseGraphFormat(s string) (GraphFormat, error) {
	switch f := GraphFormat(s); f {
	case GraphTree, GraphPretty, GraphJSON, GraphMsgpack:
		return f, nil
	case "":
		return GraphTree, nil
	default:
		return "", fmt.Errorf("unknown graph format %q (expected: tree|pretty|json|msgpack)", s)
	}
}

// FormatGraph writes g in the requested format.
func FormatGraph(w io.Writer, g *ast.Graph, format GraphFormat) error {
	switch format {
	case GraphTree, "":
		return FormatGraphTree(w, g)
	case GraphPretty:
		return FormatGraphPretty(w, g)
	case GraphJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(g.Snapshot())
	case GraphMsgpack:
		return msgpack.NewEncoder(w).Encode(g.Snapshot())
	default:
		return fmt.Errorf("unknown graph format %q", format)
	}
}

// FormatGraphTree prints every root and its subtree, two spaces per level:
//
//	Expr @0:0-0:8
//	  Atom("+") @0:1-0:1
func FormatGraphTree(w io.Writer, g *ast.Graph) error {
	var err error
	for _, root := range g.Roots() {
		g.Walk(root, func(id ast.NodeID, depth int) bool {
			if err != nil {
				return false
			}
			n, _ := g.Node(id)
			_, err = fmt.Fprintf(w, "%s%s @%d:%d-%d:%d\n", strings.Repeat("  ", depth), n,
				n.Row.Start, n.Col.Start, n.Row.End, n.Col.End)
			return true
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// FormatGraphPretty prints the positional view: index, node, parent index
// and child indexes. It is what the index API sees.
func FormatGraphPretty(w io.Writer, g *ast.Graph) error {
	for i := range g.Len() {
		n, _ := g.NodeAt(i)
		parent := "-"
		if p, ok := g.ParentIndex(i); ok {
			parent = fmt.Sprint(p)
		}
		if _, err := fmt.Fprintf(w, "%4d  %-24s parent=%-4s children=%v\n", i, n, parent, g.ChildrenIndex(i)); err != nil {
			return err
		}
	}
	return nil
}
