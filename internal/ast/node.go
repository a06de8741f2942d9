package ast

import (
	"fmt"
	"strconv"

	"shisp/internal/source"
	"shisp/internal/token"
)

// NodeKind is the syntactic category of a parse node.
type NodeKind uint8

const (
	NodeInvalid NodeKind = iota
	NodeStr
	NodeAtom
	NodeComment
	NodeNumber
	NodeBoolean
	NodeQuote         // '
	NodeQuasiquote    // `
	NodeUnquote       // ,
	NodeUnquoteSplice // ,@
	NodeExpr          // (
	NodeCloseExpr     // )
)

var nodeKindNames = [...]string{
	NodeInvalid:       "Invalid",
	NodeStr:           "Str",
	NodeAtom:          "Atom",
	NodeComment:       "Comment",
	NodeNumber:        "Number",
	NodeBoolean:       "Boolean",
	NodeQuote:         "Quote",
	NodeQuasiquote:    "Quasiquote",
	NodeUnquote:       "Unquote",
	NodeUnquoteSplice: "UnquoteSplice",
	NodeExpr:          "Expr",
	NodeCloseExpr:     "CloseExpr",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "Invalid"
}

// ParseNodeKind is the inverse of NodeKind.String.
func ParseNodeKind(name string) (NodeKind, bool) {
	for i, n := range nodeKindNames {
		if n == name && i != int(NodeInvalid) {
			return NodeKind(i), true
		}
	}
	return NodeInvalid, false
}

// Node is a parse node. It is a plain comparable value: two nodes are equal
// when kind, payload and position all match.
type Node struct {
	Kind NodeKind
	// Text is the payload of Str (quotes included), Atom and Comment.
	Text string
	// Num is the payload of Number.
	Num uint64
	// Bool is the payload of Boolean.
	Bool bool
	Row  source.Range
	Col  source.Range
	Span source.Span
}

// FromToken converts a token into a node. Trivia and EndOfInput produce no node.
func FromToken(tok token.Token) (Node, bool) {
	n := Node{Row: tok.Row, Col: tok.Col, Span: tok.Span}
	switch tok.Kind {
	case token.Atom:
		n.Kind, n.Text = NodeAtom, tok.Text
	case token.At:
		n.Kind, n.Text = NodeAtom, "@"
	case token.Number:
		n.Kind, n.Num = NodeNumber, tok.Num
	case token.Str:
		n.Kind, n.Text = NodeStr, tok.Text
	case token.Comment:
		n.Kind, n.Text = NodeComment, tok.Text
	case token.True:
		n.Kind, n.Bool = NodeBoolean, true
	case token.False:
		n.Kind, n.Bool = NodeBoolean, false
	case token.SingleQuote:
		n.Kind = NodeQuote
	case token.Backquote:
		n.Kind = NodeQuasiquote
	case token.Comma:
		n.Kind = NodeUnquote
	case token.UnquoteSplice:
		n.Kind = NodeUnquoteSplice
	case token.LeftParen:
		n.Kind = NodeExpr
	case token.RightParen:
		n.Kind = NodeCloseExpr
	default:
		return Node{}, false
	}
	return n, true
}

// Atom, Str, Comment, Number and Boolean build position-less nodes. They are
// handy for lookups and tests; parsed nodes always carry a position.
func Atom(text string) Node    { return Node{Kind: NodeAtom, Text: text} }
func Str(text string) Node     { return Node{Kind: NodeStr, Text: text} }
func Comment(text string) Node { return Node{Kind: NodeComment, Text: text} }
func Number(n uint64) Node     { return Node{Kind: NodeNumber, Num: n} }
func Boolean(b bool) Node      { return Node{Kind: NodeBoolean, Bool: b} }

// Of builds a position-less node of a payload-free kind.
func Of(kind NodeKind) Node { return Node{Kind: kind} }

// Bare drops the position, keeping kind and payload.
func (n Node) Bare() Node {
	return Node{Kind: n.Kind, Text: n.Text, Num: n.Num, Bool: n.Bool}
}

// Payload renders the node's payload as source text; empty for kinds without one.
func (n Node) Payload() string {
	switch n.Kind {
	case NodeStr, NodeAtom, NodeComment:
		return n.Text
	case NodeNumber:
		return strconv.FormatUint(n.Num, 10)
	case NodeBoolean:
		if n.Bool {
			return "#t"
		}
		return "#f"
	default:
		return ""
	}
}

func (n Node) String() string {
	switch n.Kind {
	case NodeStr, NodeAtom, NodeComment:
		return fmt.Sprintf("%s(%q)", n.Kind, n.Text)
	case NodeNumber:
		return fmt.Sprintf("%s(%d)", n.Kind, n.Num)
	case NodeBoolean:
		return fmt.Sprintf("%s(%t)", n.Kind, n.Bool)
	default:
		return n.Kind.String()
	}
}
