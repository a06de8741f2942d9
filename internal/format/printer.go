package format

import (
	"bytes"
	"errors"
	"strings"

	"github.com/mattn/go-runewidth"

	"shisp/internal/ast"
	"shisp/internal/source"
)

type Options struct {
	IndentWidth int // отступ элементов от '(' в ломаном выражении
	MaxWidth    int
}

func (o Options) withDefaults() Options {
	if o.IndentWidth <= 0 {
		o.IndentWidth = 2
	}
	if o.MaxWidth <= 0 {
		o.MaxWidth = 80
	}
	return o
}

type printer struct {
	sf  *source.File
	g   *ast.Graph
	w   *Writer
	opt Options
}

// item is a form together with the quote prefixes written before it.
// target is NoNodeID for prefixes dangling at the end of a list.
type item struct {
	prefixes []ast.NodeID
	target   ast.NodeID
}

func (it item) first() ast.NodeID {
	if len(it.prefixes) > 0 {
		return it.prefixes[0]
	}
	return it.target
}

// File formats every root of g. sf supplies the leaf lexemes and the blank
// lines between top-level forms; it may be nil for graphs built in code.
func File(sf *source.File, g *ast.Graph, opt Options) ([]byte, error) {
	if g == nil {
		return nil, errors.New("format: nil graph")
	}
	hint := 0
	if sf != nil {
		hint = len(sf.Content)
	}
	p := printer{sf: sf, g: g, w: NewWriter(hint), opt: opt.withDefaults()}
	p.printRoots()
	return p.w.Bytes(), nil
}

func (p *printer) printRoots() {
	items := p.group(p.g.Roots())
	for i, it := range items {
		if i > 0 {
			prev := items[i-1]
			switch gap := p.gap(prev, it); {
			case gap == 0 && p.isComment(it.first()):
				p.w.Space()
			case gap > 1:
				p.w.BlankLine()
			default:
				p.w.Newline()
			}
		}
		p.printItem(it)
	}
	p.w.Newline()
}

// group attaches quote prefixes to the form that follows them.
func (p *printer) group(ids []ast.NodeID) []item {
	var out []item
	var pending []ast.NodeID
	for _, id := range ids {
		n, _ := p.g.Node(id)
		if isPrefix(n.Kind) {
			pending = append(pending, id)
			continue
		}
		out = append(out, item{prefixes: pending, target: id})
		pending = nil
	}
	if len(pending) > 0 {
		out = append(out, item{prefixes: pending})
	}
	return out
}

func isPrefix(k ast.NodeKind) bool {
	switch k {
	case ast.NodeQuote, ast.NodeQuasiquote, ast.NodeUnquote, ast.NodeUnquoteSplice:
		return true
	}
	return false
}

func (p *printer) isComment(id ast.NodeID) bool {
	n, ok := p.g.Node(id)
	return ok && n.Kind == ast.NodeComment
}

func (p *printer) printItem(it item) {
	for _, id := range it.prefixes {
		p.w.WriteString(p.leaf(id))
	}
	if it.target.IsValid() {
		p.printNode(it.target)
	}
}

func (p *printer) printNode(id ast.NodeID) {
	n, _ := p.g.Node(id)
	if n.Kind != ast.NodeExpr {
		p.w.WriteString(p.leaf(id))
		return
	}
	if flat, ok := p.flat(id); ok && p.w.Col()+runewidth.StringWidth(flat) <= p.opt.MaxWidth {
		p.w.WriteString(flat)
		return
	}
	p.printBroken(id)
}

// printBroken writes the head on the '(' line and every other element on
// its own line. Trailing comments stay on the line they followed.
func (p *printer) printBroken(id ast.NodeID) {
	open := p.w.Col()
	p.w.WriteString("(")
	p.w.IndentPush(open + p.opt.IndentWidth)
	defer p.w.IndentPop()

	items := p.group(p.g.Children(id))
	for i, it := range items {
		if i > 0 {
			if p.gap(items[i-1], it) == 0 && p.isComment(it.first()) {
				p.w.Space()
			} else {
				p.w.Newline()
			}
		}
		p.printItem(it)
	}
	if len(items) > 0 && p.isComment(items[len(items)-1].target) {
		p.w.Newline()
	}
	p.w.WriteString(")")
}

// flat renders id on one line; false when a comment forces a break.
func (p *printer) flat(id ast.NodeID) (string, bool) {
	var b strings.Builder
	ok := p.flatInto(&b, id)
	return b.String(), ok
}

func (p *printer) flatInto(b *strings.Builder, id ast.NodeID) bool {
	n, _ := p.g.Node(id)
	switch n.Kind {
	case ast.NodeComment:
		return false
	case ast.NodeExpr:
		b.WriteByte('(')
		for i, it := range p.group(p.g.Children(id)) {
			if i > 0 {
				b.WriteByte(' ')
			}
			for _, pre := range it.prefixes {
				b.WriteString(p.leaf(pre))
			}
			if it.target.IsValid() && !p.flatInto(b, it.target) {
				return false
			}
		}
		b.WriteByte(')')
		return true
	default:
		b.WriteString(p.leaf(id))
		return true
	}
}

// leaf returns the lexeme of a non-Expr node, taken from the source when
// the span points into it.
func (p *printer) leaf(id ast.NodeID) string {
	n, _ := p.g.Node(id)
	if p.sf != nil && n.Span.File == p.sf.ID && n.Span.End > n.Span.Start && int(n.Span.End) <= len(p.sf.Content) {
		return string(p.sf.Content[n.Span.Start:n.Span.End])
	}
	switch n.Kind {
	case ast.NodeQuote:
		return "'"
	case ast.NodeQuasiquote:
		return "`"
	case ast.NodeUnquote:
		return ","
	case ast.NodeUnquoteSplice:
		return ",@"
	default:
		return n.Payload()
	}
}

// gap counts line breaks between the end of prev and the start of next.
func (p *printer) gap(prev, next item) int {
	end, endRow := p.extent(prev)
	start, _ := p.g.Node(next.first())
	if p.sf != nil && start.Span.File == p.sf.ID && end <= start.Span.Start && int(start.Span.Start) <= len(p.sf.Content) {
		return bytes.Count(p.sf.Content[end:start.Span.Start], []byte{'\n'})
	}
	if start.Row.Start < endRow {
		return 0
	}
	return int(start.Row.Start - endRow)
}

// extent is the largest byte offset and row reached by the item's subtree.
func (p *printer) extent(it item) (uint32, uint32) {
	var end, row uint32
	visit := func(id ast.NodeID, _ int) bool {
		n, _ := p.g.Node(id)
		end = max(end, n.Span.End)
		row = max(row, n.Row.End)
		return true
	}
	for _, id := range it.prefixes {
		visit(id, 0)
	}
	if it.target.IsValid() {
		p.g.Walk(it.target, visit)
	}
	return end, row
}
