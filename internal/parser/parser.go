package parser

import (
	"context"
	"fmt"
	"strconv"

	"shisp/internal/ast"
	"shisp/internal/diag"
	"shisp/internal/lexer"
	"shisp/internal/source"
	"shisp/internal/token"
	"shisp/internal/trace"
)

type Result struct {
	Graph *ast.Graph
	// Roots are the parentless nodes in source order.
	Roots []ast.NodeID
}

// Parser - состояние построителя дерева на один поток токенов
type Parser struct {
	g      *ast.Graph
	opts   Options
	state  state
	scopes []ast.NodeID // открытые выражения, вершина - текущая область
	// last is the span of the last non-comment node; ')' is inserted after it
	// so the fix never lands inside a line comment.
	last   source.Span
	err    UnbalancedError
}

// Parse builds the AST graph from a token sequence. Trivia and EndOfInput
// tokens are skipped.
//
// The returned Result is never nil. In ModeStrict unbalanced parentheses are
// reported as SYN2001/SYN2002 diagnostics and also returned as
// *UnbalancedError; the graph still holds everything that was parsed.
func Parse(tokens []token.Token, opts Options) (*Result, error) {
	p := &Parser{
		g:    ast.NewGraph(uint(len(tokens))),
		opts: opts,
	}
	for _, tok := range tokens {
		if n, ok := ast.FromToken(tok); ok {
			p.step(n)
		}
	}
	return p.finish()
}

// ParseFile lexes and parses one file. Lexer diagnostics go to the same
// reporter as parser diagnostics. The tracer is taken from ctx.
func ParseFile(ctx context.Context, file *source.File, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx).SpanID

	lexSpan := trace.Begin(tracer, trace.ScopePass, "lex", parent)
	toks := lexer.Scan(file, lexer.Options{Reporter: opts.Reporter})
	lexSpan.WithExtra("tokens", strconv.Itoa(len(toks))).End("")

	parseSpan := trace.Begin(tracer, trace.ScopePass, "parse", parent)
	res, err := Parse(toks, opts)
	parseSpan.WithExtra("nodes", strconv.Itoa(res.Graph.Len())).
		WithExtra("roots", strconv.Itoa(len(res.Roots))).
		End("")
	if tracer.Level() >= trace.LevelDebug {
		for _, id := range res.Roots {
			if n, ok := res.Graph.Node(id); ok {
				trace.Point(ctx, trace.ScopeNode, "root", n.String())
			}
		}
	}
	return res, err
}

// step applies one node to the state machine.
func (p *Parser) step(n ast.Node) {
	switch n.Kind {
	case ast.NodeExpr:
		id := p.place(n)
		p.scopes = append(p.scopes, id)
	case ast.NodeCloseExpr:
		if p.state.kind == atRoot {
			p.unmatchedClose(n)
			return
		}
		p.scopes = p.scopes[:len(p.scopes)-1]
	default:
		p.place(n)
	}
	p.state = stateFor(len(p.scopes))
	if n.Kind != ast.NodeComment {
		p.last = n.Span
	}
}

// place adds n as a root or as the last child of the current scope.
func (p *Parser) place(n ast.Node) ast.NodeID {
	if p.state.kind == atRoot {
		return p.g.Add(n)
	}
	id, err := p.g.AddChild(p.scopes[len(p.scopes)-1], n)
	if err != nil {
		// области всегда живые узлы этого же графа
		panic(fmt.Errorf("parser: open scope lost in %s: %w", p.state, err))
	}
	return id
}

func (p *Parser) unmatchedClose(n ast.Node) {
	p.last = n.Span
	if p.opts.Mode == ModeLenient {
		return
	}
	pos := Position{Span: n.Span, Row: n.Row, Col: n.Col}
	p.err.UnmatchedClose = append(p.err.UnmatchedClose, pos)
	p.report(diag.SynUnexpectedToken, n.Span, "unmatched ')'", func(b *diag.ReportBuilder) {
		b.WithFix("remove ')'", diag.FixEdit{Span: n.Span, NewText: ""})
	})
}

func (p *Parser) finish() (*Result, error) {
	if len(p.scopes) > 0 && p.opts.Mode == ModeStrict {
		insert := source.Span{File: p.last.File, Start: p.last.End, End: p.last.End}
		for _, id := range p.scopes {
			n, _ := p.g.Node(id)
			p.err.UnclosedOpen = append(p.err.UnclosedOpen, Position{Span: n.Span, Row: n.Row, Col: n.Col})
			p.report(diag.SynUnclosedDelimiter, n.Span, "unclosed '(' at end of input", func(b *diag.ReportBuilder) {
				b.WithFix("insert ')'", diag.FixEdit{Span: insert, NewText: ")"})
			})
		}
	}
	p.scopes = nil
	p.state = stateFor(0)

	res := &Result{Graph: p.g, Roots: p.g.Roots()}
	if len(p.err.UnmatchedClose) > 0 || len(p.err.UnclosedOpen) > 0 {
		e := p.err
		return res, &e
	}
	return res, nil
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string, with func(*diag.ReportBuilder)) {
	if p.opts.Reporter == nil || p.opts.Enough() {
		return
	}
	p.opts.CurrentErrors++
	b := diag.ReportError(p.opts.Reporter, code, sp, msg)
	if with != nil {
		with(b)
	}
	b.Emit()
}
