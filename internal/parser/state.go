package parser

import "fmt"

type stateKind uint8

const (
	atRoot stateKind = iota
	insideExpr
)

// state is the tree builder's position: either at the top level or inside
// depth nested expressions.
type state struct {
	kind  stateKind
	depth int
}

func stateFor(depth int) state {
	if depth == 0 {
		return state{kind: atRoot}
	}
	return state{kind: insideExpr, depth: depth}
}

func (s state) String() string {
	if s.kind == atRoot {
		return "AtRoot"
	}
	return fmt.Sprintf("InsideExpr(%d)", s.depth)
}
