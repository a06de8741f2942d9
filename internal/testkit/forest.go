package testkit

import (
	"fmt"

	"shisp/internal/ast"
)

// CheckForest verifies the structural invariants of g:
//  1. every edge connects two live nodes and parent/child links agree;
//  2. no node has two incoming edges and no node is its own ancestor;
//  3. Roots are exactly the parentless nodes and positions are contiguous.
func CheckForest(g *ast.Graph) error {
	if g == nil {
		return fmt.Errorf("nil graph")
	}
	ids := g.IDs()
	incoming := make(map[ast.NodeID]int, len(ids))
	edges := 0
	for pos, id := range ids {
		if i, ok := g.Index(id); !ok || i != pos {
			return fmt.Errorf("node %d: position %d, want %d", id, i, pos)
		}
		for _, c := range g.Children(id) {
			if !g.Contains(c) {
				return fmt.Errorf("edge %d→%d: child is not live", id, c)
			}
			if p, ok := g.Parent(c); !ok || p != id {
				return fmt.Errorf("edge %d→%d: child reports parent %d", id, c, p)
			}
			incoming[c]++
			edges++
		}
		if p, ok := g.Parent(id); ok && !g.Contains(p) {
			return fmt.Errorf("node %d: parent %d is not live", id, p)
		}
	}
	for id, n := range incoming {
		if n > 1 {
			return fmt.Errorf("node %d has %d incoming edges", id, n)
		}
	}
	if edges != g.EdgeCount() {
		return fmt.Errorf("edge count %d, found %d", g.EdgeCount(), edges)
	}

	for _, id := range ids {
		steps := 0
		for a, ok := g.Parent(id); ok; a, ok = g.Parent(a) {
			if a == id || steps > len(ids) {
				return fmt.Errorf("node %d is part of a cycle", id)
			}
			steps++
		}
	}

	roots := g.Roots()
	want := 0
	for _, id := range ids {
		if _, ok := g.Parent(id); !ok {
			want++
		}
	}
	if len(roots) != want {
		return fmt.Errorf("got %d roots, %d parentless nodes", len(roots), want)
	}
	return nil
}
