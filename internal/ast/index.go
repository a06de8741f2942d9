package ast

import (
	"fmt"
	"slices"
)

// Positional view of the graph. A position is the rank of a live node in
// insertion order; it shifts when an earlier node is removed.

// Index returns the position of id.
func (g *Graph) Index(id NodeID) (int, bool) {
	if g.slot(id) == nil {
		return -1, false
	}
	return slices.BinarySearch(g.order, id)
}

// At returns the handle at position i.
func (g *Graph) At(i int) (NodeID, bool) {
	if i < 0 || i >= len(g.order) {
		return NoNodeID, false
	}
	return g.order[i], true
}

// NodeAt returns the node at position i.
func (g *Graph) NodeAt(i int) (Node, bool) {
	id, ok := g.At(i)
	if !ok {
		return Node{}, false
	}
	return g.Node(id)
}

func (g *Graph) positions(ids []NodeID) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if i, ok := g.Index(id); ok {
			out = append(out, i)
		}
	}
	return out
}

// AddBaseNode appends a parentless node and returns its position.
func (g *Graph) AddBaseNode(n Node) int {
	g.Add(n)
	return len(g.order) - 1
}

// AddChildIndex appends n as the last child of the node at position i and
// returns the new node's position.
func (g *Graph) AddChildIndex(i int, n Node) (int, error) {
	parent, ok := g.At(i)
	if !ok {
		return -1, fmt.Errorf("%w: index %d", ErrParentNotFound, i)
	}
	if _, err := g.AddChild(parent, n); err != nil {
		return -1, err
	}
	return len(g.order) - 1, nil
}

// ChildrenIndex returns child positions of the node at position i.
func (g *Graph) ChildrenIndex(i int) []int {
	id, ok := g.At(i)
	if !ok {
		return nil
	}
	return g.positions(g.slot(id).children)
}

// ParentIndex returns the position of the parent of the node at position i.
func (g *Graph) ParentIndex(i int) (int, bool) {
	id, ok := g.At(i)
	if !ok {
		return -1, false
	}
	p, ok := g.Parent(id)
	if !ok {
		return -1, false
	}
	return g.Index(p)
}

// RemoveIndex removes the node at position i.
func (g *Graph) RemoveIndex(i int) error {
	id, ok := g.At(i)
	if !ok {
		return fmt.Errorf("%w: index %d", ErrNodeNotFound, i)
	}
	return g.Remove(id)
}

// DeparentIndex drops every edge touching the node at position i.
func (g *Graph) DeparentIndex(i int) error {
	id, ok := g.At(i)
	if !ok {
		return fmt.Errorf("%w: index %d", ErrNodeNotFound, i)
	}
	return g.Deparent(id)
}

// RootIndexes returns the positions of all roots in ascending order.
func (g *Graph) RootIndexes() []int {
	return g.positions(g.Roots())
}
