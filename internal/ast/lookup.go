package ast

import "fmt"

// Value-lookup view of the graph. A node value resolves to the first live node
// equal to it in insertion order, so structurally identical nodes are
// ambiguous. Prefer handles.

// Find returns the first live node equal to n.
func (g *Graph) Find(n Node) (NodeID, bool) {
	for _, id := range g.order {
		if g.slot(id).node == n {
			return id, true
		}
	}
	return NoNodeID, false
}

// AddChildOf appends child under the first node equal to parent.
func (g *Graph) AddChildOf(parent, child Node) (NodeID, error) {
	p, ok := g.Find(parent)
	if !ok {
		return NoNodeID, fmt.Errorf("%w: %s", ErrParentNotFound, parent)
	}
	return g.AddChild(p, child)
}

// ChildrenOf returns the child values of the first node equal to n.
func (g *Graph) ChildrenOf(n Node) []Node {
	id, ok := g.Find(n)
	if !ok {
		return nil
	}
	kids := g.slot(id).children
	out := make([]Node, 0, len(kids))
	for _, c := range kids {
		out = append(out, g.slot(c).node)
	}
	return out
}

// ParentOf returns the parent value of the first node equal to n.
func (g *Graph) ParentOf(n Node) (Node, bool) {
	id, ok := g.Find(n)
	if !ok {
		return Node{}, false
	}
	p, ok := g.Parent(id)
	if !ok {
		return Node{}, false
	}
	return g.Node(p)
}

// RemoveNode removes the first node equal to n.
func (g *Graph) RemoveNode(n Node) error {
	id, ok := g.Find(n)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, n)
	}
	return g.Remove(id)
}

// DeparentNode drops every edge touching the first node equal to n.
func (g *Graph) DeparentNode(n Node) error {
	id, ok := g.Find(n)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, n)
	}
	return g.Deparent(id)
}
