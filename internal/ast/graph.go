package ast

import (
	"fmt"
	"slices"
)

type slot struct {
	node     Node
	parent   NodeID
	children []NodeID
	removed  bool
}

// Edge is a directed parent→child link.
type Edge struct {
	Parent NodeID
	Child  NodeID
}

// Graph is a forest of parse nodes stored in an append-only arena.
//
// Nodes are addressed by NodeID handles that never change. Removal leaves a
// tombstone in the arena. The positional index of a node is its rank among the
// live nodes in insertion order, so removing a node shifts the index of every
// later node down by one without rewriting any edge.
//
// A slot records a single parent, which makes "at most one incoming edge"
// structural. Graph is not safe for concurrent mutation.
type Graph struct {
	slots *Arena[slot]
	order []NodeID // живые узлы по возрастанию ID (= порядок вставки)
	edges int
}

// NewGraph creates an empty graph; capHint pre-sizes the arena.
func NewGraph(capHint uint) *Graph {
	return &Graph{
		slots: NewArena[slot](capHint),
		order: make([]NodeID, 0, capHint),
	}
}

func (g *Graph) slot(id NodeID) *slot {
	s := g.slots.Get(uint32(id))
	if s == nil || s.removed {
		return nil
	}
	return s
}

// Add inserts a parentless node and returns its handle.
func (g *Graph) Add(n Node) NodeID {
	id := NodeID(g.slots.Allocate(slot{node: n}))
	g.order = append(g.order, id)
	return id
}

// AddChild inserts n as the last child of parent.
func (g *Graph) AddChild(parent NodeID, n Node) (NodeID, error) {
	if g.slot(parent) == nil {
		return NoNodeID, fmt.Errorf("%w: id %d", ErrParentNotFound, parent)
	}
	id := g.Add(n)
	g.link(parent, id)
	return id, nil
}

// Attach makes an existing parentless node the last child of parent.
func (g *Graph) Attach(parent, child NodeID) error {
	if g.slot(parent) == nil {
		return fmt.Errorf("%w: id %d", ErrParentNotFound, parent)
	}
	c := g.slot(child)
	if c == nil {
		return fmt.Errorf("%w: id %d", ErrNodeNotFound, child)
	}
	if c.parent.IsValid() {
		return fmt.Errorf("%w: id %d is a child of %d", ErrAlreadyParented, child, c.parent)
	}
	for a := parent; a.IsValid(); a = g.slot(a).parent {
		if a == child {
			return fmt.Errorf("%w: %d is an ancestor of %d", ErrCycle, child, parent)
		}
	}
	g.link(parent, child)
	return nil
}

func (g *Graph) link(parent, child NodeID) {
	p := g.slot(parent)
	p.children = append(p.children, child)
	g.slot(child).parent = parent
	g.edges++
}

// Node returns the node stored under id.
func (g *Graph) Node(id NodeID) (Node, bool) {
	s := g.slot(id)
	if s == nil {
		return Node{}, false
	}
	return s.node, true
}

// Contains reports whether id is a live node.
func (g *Graph) Contains(id NodeID) bool { return g.slot(id) != nil }

// Children returns the children of id in edge-insertion order.
// Unknown handles have no children.
func (g *Graph) Children(id NodeID) []NodeID {
	s := g.slot(id)
	if s == nil || len(s.children) == 0 {
		return nil
	}
	return slices.Clone(s.children)
}

// Parent returns the parent of id, if any.
func (g *Graph) Parent(id NodeID) (NodeID, bool) {
	s := g.slot(id)
	if s == nil || !s.parent.IsValid() {
		return NoNodeID, false
	}
	return s.parent, true
}

// Remove deletes id and every edge touching it. Its children become roots.
func (g *Graph) Remove(id NodeID) error {
	if err := g.Deparent(id); err != nil {
		return err
	}
	s := g.slot(id)
	s.removed = true
	s.node = Node{}
	if i, ok := slices.BinarySearch(g.order, id); ok {
		g.order = slices.Delete(g.order, i, i+1)
	}
	return nil
}

// Deparent deletes every edge touching id and keeps the node.
func (g *Graph) Deparent(id NodeID) error {
	s := g.slot(id)
	if s == nil {
		return fmt.Errorf("%w: id %d", ErrNodeNotFound, id)
	}
	if s.parent.IsValid() {
		p := g.slot(s.parent)
		if i := slices.Index(p.children, id); i >= 0 {
			p.children = slices.Delete(p.children, i, i+1)
		}
		s.parent = NoNodeID
		g.edges--
	}
	for _, c := range s.children {
		g.slot(c).parent = NoNodeID
	}
	g.edges -= len(s.children)
	s.children = nil
	return nil
}

// Roots returns the parentless live nodes in insertion order.
func (g *Graph) Roots() []NodeID {
	var out []NodeID
	for _, id := range g.order {
		if !g.slot(id).parent.IsValid() {
			out = append(out, id)
		}
	}
	return out
}

// IDs returns every live handle in insertion order.
func (g *Graph) IDs() []NodeID { return slices.Clone(g.order) }

// Len returns the number of live nodes.
func (g *Graph) Len() int { return len(g.order) }

// EdgeCount returns the number of parent→child edges.
func (g *Graph) EdgeCount() int { return g.edges }

// Edges lists every edge, grouped by parent in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for _, id := range g.order {
		for _, c := range g.slot(id).children {
			out = append(out, Edge{Parent: id, Child: c})
		}
	}
	return out
}

// Walk visits the subtree of root in pre-order. Returning false from fn skips
// the children of the visited node.
func (g *Graph) Walk(root NodeID, fn func(id NodeID, depth int) bool) {
	g.walk(root, 0, fn)
}

func (g *Graph) walk(id NodeID, depth int, fn func(NodeID, int) bool) {
	s := g.slot(id)
	if s == nil || !fn(id, depth) {
		return
	}
	for _, c := range s.children {
		g.walk(c, depth+1, fn)
	}
}

// Clone returns an independent copy; handles stay valid in both graphs.
func (g *Graph) Clone() *Graph {
	out := &Graph{
		slots: g.slots.Clone(),
		order: slices.Clone(g.order),
		edges: g.edges,
	}
	data := out.slots.Slice()
	for i := range data {
		data[i].children = slices.Clone(data[i].children)
	}
	return out
}
