package ast

import (
	"fmt"

	"shisp/internal/source"
)

// Snapshot is a position-addressed, serialisable copy of a Graph. It is what
// the driver caches on disk and what the JSON and msgpack outputs contain.
type Snapshot struct {
	Nodes []SnapshotNode `json:"nodes" msgpack:"nodes"`
	Edges [][2]int       `json:"edges" msgpack:"edges"`
	Roots []int          `json:"roots" msgpack:"roots"`
}

// SnapshotNode is a Node flattened for serialisation.
type SnapshotNode struct {
	Kind  string    `json:"kind" msgpack:"kind"`
	Value string    `json:"value,omitempty" msgpack:"value,omitempty"`
	Num   uint64    `json:"-" msgpack:"num,omitempty"`
	Bool  bool      `json:"-" msgpack:"bool,omitempty"`
	Row   [2]uint32 `json:"row" msgpack:"row"`
	Col   [2]uint32 `json:"col" msgpack:"col"`
	Span  [2]uint32 `json:"span" msgpack:"span"`
}

// Snapshot captures the live nodes, edges and roots by position.
func (g *Graph) Snapshot() Snapshot {
	snap := Snapshot{
		Nodes: make([]SnapshotNode, 0, len(g.order)),
		Edges: make([][2]int, 0, g.edges),
		Roots: g.RootIndexes(),
	}
	for i, id := range g.order {
		s := g.slot(id)
		n := s.node
		snap.Nodes = append(snap.Nodes, SnapshotNode{
			Kind:  n.Kind.String(),
			Value: n.Payload(),
			Num:   n.Num,
			Bool:  n.Bool,
			Row:   [2]uint32{n.Row.Start, n.Row.End},
			Col:   [2]uint32{n.Col.Start, n.Col.End},
			Span:  [2]uint32{n.Span.Start, n.Span.End},
		})
		for _, c := range g.positions(s.children) {
			snap.Edges = append(snap.Edges, [2]int{i, c})
		}
	}
	if snap.Roots == nil {
		snap.Roots = []int{}
	}
	return snap
}

// FromSnapshot rebuilds a graph. Spans are bound to file. Edges are replayed
// in order, so children keep their order.
func FromSnapshot(snap Snapshot, file source.FileID) (*Graph, error) {
	g := NewGraph(uint(len(snap.Nodes)))
	for i, sn := range snap.Nodes {
		kind, ok := ParseNodeKind(sn.Kind)
		if !ok {
			return nil, fmt.Errorf("snapshot node %d: unknown kind %q", i, sn.Kind)
		}
		n := Node{
			Kind: kind,
			Num:  sn.Num,
			Bool: sn.Bool,
			Row:  source.Range{Start: sn.Row[0], End: sn.Row[1]},
			Col:  source.Range{Start: sn.Col[0], End: sn.Col[1]},
			Span: source.Span{File: file, Start: sn.Span[0], End: sn.Span[1]},
		}
		switch kind {
		case NodeStr, NodeAtom, NodeComment:
			n.Text = sn.Value
		}
		g.Add(n)
	}
	for _, e := range snap.Edges {
		parent, ok := g.At(e[0])
		if !ok {
			return nil, fmt.Errorf("snapshot edge %v: %w", e, ErrParentNotFound)
		}
		child, ok := g.At(e[1])
		if !ok {
			return nil, fmt.Errorf("snapshot edge %v: %w", e, ErrNodeNotFound)
		}
		if err := g.Attach(parent, child); err != nil {
			return nil, fmt.Errorf("snapshot edge %v: %w", e, err)
		}
	}
	return g, nil
}
