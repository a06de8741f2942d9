// Package ast holds the parse node model and the AST graph built from it.
//
// A Graph is a forest: nodes live in an append-only arena and are addressed by
// NodeID handles; every node has at most one parent and ordered children.
// Three views exist over the same storage:
//
//   - handles (Add, AddChild, Attach, Children, Parent, Remove, Deparent);
//   - positions (AddBaseNode, AddChildIndex, ChildrenIndex, ParentIndex,
//     RemoveIndex, DeparentIndex, RootIndexes), where a position is the rank
//     of a live node in insertion order;
//   - values (AddChildOf, ChildrenOf, ParentOf, RemoveNode, DeparentNode),
//     resolving a Node to the first equal live node.
//
// Mutations happen in place. Clone returns an independent copy.
package ast
