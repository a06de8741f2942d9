package ast

import "errors"

var (
	// ErrParentNotFound is returned when the parent handle, index or value does
	// not resolve to a live node.
	ErrParentNotFound = errors.New("parent node not found")
	// ErrNodeNotFound is returned when the target of an operation is not a live node.
	ErrNodeNotFound = errors.New("node not found")
	// ErrAlreadyParented is returned by Attach when the child already has a parent.
	ErrAlreadyParented = errors.New("node already has a parent")
	// ErrCycle is returned by Attach when the edge would close a cycle.
	ErrCycle = errors.New("edge would create a cycle")
)
