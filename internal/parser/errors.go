package parser

import (
	"errors"
	"fmt"
	"strings"

	"shisp/internal/source"
)

// ErrUnbalanced is matched by errors.Is for every *UnbalancedError.
var ErrUnbalanced = errors.New("unbalanced expression")

// Position locates a parenthesis in the source.
type Position struct {
	Span source.Span
	Row  source.Range
	Col  source.Range
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Row.Start+1, p.Col.Start+1)
}

// UnbalancedError lists the parentheses that did not pair up.
// UnclosedOpen is ordered from the outermost scope inwards.
type UnbalancedError struct {
	UnmatchedClose []Position
	UnclosedOpen   []Position
}

func (e *UnbalancedError) Error() string {
	var parts []string
	if n := len(e.UnmatchedClose); n > 0 {
		parts = append(parts, fmt.Sprintf("%d unmatched ')' (first at %s)", n, e.UnmatchedClose[0]))
	}
	if n := len(e.UnclosedOpen); n > 0 {
		parts = append(parts, fmt.Sprintf("%d unclosed '(' (first at %s)", n, e.UnclosedOpen[0]))
	}
	return fmt.Sprintf("%s: %s", ErrUnbalanced, strings.Join(parts, ", "))
}

func (e *UnbalancedError) Unwrap() error { return ErrUnbalanced }
