package parser

import (
	"fmt"
	"strings"

	"shisp/internal/diag"
)

// Mode selects how the tree builder treats unbalanced parentheses.
type Mode uint8

const (
	// ModeStrict reports unmatched ')' and unclosed '(' and returns an
	// *UnbalancedError alongside the partial tree.
	ModeStrict Mode = iota
	// ModeLenient ignores unmatched ')' and silently drops unclosed scopes.
	ModeLenient
)

func (m Mode) String() string {
	switch m {
	case ModeStrict:
		return "strict"
	case ModeLenient:
		return "lenient"
	default:
		return "unknown"
	}
}

// ParseMode converts a string to Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return ModeStrict, nil
	case "lenient":
		return ModeLenient, nil
	default:
		return ModeStrict, fmt.Errorf("invalid parse mode: %q (expected: strict|lenient)", s)
	}
}

type Options struct {
	Mode          Mode
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}
