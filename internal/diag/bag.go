package diag

import (
	"cmp"
	"slices"
)

// Bag collects diagnostics of one run up to a fixed limit.
type Bag struct {
	items []Diagnostic
	max   uint16
}

func NewBag(max int) *Bag {
	return &Bag{
		items: make([]Diagnostic, 0, max),
		max:   uint16(max), // #nosec G115 -- driver clamps the limit
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// HasErrors reports whether any diagnostic is an error.
func (b *Bag) HasErrors() bool {
	return b.any(SevError)
}

// HasWarnings reports whether any diagnostic is a warning or worse.
func (b *Bag) HasWarnings() bool {
	return b.any(SevWarning)
}

func (b *Bag) any(atLeast Severity) bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= atLeast })
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает внутренний срез; менять его нельзя.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends the diagnostics of other, raising the limit so none is lost.
func (b *Bag) Merge(other *Bag) {
	if total := len(b.items) + len(other.items); total > int(b.max) {
		b.max = uint16(total) // #nosec G115 -- bounded by the two limits
	}
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics by file, start, end, severity (errors first) and code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}

type bagKey struct {
	code    Code
	primary [3]uint32
}

// Dedup drops later diagnostics with the same code and primary span.
func (b *Bag) Dedup() {
	seen := make(map[bagKey]struct{}, len(b.items))
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool {
		key := bagKey{code: d.Code, primary: [3]uint32{uint32(d.Primary.File), d.Primary.Start, d.Primary.End}}
		if _, dup := seen[key]; dup {
			return true
		}
		seen[key] = struct{}{}
		return false
	})
}
