package source

import (
	"testing"
)

func TestSpan_Cover(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Span
		expected Span
	}{
		{
			name:     "disjoint spans",
			a:        Span{File: 1, Start: 2, End: 4},
			b:        Span{File: 1, Start: 8, End: 10},
			expected: Span{File: 1, Start: 2, End: 10},
		},
		{
			name:     "nested span",
			a:        Span{File: 1, Start: 0, End: 10},
			b:        Span{File: 1, Start: 3, End: 4},
			expected: Span{File: 1, Start: 0, End: 10},
		},
		{
			name:     "different files keep receiver",
			a:        Span{File: 1, Start: 2, End: 4},
			b:        Span{File: 2, Start: 0, End: 10},
			expected: Span{File: 1, Start: 2, End: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.expected {
				t.Errorf("Cover() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSpan_ContainsAndLen(t *testing.T) {
	outer := Span{File: 0, Start: 3, End: 9}
	if !outer.Contains(Span{File: 0, Start: 3, End: 9}) {
		t.Error("span must contain itself")
	}
	if outer.Contains(Span{File: 0, Start: 2, End: 4}) {
		t.Error("span must not contain an overlapping span that starts earlier")
	}
	if outer.Contains(Span{File: 1, Start: 4, End: 5}) {
		t.Error("span must not contain spans of another file")
	}
	if outer.Len() != 6 {
		t.Errorf("Len() = %d, want 6", outer.Len())
	}
	if !(Span{Start: 4, End: 4}).Empty() {
		t.Error("zero-length span must be empty")
	}
}

func TestRange_Width(t *testing.T) {
	if w := (Range{Start: 2, End: 2}).Width(); w != 1 {
		t.Errorf("single position width = %d, want 1", w)
	}
	if w := (Range{Start: 0, End: 5}).Width(); w != 6 {
		t.Errorf("width = %d, want 6", w)
	}
	if !(Range{Start: 1, End: 3}).Contains(3) {
		t.Error("inclusive range must contain its end")
	}
}
