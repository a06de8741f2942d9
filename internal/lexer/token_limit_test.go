package lexer

import (
	"strings"
	"testing"

	"shisp/internal/diag"
	"shisp/internal/source"
	"shisp/internal/token"
)

func TestTokenTooLongTriggersDiagnostic(t *testing.T) {
	content := strings.Repeat("1", maxTokenLength+1) + " x"
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("long.shisp", []byte(content)))

	bag := diag.NewBag(4)
	lx := New(file, Options{Reporter: &diag.BagReporter{Bag: bag}})

	tok := lx.Next()
	if tok.Kind != token.Atom || len(tok.Text) != maxTokenLength+1 {
		t.Fatalf("expected whole over-long lexeme as Atom, got %v (%d bytes)", tok.Kind, len(tok.Text))
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexTokenTooLong {
		t.Fatalf("expected a single LexTokenTooLong, got %v", bag.Items())
	}
	if next := lx.Next(); next.Kind != token.Atom || next.Text != "x" {
		t.Fatalf("lexing must continue after the long token, got %v", next)
	}
}

func TestTokenAtLimitAllowed(t *testing.T) {
	content := strings.Repeat("b", maxTokenLength)
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("limit.shisp", []byte(content)))

	bag := diag.NewBag(1)
	lx := New(file, Options{Reporter: &diag.BagReporter{Bag: bag}})

	if tok := lx.Next(); tok.Kind != token.Atom {
		t.Fatalf("expected atom token, got %v", tok.Kind)
	}
	if bag.HasErrors() {
		t.Fatalf("did not expect diagnostics, got %v", bag.Items())
	}
}
