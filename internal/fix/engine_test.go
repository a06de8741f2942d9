package fix

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"shisp/internal/diag"
	"shisp/internal/parser"
	"shisp/internal/source"
)

// parseDiagnostics parses content strictly and returns what the parser reported.
func parseDiagnostics(t *testing.T, fs *source.FileSet, id source.FileID) []diag.Diagnostic {
	t.Helper()
	bag := diag.NewBag(100)
	_, err := parser.ParseFile(context.Background(), fs.Get(id), parser.Options{
		Mode:     parser.ModeStrict,
		Reporter: diag.BagReporter{Bag: bag},
	})
	if err == nil {
		t.Fatalf("expected unbalanced input")
	}
	return bag.Items()
}

func TestApplyAllWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.shisp")
	if err := os.WriteFile(path, []byte("(a (b)"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}

	res, err := Apply(fs, parseDiagnostics(t, fs, id), ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 || len(res.FileChanges) != 1 {
		t.Fatalf("applied=%d changes=%d", len(res.Applied), len(res.FileChanges))
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "(a (b))" {
		t.Fatalf("file = %q", got)
	}
}

func TestApplyDryRunVirtual(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("<stdin>", []byte("((x) y))"))

	diags := parseDiagnostics(t, fs, id)
	if _, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll}); !errors.Is(err, ErrNoFixes) {
		t.Fatalf("virtual file must not be written, err = %v", err)
	}

	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if got := string(res.FileChanges[0].Content); got != "((x) y)" {
		t.Fatalf("content = %q", got)
	}
	if string(fs.Get(id).Content) != "((x) y))" {
		t.Fatalf("dry run modified the FileSet")
	}
}

func TestApplyMultipleInsertsAtEnd(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("v.shisp", []byte("((a"))

	res, err := Apply(fs, parseDiagnostics(t, fs, id), ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := string(res.FileChanges[0].Content); got != "((a))" {
		t.Fatalf("content = %q", got)
	}
	if res.FileChanges[0].EditCount != 2 {
		t.Fatalf("edit count = %d", res.FileChanges[0].EditCount)
	}
}

func TestInsertCloseSkipsTrailingComment(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"comment after atom", "(a ;note", "(a) ;note"},
		{"comment only scope", "( ;note", "() ;note"},
		{"nested with comments", "(a ;one\n  (b ;two", "(a ;one\n  (b)) ;two"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := source.NewFileSet()
			id := fs.AddVirtual("v.shisp", []byte(tt.src))

			res, err := Apply(fs, parseDiagnostics(t, fs, id), ApplyOptions{Mode: ApplyModeAll, DryRun: true})
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			got := res.FileChanges[0].Content
			if string(got) != tt.want {
				t.Fatalf("content = %q, want %q", got, tt.want)
			}

			fixed := fs.Get(fs.AddVirtual("fixed.shisp", got))
			bag := diag.NewBag(10)
			if _, err := parser.ParseFile(context.Background(), fixed, parser.Options{
				Mode:     parser.ModeStrict,
				Reporter: diag.BagReporter{Bag: bag},
			}); err != nil {
				t.Fatalf("fixed source still unbalanced: %v", err)
			}
			if bag.Len() != 0 {
				t.Fatalf("unexpected diagnostics after fix: %d", bag.Len())
			}
		})
	}
}

func TestApplyOnceAndByID(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("v.shisp", []byte("a) b)"))
	diags := parseDiagnostics(t, fs, id)

	res, err := Apply(fs, diags, ApplyOptions{Mode: ApplyModeOnce, DryRun: true})
	if err != nil {
		t.Fatalf("once: %v", err)
	}
	if got := string(res.FileChanges[0].Content); got != "a b)" {
		t.Fatalf("once content = %q", got)
	}

	target := res.Applied[0].ID
	res, err = Apply(fs, diags, ApplyOptions{Mode: ApplyModeID, TargetID: target, DryRun: true})
	if err != nil || res.Applied[0].ID != target {
		t.Fatalf("by id: %v", err)
	}

	res, err = Apply(fs, diags, ApplyOptions{Mode: ApplyModeID, TargetID: "nope", DryRun: true})
	if !errors.Is(err, ErrNoFixes) || len(res.Skipped) != 1 || res.Skipped[0].Reason != "fix id not found" {
		t.Fatalf("missing id: err=%v skipped=%v", err, res.Skipped)
	}
}

func TestGatherCandidatesSkipsDuplicateFixIDs(t *testing.T) {
	span := source.Span{File: 0, Start: 0, End: 0}
	fixes := []diag.Fix{{Title: "insert ')'", Edits: []diag.FixEdit{{Span: span, NewText: ")"}}}}
	d := diag.NewError(diag.SynUnclosedDelimiter, span, "unclosed")
	d.Fixes = fixes
	empty := diag.NewError(diag.SynUnexpectedToken, span, "no edits")
	empty.Fixes = []diag.Fix{{Title: "nothing"}}

	cands, skips := gatherCandidates([]diag.Diagnostic{d, d, empty})
	if len(cands) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(cands))
	}
	if len(skips) != 2 || skips[0].Reason != "duplicate fix id" || skips[1].Reason != "fix has no edits" {
		t.Fatalf("skips = %+v", skips)
	}
}

func TestSpansConflict(t *testing.T) {
	edit := func(s, e uint32) diag.FixEdit { return diag.FixEdit{Span: source.Span{Start: s, End: e}} }
	tests := []struct {
		a, b diag.FixEdit
		want bool
	}{
		{edit(1, 1), edit(1, 1), false},
		{edit(2, 2), edit(1, 4), true},
		{edit(1, 1), edit(1, 4), false},
		{edit(1, 3), edit(2, 5), true},
		{edit(1, 3), edit(3, 5), false},
	}
	for _, tt := range tests {
		if got := spansConflict(tt.a, tt.b); got != tt.want {
			t.Errorf("spansConflict(%v, %v) = %v, want %v", tt.a.Span, tt.b.Span, got, tt.want)
		}
	}
}
