package lsp

import (
	"shisp/internal/ast"
	"shisp/internal/diag"
	"shisp/internal/lexer"
	"shisp/internal/parser"
	"shisp/internal/source"
	"shisp/internal/token"
)

// document is an open buffer together with its last analysis.
type document struct {
	uri     string
	version int
	text    string

	fs     *source.FileSet
	file   *source.File
	tokens []token.Token
	graph  *ast.Graph
	bag    *diag.Bag
	// balanced is false when strict parsing found unmatched parentheses.
	balanced bool
}

// analyzeDocument lexes and parses the buffer in strict mode. Content is taken
// verbatim, so every span offset is an offset into text.
func analyzeDocument(uri string, version int, text string, maxDiagnostics int) *document {
	fs := source.NewFileSet()
	id := fs.AddVirtual(documentName(uri), []byte(text))
	file := fs.Get(id)

	bag := diag.NewBag(maxDiagnostics)
	reporter := diag.BagReporter{Bag: bag}
	toks := lexer.Scan(file, lexer.Options{Reporter: reporter})
	res, err := parser.Parse(toks, parser.Options{Mode: parser.ModeStrict, Reporter: reporter})
	bag.Sort()

	return &document{
		uri:      uri,
		version:  version,
		text:     text,
		fs:       fs,
		file:     file,
		tokens:   toks,
		graph:    res.Graph,
		bag:      bag,
		balanced: err == nil,
	}
}

func (d *document) spanRange(sp source.Span) lspRange {
	return rangeForOffsets(d.text, int(sp.Start), int(sp.End))
}

func (d *document) diagnostics() []lspDiagnostic {
	items := d.bag.Items()
	out := make([]lspDiagnostic, 0, len(items))
	for i := range items {
		item := &items[i]
		ld := lspDiagnostic{
			Range:    d.spanRange(item.Primary),
			Severity: lspSeverity(item.Severity),
			Code:     item.Code.ID(),
			Source:   "shisp",
			Message:  item.Message,
		}
		for _, note := range item.Notes {
			ld.RelatedInformation = append(ld.RelatedInformation, diagnosticRelatedInformation{
				Location: location{URI: d.uri, Range: d.spanRange(note.Span)},
				Message:  note.Msg,
			})
		}
		out = append(out, ld)
	}
	return out
}

func lspSeverity(sev diag.Severity) int {
	switch sev {
	case diag.SevError:
		return 1
	case diag.SevWarning:
		return 2
	default:
		return 3
	}
}

// quickFixes collects the fixes of diagnostics whose primary span touches r.
func (d *document) quickFixes(r lspRange) []codeAction {
	lo := offsetForPosition(d.text, r.Start)
	hi := offsetForPosition(d.text, r.End)
	var actions []codeAction
	items := d.bag.Items()
	for i := range items {
		item := &items[i]
		if int(item.Primary.End) < lo || int(item.Primary.Start) > hi {
			continue
		}
		for _, fx := range item.Fixes {
			if len(fx.Edits) == 0 {
				continue
			}
			edits := make([]textEdit, 0, len(fx.Edits))
			for _, e := range fx.Edits {
				edits = append(edits, textEdit{Range: d.spanRange(e.Span), NewText: e.NewText})
			}
			actions = append(actions, codeAction{
				Title: fx.Title,
				Kind:  "quickfix",
				Edit:  workspaceEdit{Changes: map[string][]textEdit{d.uri: edits}},
			})
		}
	}
	return actions
}
