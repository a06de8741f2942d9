package driver

import (
	"context"
	"fmt"
	"io"
	"os"

	"shisp/internal/diag"
	"shisp/internal/source"
	"shisp/internal/trace"
)

// StdinPath names standard input on the command line.
const StdinPath = "-"

var stdin io.Reader = os.Stdin

func newFileSet(base string, opts *Options) *source.FileSet {
	fs := source.NewFileSetWithBase(base)
	fs.SetNormalization(opts.Normalize)
	return fs
}

// loadFile adds path (or stdin for "-") to fs.
func loadFile(fs *source.FileSet, path string) (*source.File, error) {
	if path == StdinPath {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return fs.Get(fs.AddVirtual("<stdin>", data)), nil
	}
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return fs.Get(id), nil
}

func reportLoadError(bag *diag.Bag, path string, err error) {
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, fmt.Sprintf("failed to load %s: %v", path, err)))
}

// traceReporter mirrors diagnostics as trace points of the file scope.
type traceReporter struct{ ctx context.Context }

func (r traceReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, _ []diag.Note, _ []diag.Fix) {
	trace.Point(r.ctx, trace.ScopeFile, "diag "+code.ID(), fmt.Sprintf("%s %s %s", sev, primary, msg))
}

// reporterFor builds the reporter of one file run: duplicates are dropped,
// and at detail level every diagnostic is also traced.
func reporterFor(ctx context.Context, bag *diag.Bag) diag.Reporter {
	var next diag.Reporter = diag.BagReporter{Bag: bag}
	if trace.FromContext(ctx).Level() >= trace.LevelDetail {
		next = diag.MultiReporter{next, traceReporter{ctx: ctx}}
	}
	return diag.NewDedupReporter(next)
}
