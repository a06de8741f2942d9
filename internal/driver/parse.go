package driver

import (
	"context"
	"errors"
	"strconv"

	"fortio.org/safecast"

	"shisp/internal/ast"
	"shisp/internal/diag"
	"shisp/internal/observ"
	"shisp/internal/parser"
	"shisp/internal/source"
	"shisp/internal/trace"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Graph   *ast.Graph
	Roots   []ast.NodeID
	Bag     *diag.Bag
	// Unbalanced is set in strict mode when parentheses do not match.
	Unbalanced *parser.UnbalancedError
	// Cached is true when the graph came from the disk cache.
	Cached bool
}

// Parse lexes and parses one file ("-" reads stdin). Load failures and
// cancellation are returned as errors; unbalanced input is not an error
// here, see ParseResult.Unbalanced and the SYN diagnostics in Bag.
func Parse(ctx context.Context, path string, opts Options) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "parse")
	defer span.End("")

	var timer *observ.Timer
	if opts.Timings {
		timer = observ.NewTimer()
	}

	fs := newFileSet("", &opts)
	idx := begin(timer, "load")
	file, err := loadFile(fs, path)
	end(timer, idx, "")
	if err != nil {
		return nil, err
	}

	bag := diag.NewBag(opts.bagLimit())
	res, err := parseFile(ctx, file, bag, &opts, timer)
	if err != nil {
		return nil, err
	}
	res.FileSet = fs
	appendTimingDiagnostic(bag, "parse", file.Path, timer)
	return res, nil
}

// parseFile is shared by Parse and ParseDir. fs is left for the caller.
func parseFile(ctx context.Context, file *source.File, bag *diag.Bag, opts *Options, timer *observ.Timer) (*ParseResult, error) {
	out := &ParseResult{File: file, Bag: bag}

	if opts.Cache != nil {
		idx := begin(timer, "cache")
		hit := opts.Cache.lookup(file, opts.Mode)
		end(timer, idx, hitNote(hit != nil))
		if hit != nil {
			trace.Point(ctx, trace.ScopePass, "cache-hit", file.Path)
			out.Graph, out.Roots, out.Cached = hit.Graph, hit.Roots, true
			return out, nil
		}
	}

	maxErrors, err := safecast.Conv[uint](opts.MaxDiagnostics)
	if err != nil {
		maxErrors = 0
	}
	idx := begin(timer, "parse")
	res, err := parser.ParseFile(ctx, file, parser.Options{
		Mode:      opts.Mode,
		MaxErrors: maxErrors,
		Reporter:  reporterFor(ctx, bag),
	})
	if err != nil && !errors.Is(err, parser.ErrUnbalanced) {
		end(timer, idx, "")
		return nil, err
	}
	end(timer, idx, strconv.Itoa(res.Graph.Len())+" nodes")
	out.Graph, out.Roots = res.Graph, res.Roots
	errors.As(err, &out.Unbalanced)

	if err == nil && bag.Len() == 0 {
		if cerr := opts.Cache.store(file, opts.Mode, res); cerr != nil {
			trace.Point(ctx, trace.ScopePass, "cache-store-failed", cerr.Error())
		}
	}
	return out, nil
}

func hitNote(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
