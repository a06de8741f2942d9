package driver

import (
	"context"
	"strconv"

	"shisp/internal/diag"
	"shisp/internal/lexer"
	"shisp/internal/observ"
	"shisp/internal/source"
	"shisp/internal/token"
	"shisp/internal/trace"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize lexes one file ("-" reads stdin). Only load failures are
// returned as errors; lexer findings land in Bag.
func Tokenize(ctx context.Context, path string, opts Options) (*TokenizeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "tokenize")
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
	toks := tokenizeFile(ctx, file, bag, &opts, timer)
	appendTimingDiagnostic(bag, "tokenize", file.Path, timer)

	return &TokenizeResult{FileSet: fs, File: file, Tokens: toks, Bag: bag}, nil
}

func tokenizeFile(ctx context.Context, file *source.File, bag *diag.Bag, opts *Options, timer *observ.Timer) []token.Token {
	sp := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "lex", trace.CurrentSpan(ctx).SpanID)
	idx := begin(timer, "lex")
	toks := lexer.Scan(file, lexer.Options{
		Reporter:   reporterFor(ctx, bag),
		KeepTrivia: opts.KeepTrivia,
	})
	n := strconv.Itoa(len(toks))
	end(timer, idx, n+" tokens")
	sp.WithExtra("tokens", n).End("")
	return toks
}

// begin/end tolerate a nil timer so callers need not branch on --timings.
func begin(t *observ.Timer, name string) int {
	if t == nil {
		return -1
	}
	return t.Begin(name)
}

func end(t *observ.Timer, idx int, note string) {
	if t != nil {
		t.End(idx, note)
	}
}
