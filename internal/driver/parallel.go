package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"shisp/internal/diag"
	"shisp/internal/observ"
	"shisp/internal/source"
	"shisp/internal/token"
	"shisp/internal/trace"
)

// TokenizeDirResult содержит результат токенизации одного файла
type TokenizeDirResult struct {
	Path   string
	FileID source.FileID // meaningless when the file failed to load
	Tokens []token.Token
	Bag    *diag.Bag
}

// ParseDirResult содержит результат парсинга одного файла
type ParseDirResult struct {
	Path string
	*ParseResult
}

// ListSourceFiles returns every *.shisp file under dir, sorted.
func ListSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// детерминированный порядок
	slices.Sort(files)
	return files, nil
}

// preload reads all files up front: FileSet is not safe for concurrent Add,
// workers only read from it.
func preload(dir string, files []string, opts *Options) (*source.FileSet, map[string]*source.File, map[string]error) {
	fileSet := newFileSet(dir, opts)
	loaded := make(map[string]*source.File, len(files))
	loadErrors := make(map[string]error)
	for _, path := range files {
		opts.emit(Event{File: path, Stage: StageLoad, Status: StatusQueued})
		f, err := loadFile(fileSet, path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		loaded[path] = f
	}
	return fileSet, loaded, loadErrors
}

func jobsFor(opts *Options, n int) int {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, n))
}

// forEachFile runs fn for every file on a bounded errgroup. fn gets the file
// index, so results are written without locking. fn reports whether the file
// had errors; a non-nil error stops the whole run.
func forEachFile(ctx context.Context, files []string, opts *Options, stage Stage, fn func(ctx context.Context, i int, path string) (bool, error)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobsFor(opts, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fctx, span := trace.Start(gctx, trace.ScopeFile, "file:"+path)
			started := time.Now()
			opts.emit(Event{File: path, Stage: stage, Status: StatusWorking})
			failed, err := fn(fctx, i, path)
			status := StatusDone
			if failed || err != nil {
				status = StatusError
			}
			opts.emit(Event{File: path, Stage: stage, Status: status, Err: err, Elapsed: time.Since(started)})
			span.End(string(status))
			return err
		})
	}
	return g.Wait()
}

// TokenizeDir токенизирует все *.shisp файлы в директории параллельно.
// Files that fail to load get an IO4001 diagnostic instead of tokens.
func TokenizeDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []TokenizeDirResult, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "tokenize-dir")
	defer span.End("")

	files, err := ListSourceFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	fileSet, loaded, loadErrors := preload(dir, files, &opts)
	results := make([]TokenizeDirResult, len(files))

	err = forEachFile(ctx, files, &opts, StageTokenize, func(ctx context.Context, i int, path string) (bool, error) {
		bag := diag.NewBag(opts.bagLimit())
		results[i] = TokenizeDirResult{Path: path, Bag: bag}
		if lerr, bad := loadErrors[path]; bad {
			reportLoadError(bag, path, lerr)
			return true, nil
		}
		var timer *observ.Timer
		if opts.Timings {
			timer = observ.NewTimer()
		}
		file := loaded[path]
		results[i].FileID = file.ID
		results[i].Tokens = tokenizeFile(ctx, file, bag, &opts, timer)
		appendTimingDiagnostic(bag, "tokenize", path, timer)
		return bag.HasErrors(), nil
	})
	span.WithExtra("files", strconv.Itoa(len(files)))
	opts.emit(Event{Stage: StageTokenize, Status: StatusDone})
	return fileSet, results, err
}

// ParseDir парсит все *.shisp файлы в директории параллельно, по одному
// графу на файл.
func ParseDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []ParseDirResult, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "parse-dir")
	defer span.End("")

	files, err := ListSourceFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	fileSet, loaded, loadErrors := preload(dir, files, &opts)
	results := make([]ParseDirResult, len(files))

	err = forEachFile(ctx, files, &opts, StageParse, func(ctx context.Context, i int, path string) (bool, error) {
		bag := diag.NewBag(opts.bagLimit())
		results[i] = ParseDirResult{Path: path, ParseResult: &ParseResult{FileSet: fileSet, Bag: bag}}
		if lerr, bad := loadErrors[path]; bad {
			reportLoadError(bag, path, lerr)
			return true, nil
		}
		var timer *observ.Timer
		if opts.Timings {
			timer = observ.NewTimer()
		}
		res, perr := parseFile(ctx, loaded[path], bag, &opts, timer)
		if perr != nil {
			return true, perr
		}
		res.FileSet = fileSet
		results[i].ParseResult = res
		appendTimingDiagnostic(bag, "parse", path, timer)
		return bag.HasErrors() || res.Unbalanced != nil, nil
	})
	span.WithExtra("files", strconv.Itoa(len(files)))
	opts.emit(Event{Stage: StageParse, Status: StatusDone})
	return fileSet, results, err
}
