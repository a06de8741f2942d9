package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"

	"shisp/internal/ast"
	"shisp/internal/diagfmt"
	"shisp/internal/driver"
	"shisp/internal/parser"
	"shisp/internal/source"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.shisp|directory|->",
	Short: "Parse shisp source and print the AST graph",
	Long: `Parse builds the AST graph of a source file, of every *.shisp file in a
directory, or of stdin ("-"). Unbalanced parentheses are errors in strict mode
and are skipped silently in lenient mode.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("format", "tree", "output format (tree|pretty|json|msgpack)")
	parseCmd.Flags().String("mode", "strict", "unbalanced parenthesis handling (strict|lenient)")
	parseCmd.Flags().Bool("cache", false, "reuse graphs of unchanged files from the disk cache")
	parseCmd.Flags().String("cache-dir", "", "disk cache location (default: user cache dir)")
	addReaderFlags(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()
	target := args[0]

	if _, err := applyManifest(cmd, target); err != nil {
		return err
	}

	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := diagfmt.ParseGraphFormat(formatStr)
	if err != nil {
		return err
	}
	modeStr, err := cmd.Flags().GetString("mode")
	if err != nil {
		return fmt.Errorf("failed to get mode flag: %w", err)
	}
	opts, err := readDriverOptions(cmd)
	if err != nil {
		return err
	}
	if opts.Mode, err = parser.ParseMode(modeStr); err != nil {
		return err
	}
	if opts.Cache, err = openCache(cmd); err != nil {
		return err
	}
	out, err := readDiagOutput(cmd)
	if err != nil {
		return err
	}

	dir, err := isDir(target)
	if err != nil {
		return err
	}
	if dir {
		return parseDir(cmd, target, format, opts, out)
	}

	result, err := driver.Parse(cmd.Context(), target, opts)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	if err := out.render(os.Stderr, result.Bag, result.FileSet); err != nil {
		return err
	}
	if err := diagfmt.FormatGraph(os.Stdout, result.Graph, format); err != nil {
		return err
	}
	if result.Bag.HasErrors() || result.Unbalanced != nil {
		return errDiagnostics
	}
	return nil
}

// openCache returns nil unless --cache (or [cache].enabled) is set.
func openCache(cmd *cobra.Command) (*driver.DiskCache, error) {
	enabled, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get cache flag: %w", err)
	}
	if !enabled {
		return nil, nil
	}
	dir, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return nil, fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	cache, err := driver.OpenDiskCache(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return cache, nil
}

type parseDirOutcome struct {
	fs      *source.FileSet
	results []driver.ParseDirResult
}

func parseDir(cmd *cobra.Command, dir string, format diagfmt.GraphFormat, opts driver.Options, out diagOutput) error {
	files, err := driver.ListSourceFiles(dir)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", dir, err)
	}
	useUI, err := wantsUI(cmd, string(format))
	if err != nil {
		return err
	}

	run := func(sink driver.ProgressSink) (parseDirOutcome, error) {
		o := opts
		o.Progress = sink
		fs, results, err := driver.ParseDir(cmd.Context(), dir, o)
		return parseDirOutcome{fs: fs, results: results}, err
	}
	var res parseDirOutcome
	if useUI && len(files) > 0 {
		res, err = runWithUI("parse "+dir, files, run)
	} else {
		res, err = run(nil)
	}
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	failed := false
	for _, r := range res.results {
		if r.ParseResult == nil {
			continue
		}
		if err := out.render(os.Stderr, r.Bag, res.fs); err != nil {
			return err
		}
		failed = failed || r.Bag.HasErrors() || r.Unbalanced != nil
	}

	if err := writeGraphs(os.Stdout, res.results, format, out.quiet); err != nil {
		return err
	}
	if failed {
		return errDiagnostics
	}
	return nil
}

// writeGraphs prints one graph per file. json and msgpack produce a single
// object keyed by path; files that failed to load map to null.
func writeGraphs(w io.Writer, results []driver.ParseDirResult, format diagfmt.GraphFormat, quiet bool) error {
	switch format {
	case diagfmt.GraphJSON, diagfmt.GraphMsgpack:
		payload := make(map[string]*ast.Snapshot, len(results))
		for _, r := range results {
			if r.ParseResult == nil || r.Graph == nil {
				payload[r.Path] = nil
				continue
			}
			snap := r.Graph.Snapshot()
			payload[r.Path] = &snap
		}
		if format == diagfmt.GraphMsgpack {
			return msgpack.NewEncoder(w).Encode(payload)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	for idx, r := range results {
		if !quiet {
			if _, err := fmt.Fprintf(w, "== %s ==\n", r.Path); err != nil {
				return err
			}
		}
		if r.ParseResult != nil && r.Graph != nil {
			if err := diagfmt.FormatGraph(w, r.Graph, format); err != nil {
				return err
			}
		}
		if !quiet && idx < len(results)-1 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
	}
	return nil
}
