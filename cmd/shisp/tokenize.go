package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shisp/internal/diagfmt"
	"shisp/internal/driver"
	"shisp/internal/source"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] <file.shisp|directory|->",
	Short: "Tokenize shisp source",
	Long: `Tokenize splits source into lexemes and prints them with their row/column ranges.
A directory argument tokenizes every *.shisp file below it; "-" reads stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().Bool("keep-trivia", false, "emit Whitespace and Newline tokens")
	addReaderFlags(tokenizeCmd)
}

func runTokenize(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()
	target := args[0]

	if _, err := applyManifest(cmd, target); err != nil {
		return err
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	opts, err := readDriverOptions(cmd)
	if err != nil {
		return err
	}
	if opts.KeepTrivia, err = cmd.Flags().GetBool("keep-trivia"); err != nil {
		return fmt.Errorf("failed to get keep-trivia flag: %w", err)
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
		return tokenizeDir(cmd, target, format, opts, out)
	}

	result, err := driver.Tokenize(cmd.Context(), target, opts)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	if err := out.render(os.Stderr, result.Bag, result.FileSet); err != nil {
		return err
	}
	switch format {
	case "json":
		err = diagfmt.FormatTokensJSON(os.Stdout, result.Tokens)
	default:
		err = diagfmt.FormatTokensPretty(os.Stdout, result.Tokens)
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return errDiagnostics
	}
	return nil
}

type tokenizeDirOutcome struct {
	fs      *source.FileSet
	results []driver.TokenizeDirResult
}

func tokenizeDir(cmd *cobra.Command, dir, format string, opts driver.Options, out diagOutput) error {
	files, err := driver.ListSourceFiles(dir)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", dir, err)
	}
	useUI, err := wantsUI(cmd, format)
	if err != nil {
		return err
	}

	run := func(sink driver.ProgressSink) (tokenizeDirOutcome, error) {
		o := opts
		o.Progress = sink
		fs, results, err := driver.TokenizeDir(cmd.Context(), dir, o)
		return tokenizeDirOutcome{fs: fs, results: results}, err
	}
	var res tokenizeDirOutcome
	if useUI && len(files) > 0 {
		res, err = runWithUI("tokenize "+dir, files, run)
	} else {
		res, err = run(nil)
	}
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	failed := false
	for _, r := range res.results {
		if err := out.render(os.Stderr, r.Bag, res.fs); err != nil {
			return err
		}
		failed = failed || r.Bag.HasErrors()
	}

	if format == "json" {
		payload := make(map[string][]diagfmt.TokenOutput, len(res.results))
		for _, r := range res.results {
			payload[r.Path] = diagfmt.BuildTokensJSON(r.Tokens)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(payload); err != nil {
			return err
		}
	} else {
		for idx, r := range res.results {
			if !out.quiet {
				fmt.Fprintf(os.Stdout, "== %s ==\n", r.Path)
			}
			if err := diagfmt.FormatTokensPretty(os.Stdout, r.Tokens); err != nil {
				return err
			}
			if !out.quiet && idx < len(res.results)-1 {
				fmt.Fprintln(os.Stdout)
			}
		}
	}

	if failed {
		return errDiagnostics
	}
	return nil
}
