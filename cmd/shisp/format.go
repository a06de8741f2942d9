package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shisp/internal/driver"
	"shisp/internal/format"
	"shisp/internal/parser"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] <file.shisp|directory|->",
	Short: "Reformat shisp source",
	Long: `Fmt prints sources in canonical layout. Files with reader errors are left alone.
With --write files are rewritten in place; with --check nothing is printed
and the exit status is 1 when a file is not formatted.`,
	Args: cobra.ExactArgs(1),
	RunE: runFmt,
}

func init() {
	fmtCmd.Flags().BoolP("write", "w", false, "rewrite files in place")
	fmtCmd.Flags().Bool("check", false, "list unformatted files and fail if there are any")
	fmtCmd.Flags().Int("width", 80, "target line width")
	fmtCmd.Flags().Int("indent", 2, "indentation of broken expressions")
	addReaderFlags(fmtCmd)
}

type fmtTarget struct {
	path   string
	result *driver.ParseResult
}

func runFmt(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()
	target := args[0]

	if _, err := applyManifest(cmd, target); err != nil {
		return err
	}
	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return fmt.Errorf("failed to get write flag: %w", err)
	}
	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return fmt.Errorf("failed to get check flag: %w", err)
	}
	var fopts format.Options
	if fopts.MaxWidth, err = cmd.Flags().GetInt("width"); err != nil {
		return fmt.Errorf("failed to get width flag: %w", err)
	}
	if fopts.IndentWidth, err = cmd.Flags().GetInt("indent"); err != nil {
		return fmt.Errorf("failed to get indent flag: %w", err)
	}
	opts, err := readDriverOptions(cmd)
	if err != nil {
		return err
	}
	opts.Mode = parser.ModeStrict
	out, err := readDiagOutput(cmd)
	if err != nil {
		return err
	}
	if write && target == stdinArg {
		return fmt.Errorf("--write cannot be used with stdin")
	}

	dir, err := isDir(target)
	if err != nil {
		return err
	}
	var targets []fmtTarget
	if dir {
		fs, results, err := driver.ParseDir(cmd.Context(), target, opts)
		if err != nil {
			return fmt.Errorf("parsing failed: %w", err)
		}
		for _, r := range results {
			if r.ParseResult == nil {
				continue
			}
			r.FileSet = fs
			targets = append(targets, fmtTarget{path: r.Path, result: r.ParseResult})
		}
	} else {
		res, err := driver.Parse(cmd.Context(), target, opts)
		if err != nil {
			return fmt.Errorf("parsing failed: %w", err)
		}
		targets = append(targets, fmtTarget{path: target, result: res})
	}

	failed := false
	for i, t := range targets {
		r := t.result
		if r.Bag.HasErrors() || r.Unbalanced != nil || r.File == nil {
			if err := out.render(os.Stderr, r.Bag, r.FileSet); err != nil {
				return err
			}
			failed = true
			continue
		}
		formatted, err := format.File(r.File, r.Graph, fopts)
		if err != nil {
			return fmt.Errorf("%s: %w", t.path, err)
		}
		changed := !bytes.Equal(formatted, r.File.Content)
		switch {
		case check:
			if changed {
				fmt.Fprintln(os.Stdout, t.path)
				failed = true
			}
		case write:
			if changed {
				if err := writeFormatted(t.path, formatted); err != nil {
					return err
				}
				if !out.quiet {
					fmt.Fprintf(os.Stderr, "formatted %s\n", t.path)
				}
			}
		default:
			if dir && !out.quiet {
				fmt.Fprintf(os.Stdout, "== %s ==\n", t.path)
			}
			if _, err := os.Stdout.Write(formatted); err != nil {
				return err
			}
			if dir && !out.quiet && i < len(targets)-1 {
				fmt.Fprintln(os.Stdout)
			}
		}
	}
	if failed {
		return errDiagnostics
	}
	return nil
}

func writeFormatted(path string, content []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, content, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
