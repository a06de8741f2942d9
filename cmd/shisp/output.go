package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"shisp/internal/diag"
	"shisp/internal/diagfmt"
	"shisp/internal/driver"
	"shisp/internal/source"
)

const stdinArg = driver.StdinPath

// errDiagnostics is returned after error diagnostics were printed; main only
// turns it into exit status 1.
var errDiagnostics = silentError{}

type silentError struct{}

func (silentError) Error() string { return "" }

func parseNormalize(s string) (source.Normalization, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return source.NormNone, nil
	case "nfc":
		return source.NormNFC, nil
	default:
		return source.NormNone, fmt.Errorf("invalid normalization %q (expected none|nfc)", s)
	}
}

// diagOutput collects the flags that shape diagnostic rendering.
type diagOutput struct {
	format   string // pretty|json|short|golden
	color    bool
	pathMode diagfmt.PathMode
	quiet    bool
}

func readDiagOutput(cmd *cobra.Command) (diagOutput, error) {
	var out diagOutput
	flags := cmd.Flags()

	colorFlag, err := flags.GetString("color")
	if err != nil {
		return out, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch colorFlag {
	case "on":
		out.color = true
	case "off":
	case "auto":
		out.color = isTerminal(os.Stderr)
	default:
		return out, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}

	pm, err := flags.GetString("path-mode")
	if err != nil {
		return out, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	mode, ok := diagfmt.ParsePathMode(pm)
	if !ok {
		return out, fmt.Errorf("invalid --path-mode value %q (expected auto|absolute|relative|basename)", pm)
	}
	out.pathMode = mode

	if out.quiet, err = flags.GetBool("quiet"); err != nil {
		return out, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if out.format, err = flags.GetString("diag-format"); err != nil {
		return out, fmt.Errorf("failed to get diag-format flag: %w", err)
	}
	switch out.format {
	case "pretty", "json", "short", "golden":
	default:
		return out, fmt.Errorf("invalid --diag-format value %q (expected pretty|json|short|golden)", out.format)
	}
	return out, nil
}

// render writes the bag to w. Nothing is written for an empty bag.
func (o diagOutput) render(w io.Writer, bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	bag.Sort()
	bag.Dedup()
	switch o.format {
	case "json":
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         o.pathMode,
			IncludeNotes:     true,
			IncludeFixes:     true,
		})
	case "short", "golden":
		items := bag.Items()
		ptrs := make([]*diag.Diagnostic, 0, len(items))
		for i := range items {
			d := &items[i]
			// у ошибок загрузки и таймингов нет позиции
			if d.Code == diag.IOLoadFileError || d.Code == diag.ObsTimings {
				if _, err := fmt.Fprintf(w, "%s %s %s\n", d.Severity.Label(), d.Code.ID(), d.Message); err != nil {
					return err
				}
				continue
			}
			ptrs = append(ptrs, d)
		}
		// golden: с заметками, без файлов из fixtures/
		var text string
		if o.format == "golden" {
			text = diag.FormatGoldenDiagnostics(ptrs, fs, true)
		} else {
			text = diag.FormatShortDiagnostics(ptrs, fs, false)
		}
		if text == "" {
			return nil
		}
		_, err := fmt.Fprintln(w, text)
		return err
	default:
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:     o.color,
			Context:   1,
			PathMode:  o.pathMode,
			ShowNotes: true,
			ShowFixes: !o.quiet,
		})
		return nil
	}
}

// readDriverOptions gathers the options shared by tokenize and parse.
func readDriverOptions(cmd *cobra.Command) (driver.Options, error) {
	var opts driver.Options
	flags := cmd.Flags()
	var err error

	if opts.MaxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if opts.MaxDiagnostics < 0 {
		return opts, fmt.Errorf("--max-diagnostics must not be negative")
	}
	if opts.Timings, err = flags.GetBool("timings"); err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}
	norm, err := flags.GetString("normalize")
	if err != nil {
		return opts, fmt.Errorf("failed to get normalize flag: %w", err)
	}
	if opts.Normalize, err = parseNormalize(norm); err != nil {
		return opts, err
	}
	if opts.Jobs, err = flags.GetInt("jobs"); err != nil {
		return opts, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	return opts, nil
}

// addReaderFlags registers flags common to tokenize and parse.
func addReaderFlags(cmd *cobra.Command) {
	cmd.Flags().String("normalize", "none", "Unicode normalization on load (none|nfc)")
	cmd.Flags().String("diag-format", "pretty", "diagnostic output format (pretty|json|short|golden)")
	cmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
}

func isDir(path string) (bool, error) {
	if path == stdinArg {
		return false, nil
	}
	st, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("failed to stat path: %w", err)
	}
	return st.IsDir(), nil
}
