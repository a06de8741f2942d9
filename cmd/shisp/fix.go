package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shisp/internal/diag"
	"shisp/internal/driver"
	"shisp/internal/fix"
	"shisp/internal/parser"
	"shisp/internal/source"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file.shisp|directory|->",
	Short: "Apply suggested fixes for unbalanced parentheses",
	Long: `Fix parses the input strictly and applies the edits suggested by the reader:
a stray ')' is removed, a missing ')' is appended after the last form.
Stdin is only supported with --dry-run.`,
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply every fix instead of the first one")
	fixCmd.Flags().String("id", "", "apply only the fix with this id")
	fixCmd.Flags().Bool("dry-run", false, "print fixed sources instead of writing files")
	fixCmd.Flags().String("normalize", "none", "Unicode normalization on load (none|nfc)")
}

func runFix(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()
	target := args[0]

	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return fmt.Errorf("failed to get all flag: %w", err)
	}
	id, err := cmd.Flags().GetString("id")
	if err != nil {
		return fmt.Errorf("failed to get id flag: %w", err)
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	norm, err := cmd.Flags().GetString("normalize")
	if err != nil {
		return fmt.Errorf("failed to get normalize flag: %w", err)
	}

	opts := driver.Options{Mode: parser.ModeStrict}
	if opts.Normalize, err = parseNormalize(norm); err != nil {
		return err
	}

	applyOpts := fix.ApplyOptions{Mode: fix.ApplyModeOnce, DryRun: dryRun}
	switch {
	case id != "":
		applyOpts.Mode, applyOpts.TargetID = fix.ApplyModeID, id
	case all:
		applyOpts.Mode = fix.ApplyModeAll
	}

	dir, err := isDir(target)
	if err != nil {
		return err
	}

	var (
		diags   []diag.Diagnostic
		fileSet *source.FileSet
	)
	if dir {
		fs, results, err := driver.ParseDir(cmd.Context(), target, opts)
		if err != nil {
			return fmt.Errorf("parsing failed: %w", err)
		}
		fileSet = fs
		for _, r := range results {
			if r.ParseResult != nil {
				diags = append(diags, r.Bag.Items()...)
			}
		}
	} else {
		res, err := driver.Parse(cmd.Context(), target, opts)
		if err != nil {
			return fmt.Errorf("parsing failed: %w", err)
		}
		fileSet = res.FileSet
		diags = res.Bag.Items()
	}

	result, err := fix.Apply(fileSet, diags, applyOpts)
	if errors.Is(err, fix.ErrNoFixes) {
		if !quiet {
			fmt.Fprintln(os.Stderr, "no fixes to apply")
		}
		for _, s := range result.Skipped {
			fmt.Fprintf(os.Stderr, "skipped %s: %s\n", s.ID, s.Reason)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("fix failed: %w", err)
	}

	if dryRun {
		for _, ch := range result.FileChanges {
			if !quiet {
				fmt.Fprintf(os.Stdout, "== %s ==\n", ch.Path)
			}
			if _, err := os.Stdout.Write(ch.Content); err != nil {
				return err
			}
		}
	}
	if !quiet {
		for _, a := range result.Applied {
			fmt.Fprintf(os.Stderr, "applied %s: %s (%s)\n", a.ID, a.Title, a.PrimaryPath)
		}
		for _, s := range result.Skipped {
			fmt.Fprintf(os.Stderr, "skipped %s: %s\n", s.ID, s.Reason)
		}
	}
	return nil
}
