package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"shisp/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "shisp",
	Short: "Reader front end for the shisp Lisp",
	Long:  `shisp tokenizes and parses Lisp source into an AST graph and reports reader diagnostics`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return startRun(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		finishRun(cmd)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// main registers subcommands and persistent flags, then executes the root command.
// Any error, including the silent one returned after diagnostics, exits with status 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(lspCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to collect per file (0=unlimited)")
	pf.String("path-mode", "auto", "diagnostic path style (auto|absolute|relative|basename)")
	pf.String("ui", "auto", "progress UI for directory runs (auto|on|off)")

	pf.String("trace", "", "write trace events to file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "events kept by the ring buffer")
	pf.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0=off)")

	pf.String("cpu-profile", "", "write CPU profile to file")
	pf.String("mem-profile", "", "write heap profile to file on exit")
	pf.String("runtime-trace", "", "write Go runtime trace to file")

	if err := rootCmd.Execute(); err != nil {
		// диагностики уже напечатаны
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		dumpTrace("failed")
		finishRun(rootCmd)
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
