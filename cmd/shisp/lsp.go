package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shisp/internal/lsp"
)

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run the shisp language server over stdio",
	Args:  cobra.NoArgs,
	RunE:  runLSP,
}

func runLSP(cmd *cobra.Command, _ []string) error {
	maxDiagnostics, err := cmd.Flags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	server := lsp.NewServer(os.Stdin, os.Stdout, lsp.ServerOptions{MaxDiagnostics: maxDiagnostics})
	err = server.Run(cmd.Context())
	switch {
	case err == nil, errors.Is(err, lsp.ErrExit):
		return nil
	case errors.Is(err, lsp.ErrExitWithoutShutdown):
		return fmt.Errorf("lsp exit without shutdown")
	default:
		return err
	}
}
