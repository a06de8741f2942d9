package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

// wantsUI reports whether a directory run should show the progress UI.
// --quiet and non-pretty output formats never do.
func wantsUI(cmd *cobra.Command, format string) (bool, error) {
	value, err := cmd.Flags().GetString("ui")
	if err != nil {
		return false, fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(value)
	if err != nil {
		return false, err
	}
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return false, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if quiet || format == "json" || format == "msgpack" {
		return false, nil
	}
	return shouldUseTUI(mode), nil
}
