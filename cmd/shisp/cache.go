package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shisp/internal/driver"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the parsed-graph disk cache",
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove every cached graph",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := applyManifest(cmd, "."); err != nil {
			return err
		}
		dir, err := cmd.Flags().GetString("cache-dir")
		if err != nil {
			return fmt.Errorf("failed to get cache-dir flag: %w", err)
		}
		cache, err := driver.OpenDiskCache(dir)
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		if err := cache.DropAll(); err != nil {
			return fmt.Errorf("failed to clean cache: %w", err)
		}
		if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "cleaned %s\n", cache.Dir())
		}
		return nil
	},
}

var cacheDirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Print the cache location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := applyManifest(cmd, "."); err != nil {
			return err
		}
		dir, err := cmd.Flags().GetString("cache-dir")
		if err != nil {
			return fmt.Errorf("failed to get cache-dir flag: %w", err)
		}
		cache, err := driver.OpenDiskCache(dir)
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), cache.Dir())
		return nil
	},
}

func init() {
	cacheCmd.PersistentFlags().String("cache-dir", "", "disk cache location (default: user cache dir)")
	cacheCmd.AddCommand(cacheCleanCmd, cacheDirCmd)
}
