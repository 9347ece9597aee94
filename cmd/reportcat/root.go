// Package main provides the entry point for the reportcat CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for reportcat.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reportcat",
		Short: "Combine per-run CSV metrics reports into one file",
		Long: `reportcat aggregates a directory of CSV metrics reports into a single
combined CSV file for downstream inspection.

Input files are discovered by glob pattern, concatenated in discovery order
with the header taken from the first file, and written with LF line endings.
Each run is recorded in a local history database for later comparison.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCombineCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
