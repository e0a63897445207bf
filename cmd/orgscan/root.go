// Package main provides the entry point for the orgscan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for orgscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orgscan",
		Short: "Adaptive evidence collection for organization intelligence",
		Long: `orgscan gathers evidence about a target organization from its public web
presence and search engines. It crawls the company site with an adaptive
per-page tool policy, runs phased search queries, analyzes coverage gaps,
and produces a scored evidence report with a full audit trail.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCollectCmd())
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
