package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tandem",
	Short: "Capability orchestrator for multi-step tasks",
	Long: `Tandem turns a natural-language task into a dependency-ordered plan,
executes the plan's steps concurrently across named capabilities, and
folds the results into one final answer.

Core capabilities:
- Plans tasks up front or one step at a time
- Runs independent steps concurrently in waves
- Feeds each step the results of its dependencies
- Summarizes all step output into a single answer`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
