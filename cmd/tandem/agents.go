package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/tandem/internal/config"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List configured agents",
	Long: `List the agents available as plan capabilities.

The planner assigns each plan step to one of these agents by name. The
first agent doubles as the summarizer unless planning.summarizer is set.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		if len(cfg.Agents) == 0 {
			fmt.Println("No agents configured. Run 'tandem init' to create a default config.")
			return
		}

		bold := color.New(color.Bold)
		faint := color.New(color.Faint)

		for _, agent := range cfg.Agents {
			bold.Print(agent.Name)
			if agent.Name == cfg.PlannerName() {
				faint.Print("  (planner)")
			}
			fmt.Println()
			fmt.Printf("  %s\n", agent.Description)
			if agent.Model != "" {
				faint.Printf("  model: %s\n", agent.Model)
			}
			if agent.Tools {
				faint.Printf("  tools enabled, workdir: %s\n", agent.WorkDir)
			}
		}
	},
}
