package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/tandem/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default configuration file",
	Long: `Create the user configuration file with default settings and a
starter pair of agents (researcher and writer).

The file is written to ~/.config/tandem/config.yaml and can be
overridden per project with a .tandem.yaml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.GetUserConfigPath()

		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		}

		if err := config.Save(config.Default()); err != nil {
			return err
		}

		fmt.Printf("Wrote %s\n", path)
		fmt.Println("Set your API key with: tandem config anthropic.api_key <key>")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}
