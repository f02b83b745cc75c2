package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/keyfall/internal/config"
	"github.com/vovakirdan/keyfall/internal/games/keyfall"
)

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "Show the stage table",
	Long: `Print the stages of the active configuration: the letters each stage
draws from, whether a boss guards it and the cumulative threshold that
clears it.

Examples:
  keyfall stages
  keyfall stages --config ./my-keyfall.yaml`,
	Args: cobra.NoArgs,
	Run:  runStages,
}

func runStages(_ *cobra.Command, _ []string) {
	cfg := keyfall.LoadConfig()

	source := config.ResolvePath(flagConfig)
	if source == "" {
		source = "built-in defaults"
	}
	fmt.Printf("Stages (%s)\n", source)
	fmt.Println()

	fmt.Printf("  %-3s  %-20s  %-9s  %-5s  %s\n", "#", "Name", "Threshold", "Boss", "Letters")
	fmt.Printf("  %-3s  %-20s  %-9s  %-5s  %s\n", "-", "----", "---------", "----", "-------")
	for i, st := range cfg.Stages {
		boss := ""
		if st.Boss {
			boss = "yes"
		}
		fmt.Printf("  %-3d  %-20s  %-9d  %-5s  %s\n", i+1, st.Name, st.Threshold, boss, string(st.Pool()))
	}

	last := len(cfg.Stages) - 1
	fmt.Println()
	fmt.Printf("Keys learned by the final stage: %s\n", string(config.LearnedLetters(cfg.Stages, last)))
}
