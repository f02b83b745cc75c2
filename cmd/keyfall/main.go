// keyfall is a typing arcade game for the terminal.
//
// Usage:
//
//	keyfall play             - Play in this terminal
//	keyfall serve            - Start SSH server for remote play
//	keyfall scores           - Show finished runs
//	keyfall stages           - Show the stage table
//	keyfall simulate         - Run a headless autoplayer
//	keyfall replay <file>    - Re-run a recording and verify it
//
// Global flags:
//
//	--config <path>      - Custom keyfall.yaml
//	--difficulty <name>  - Preset: easy, normal, hard, fixed
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.keyfall/scores.db)
//	--log-level <level>  - debug, info, warn, error
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/keyfall/internal/config"
	"github.com/vovakirdan/keyfall/internal/games/keyfall"
)

var (
	// Global flags
	flagConfig     string
	flagDifficulty string
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "keyfall",
	Short: "Keyfall - a typing arcade in your terminal",
	Long: `Keyfall is a terminal typing game. Letters dive toward your ship and
climb away again; type them before they escape. Stages teach new keys, a
snake boss guards some of them, and meteorites need the force field.

Available commands:
  play      - Play in this terminal
  serve     - Start SSH server for remote play
  scores    - View finished runs
  stages    - Show the stage table
  simulate  - Run a headless autoplayer
  replay    - Verify a recorded run

Examples:
  keyfall play
  keyfall play --difficulty hard
  keyfall serve --ssh :2222
  keyfall simulate --ticks 36000 --accuracy 0.9 --record run.kfr
  keyfall replay run.kfr`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom keyfall config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.keyfall/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(stagesCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(replayCmd)
}

// setup validates global flags and hands them to the game package.
func setup(_ *cobra.Command, _ []string) error {
	if flagFPS <= 0 {
		return fmt.Errorf("--fps must be positive, got %d", flagFPS)
	}
	if flagDifficulty != "" {
		if _, err := config.ParsePreset(flagDifficulty); err != nil {
			return err
		}
	}
	if _, err := log.ParseLevel(flagLogLevel); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}

	keyfall.SetConfigPath(flagConfig)
	keyfall.SetDifficultyPreset(flagDifficulty)
	return nil
}

// newLogger creates a logger at the --log-level threshold.
func newLogger(w io.Writer, prefix string) *log.Logger {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
}
