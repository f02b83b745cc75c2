package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/keyfall/internal/core"
	"github.com/vovakirdan/keyfall/internal/games/keyfall"
	"github.com/vovakirdan/keyfall/internal/games/keyfall/engine"
	"github.com/vovakirdan/keyfall/internal/replay"
	"github.com/vovakirdan/keyfall/internal/storage"
)

var (
	flagSimTicks    int
	flagSimAccuracy float64
	flagSimDelay    int
	flagSimRecord   string
	flagSimSave     bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a headless autoplayer",
	Long: `Run the game without a terminal. An autoplayer types the oldest letter on
screen, raises the force field when something gets close and skips every
countdown. It mistypes with probability 1-accuracy and waits --delay ticks
between keystrokes.

Examples:
  keyfall simulate
  keyfall simulate --ticks 72000 --accuracy 0.8 --delay 20
  keyfall simulate --seed 42 --record run.kfr
  keyfall simulate --save`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimTicks, "ticks", 36000, "Maximum ticks to simulate")
	simulateCmd.Flags().Float64Var(&flagSimAccuracy, "accuracy", 0.95, "Share of keystrokes that hit the intended letter")
	simulateCmd.Flags().IntVar(&flagSimDelay, "delay", 12, "Ticks between keystrokes")
	simulateCmd.Flags().StringVar(&flagSimRecord, "record", "", "Write a replay file")
	simulateCmd.Flags().BoolVar(&flagSimSave, "save", false, "Store the run in the scores database")
}

func runSimulate(_ *cobra.Command, _ []string) {
	logger := newLogger(os.Stderr, "keyfall")
	keyfall.SetLogger(logger)

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	cfg := keyfall.LoadConfig()
	rec, err := replay.New(cfg, seed, flagFPS)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	e := engine.New(cfg, engine.Options{Logger: logger, Seed: seed})
	bot := keyfall.NewAutoplayer(seed, flagSimAccuracy, flagSimDelay)

	start := time.Now()
	final := replay.Run(e, rec, flagSimTicks, bot.Next)
	elapsed := time.Since(start)

	summary := core.RunSummary{
		Score:     final.Score,
		Stage:     final.Stage,
		StageName: final.StageName,
		Letters:   final.LettersDestroyed,
		BestCombo: final.Combo.Best,
		Duration:  final.Now,
		Seed:      seed,
	}
	printSummary(summary, final)
	fmt.Printf("  Wall time:   %v\n", elapsed.Round(time.Millisecond))

	if flagSimRecord != "" {
		if err := replay.Save(flagSimRecord, rec); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  Recording:   %s (%d input ticks)\n", flagSimRecord, len(rec.Ticks))
	}

	if flagSimSave {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		if _, err := store.SaveRun("autoplay", summary); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

// printSummary writes the outcome of a run.
func printSummary(sum core.RunSummary, final engine.Snapshot) {
	outcome := "time limit"
	if final.GameOver {
		outcome = "game over"
	}

	fmt.Printf("Run finished (%s)\n", outcome)
	fmt.Println()
	fmt.Printf("  Seed:        %d\n", sum.Seed)
	fmt.Printf("  Ticks:       %d (%v simulated)\n", final.Tick, sum.Duration.Round(time.Millisecond))
	fmt.Printf("  Score:       %d\n", sum.Score)
	fmt.Printf("  Lives:       %d\n", final.Lives)
	fmt.Printf("  Stage:       %d %s\n", sum.Stage+1, sum.StageName)
	fmt.Printf("  Letters:     %d\n", sum.Letters)
	fmt.Printf("  Best combo:  %d\n", sum.BestCombo)
	fmt.Printf("  Hash:        %016x\n", final.Hash())
}
