package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/keyfall/internal/core"
	"github.com/vovakirdan/keyfall/internal/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Re-run a recording and verify it",
	Long: `Load a recording written by 'keyfall simulate --record', re-run it on a
fresh engine with the recorded seed and configuration, and check that the
final state matches.

Examples:
  keyfall replay run.kfr`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func runReplay(_ *cobra.Command, args []string) {
	logger := newLogger(os.Stderr, "keyfall")

	rec, err := replay.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	res, err := replay.Play(rec, logger)
	if err != nil && !errors.Is(err, replay.ErrMismatch) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	snap := res.Snapshot
	printSummary(core.RunSummary{
		Score:     snap.Score,
		Stage:     snap.Stage,
		StageName: snap.StageName,
		Letters:   snap.LettersDestroyed,
		BestCombo: snap.Combo.Best,
		Duration:  snap.Now,
		Seed:      rec.Seed,
	}, snap)
	fmt.Printf("  Recorded:    %s\n", rec.CreatedAt.Local().Format("2006-01-02 15:04"))

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println()
	fmt.Println("Replay verified.")
}
