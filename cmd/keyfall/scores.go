package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/keyfall/internal/platform/tui"
	"github.com/vovakirdan/keyfall/internal/storage"
)

var (
	flagScoresLimit  int
	flagScoresRecent bool
	flagScoresPlayer string
	flagScoresClear  bool
	flagScoresTUI    bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show finished runs",
	Long: `Display the best runs, the most recent runs or one player's runs.

Examples:
  keyfall scores
  keyfall scores --recent --limit 20
  keyfall scores --player ana
  keyfall scores --tui
  keyfall scores --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresRecent, "recent", false, "Show the most recent runs instead of the best")
	scoresCmd.Flags().StringVar(&flagScoresPlayer, "player", "", "Only show runs of this player")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the run history")
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Open the interactive scoreboard")
}

func runScores(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearRuns(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Run history cleared.")
		return
	}

	if flagScoresTUI {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunScoreboard(store, flagScoresPlayer, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	title := "High Scores"
	var runs []storage.RunEntry
	switch {
	case flagScoresPlayer != "":
		title = "Best Runs - " + flagScoresPlayer
		runs, err = store.PlayerRuns(flagScoresPlayer, flagScoresLimit)
	case flagScoresRecent:
		title = "Recent Runs"
		runs, err = store.RecentRuns(flagScoresLimit)
	default:
		runs, err = store.TopRuns(flagScoresLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'keyfall play' to set the first high score!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-12s  %-7s  %-20s  %-7s  %-5s  %s\n", "Rank", "Player", "Score", "Stage", "Letters", "Combo", "Date")
	fmt.Printf("  %-4s  %-12s  %-7s  %-20s  %-7s  %-5s  %s\n", "----", "------", "-----", "-----", "-------", "-----", "----")

	for i, r := range runs {
		stage := fmt.Sprintf("%d %s", r.Stage+1, r.StageName)
		fmt.Printf("  %-4d  %-12s  %-7d  %-20s  %-7d  %-5d  %s\n",
			i+1, r.Player, r.Score, stage, r.Letters, r.BestCombo, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if best, err := store.HighScore(); err == nil {
		fmt.Printf("Best: %d\n", best)
	}
}
