package main

import (
	"fmt"
	"io"
	"os"
	"os/user"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/keyfall/internal/config"
	"github.com/vovakirdan/keyfall/internal/core"
	"github.com/vovakirdan/keyfall/internal/games/keyfall"
	"github.com/vovakirdan/keyfall/internal/platform/tui"
	"github.com/vovakirdan/keyfall/internal/registry"
	"github.com/vovakirdan/keyfall/internal/storage"
)

var (
	flagLogFile string
	flagWatch   bool
	flagPlayer  string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play keyfall in this terminal",
	Long: `Start a run in this terminal.

Controls:
  a-z        - Type the falling letters
  Space      - Raise the force field
  Enter      - Skip a countdown / restart after game over
  Esc        - Pause
  Tab        - Scoreboard (while paused or after game over)
  Ctrl+S     - Save a screenshot
  Ctrl+C     - Quit

Difficulty options:
  easy   - Five lives, slower letters
  normal - Meteorite curve starts at 30%
  hard   - Two lives, faster letters
  fixed  - Meteorite curve stays at the config's initial level

Examples:
  keyfall play
  keyfall play --difficulty easy
  keyfall play --config ./my-keyfall.yaml --watch
  keyfall play --log-file /tmp/keyfall.log --log-level debug`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (the game owns the terminal)")
	playCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload the config file when it changes (applies on restart)")
	playCmd.Flags().StringVar(&flagPlayer, "player", "", "Name stored with finished runs (default: OS user)")
}

func runPlay(_ *cobra.Command, _ []string) {
	var logOut io.Writer = io.Discard
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) //#nosec G304 -- user-provided log path
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, "keyfall")
	keyfall.SetLogger(logger)

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	game, err := registry.Create("keyfall")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	var reloads <-chan config.Reload
	if flagWatch {
		path := config.ResolvePath(flagConfig)
		if path == "" {
			fmt.Fprintln(os.Stderr, "Warning: --watch needs a config file, using built-in defaults")
		} else {
			watcher, watchErr := config.NewWatcher(path)
			if watchErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: cannot watch config: %v\n", watchErr)
			} else {
				defer watcher.Close()
				reloads = watcher.Events
				logger.Info("watching config", "path", path)
			}
		}
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	runErr := tui.Run(game, store, cfg, playerName(), reloads)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// playerName returns --player, the OS user, or "local".
func playerName() string {
	if flagPlayer != "" {
		return flagPlayer
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "local"
}
