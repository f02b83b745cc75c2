package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/keyfall/internal/games/keyfall"
	"github.com/vovakirdan/keyfall/internal/platform/tui"
	"github.com/vovakirdan/keyfall/internal/registry"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagGame        string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the keyfall SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own run. Finished runs are stored under the
SSH user name, and all users share the same scoreboard.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.keyfall/host_key

Examples:
  keyfall serve                           # Listen on :23234 with auto-generated key
  keyfall serve --ssh :2222               # Listen on port 2222
  keyfall serve --host-key ./my_host_key  # Use specific host key
  keyfall serve --db ./scores.db          # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagGame, "game", "keyfall", "Registered game every session plays")
}

// gameIDs lists the registered games for error messages.
func gameIDs() string {
	games := registry.List()
	ids := make([]string, len(games))
	for i, g := range games {
		ids[i] = g.ID
	}
	return strings.Join(ids, ", ")
}

func runServe(_ *cobra.Command, _ []string) {
	if !registry.Exists(flagGame) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q (available: %s)\n", flagGame, gameIDs())
		os.Exit(1)
	}

	logger := newLogger(os.Stderr, "keyfall-ssh")
	keyfall.SetLogger(logger.WithPrefix("keyfall"))

	cfg := tui.DefaultSSHServerConfig()
	cfg.GameID = flagGame
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = flagDBPath
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.TickRate = flagFPS
	cfg.Logger = logger

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting keyfall SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
