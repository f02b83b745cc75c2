package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/keyfall/internal/config"
	"github.com/vovakirdan/keyfall/internal/core"
	"github.com/vovakirdan/keyfall/internal/registry"
	"github.com/vovakirdan/keyfall/internal/storage"
)

// How long a status line stays on screen.
const statusDuration = 3 * time.Second

// ConfigReloadMsg carries a config file change picked up by a watcher.
type ConfigReloadMsg config.Reload

// Model is the Bubble Tea model for running a game.
type Model struct {
	game        registry.Game
	screen      *core.Screen
	store       *storage.Store
	config      core.RuntimeConfig
	player      string
	keyMapper   *KeyMapper
	inputFrame  core.InputFrame
	gameState   core.GameState
	reloads     <-chan config.Reload
	status      string
	statusTicks int
	quitting    bool
	wantsScores bool // Tab pressed while paused or after game over
	scoreSaved  bool // Whether the run has been saved for current game over
}

// NewModel creates a new Bubble Tea model for the given game.
// Finished runs are saved under player.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, player string) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		player:     player,
		keyMapper:  NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
	}
}

// WithReloads makes the model report config changes received on ch.
func (m Model) WithReloads(ch <-chan config.Reload) Model {
	m.reloads = ch
	return m
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	// Note: gameState will be set on first tick (value receiver limitation)

	return tea.Batch(tickCmd(m.config.TickRate), waitForReload(m.reloads))
}

// waitForReload blocks on the next config change. A nil or closed channel
// stops the chain.
func waitForReload(ch <-chan config.Reload) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return ConfigReloadMsg(r)
	}
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()

	case ConfigReloadMsg:
		return m.handleReload(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.inputFrame.Has(core.ActionBack) && (m.gameState.GameOver || m.gameState.Paused) {
		m.wantsScores = true
	}

	return m, nil
}

// handleResize processes window resize events. The playfield is in logical
// units, so the run continues at the new size.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	return m, nil
}

// handleReload reports a config change. The new values apply on restart.
func (m Model) handleReload(msg ConfigReloadMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.setStatus(fmt.Sprintf("Config error: %v", msg.Err))
	} else {
		m.setStatus("Config reloaded, applies on restart")
	}
	return m, waitForReload(m.reloads)
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusTicks = int(statusDuration / m.config.TickDuration())
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.statusTicks > 0 {
		m.statusTicks--
		if m.statusTicks == 0 {
			m.status = ""
		}
	}

	// Check for restart
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		// Reset seed for new game
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.scoreSaved = false
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	// Run game simulation
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	// Save the run on game over (once)
	if m.gameState.GameOver && !m.scoreSaved {
		m.saveRun()
		m.scoreSaved = true
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	// Continue ticking
	return m, tickCmd(m.config.TickRate)
}

// saveRun stores the finished run. Runs without points are not kept.
func (m *Model) saveRun() {
	if m.store == nil || m.gameState.Score <= 0 {
		return
	}
	summary := core.RunSummary{Score: m.gameState.Score, Stage: m.gameState.Stage, Seed: m.config.Seed}
	if s, ok := m.game.(registry.Summarizer); ok {
		summary = s.Summary()
	}
	if _, err := m.store.SaveRun(m.player, summary); err != nil {
		m.setStatus("Could not save score")
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	// Render current state
	m.game.Render(m.screen)

	// Create screenshots directory
	dir := filepath.Join(os.Getenv("HOME"), ".keyfall", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	// Generate filename with timestamp
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
	m.setStatus("Screenshot saved to " + path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	if m.status != "" {
		row := m.screen.Height() - 1
		m.screen.DrawHLine(0, row, m.screen.Width(), ' ')
		m.screen.DrawTextColored(1, row, m.status, core.ColorBrightYellow)
	}

	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// WantsScores returns true if user asked for the scoreboard.
func (m Model) WantsScores() bool {
	return m.wantsScores
}

// resume clears the scoreboard request after returning to the game.
func (m Model) resume() Model {
	m.wantsScores = false
	return m
}

// Run starts the Bubble Tea program for a local session.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, player string, reloads <-chan config.Reload) error {
	model := NewSessionModel(NewModel(game, store, cfg, player).WithReloads(reloads), store)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
