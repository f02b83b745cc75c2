package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/keyfall/internal/storage"
)

// SessionModel manages the session flow: game -> scoreboard -> game.
// It is the top-level model for both local and SSH sessions.
type SessionModel struct {
	game       Model
	scoreboard *ScoreboardModel
	store      *storage.Store
	quitting   bool
}

// NewSessionModel creates a new session model around a game model.
func NewSessionModel(game Model, store *storage.Store) SessionModel {
	return SessionModel{
		game:  game,
		store: store,
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.game.Init()
}

// Update handles messages for the session. Ticks always reach the game so the
// tick loop survives while the scoreboard is open.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		cmd := m.updateGame(msg)
		if m.scoreboard != nil {
			m.updateScoreboard(msg)
		}
		return m, cmd

	case tea.KeyMsg:
		if m.scoreboard != nil {
			return m, m.updateScoreboard(msg)
		}
		cmd := m.updateGame(msg)
		if m.game.WantsScores() {
			sb := NewScoreboardModel(m.store, m.game.player, m.game.config.ScreenW, m.game.config.ScreenH)
			m.scoreboard = &sb
		}
		return m, cmd
	}

	return m, m.updateGame(msg)
}

func (m *SessionModel) updateGame(msg tea.Msg) tea.Cmd {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.game = gameModel
	}
	if m.game.IsQuitting() {
		m.quitting = true
	}
	return cmd
}

func (m *SessionModel) updateScoreboard(msg tea.Msg) tea.Cmd {
	newModel, cmd := m.scoreboard.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scoreboard = &sb
	}

	switch {
	case m.scoreboard.IsQuitting():
		m.quitting = true
		return tea.Quit
	case m.scoreboard.IsGoingBack():
		m.scoreboard = nil
		m.game = m.game.resume()
		return nil
	}
	return cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	if m.scoreboard != nil {
		return m.scoreboard.View()
	}
	return m.game.View()
}

// InScoreboard reports whether the scoreboard is showing.
func (m SessionModel) InScoreboard() bool {
	return m.scoreboard != nil
}
