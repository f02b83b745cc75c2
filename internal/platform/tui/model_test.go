package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/keyfall/internal/config"
	"github.com/vovakirdan/keyfall/internal/core"
	"github.com/vovakirdan/keyfall/internal/storage"
)

// stubGame ends after overAfter steps and pauses on ActionPause.
type stubGame struct {
	steps     int
	overAfter int
	paused    bool
	resets    int
}

func (g *stubGame) ID() string    { return "stub" }
func (g *stubGame) Title() string { return "Stub" }

func (g *stubGame) Reset(core.RuntimeConfig) {
	g.steps = 0
	g.paused = false
	g.resets++
}

func (g *stubGame) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if !g.paused {
		g.steps++
	}
	return core.StepResult{State: g.State()}
}

func (g *stubGame) Render(dst *core.Screen) {
	dst.Clear()
	dst.DrawTextColored(0, 0, "stub game", core.ColorDefault)
}

func (g *stubGame) State() core.GameState {
	return core.GameState{
		Score:    g.steps * 10,
		Lives:    3,
		GameOver: g.overAfter > 0 && g.steps >= g.overAfter,
		Paused:   g.paused,
	}
}

func (g *stubGame) Summary() core.RunSummary {
	return core.RunSummary{Score: g.steps * 10, StageName: "Warmup", Letters: g.steps, Duration: time.Second}
}

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 7}
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}
	return model
}

func TestModelSavesRunOnce(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	game := &stubGame{overAfter: 3}
	m := NewModel(game, store, testRuntime(), "ana")
	m.Init()
	for range 10 {
		m = step(t, m, TickMsg{})
	}

	runs, err := store.TopRuns(10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("saved %d runs, expected 1", len(runs))
	}
	if runs[0].Player != "ana" || runs[0].Score != 30 || runs[0].StageName != "Warmup" || runs[0].Letters != 3 {
		t.Errorf("saved run = %+v", runs[0])
	}
}

func TestModelRestartAfterGameOver(t *testing.T) {
	game := &stubGame{overAfter: 1}
	m := NewModel(game, nil, testRuntime(), "ana")
	m.Init()
	m = step(t, m, TickMsg{})
	if !m.gameState.GameOver {
		t.Fatal("game should be over after one step")
	}

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = step(t, m, TickMsg{})
	if game.resets != 2 {
		t.Errorf("Reset() called %d times, expected 2", game.resets)
	}
	if m.gameState.GameOver || m.scoreSaved {
		t.Error("restart should clear game over and the saved flag")
	}
}

func TestModelTypedKeysReachGame(t *testing.T) {
	game := &stubGame{}
	m := NewModel(game, nil, testRuntime(), "ana")
	m.Init()

	m = step(t, m, runeKey('f'))
	m = step(t, m, runeKey('j'))
	if got := string(m.inputFrame.Keys); got != "fj" {
		t.Errorf("pending keys = %q, expected %q", got, "fj")
	}
	m = step(t, m, TickMsg{})
	if len(m.inputFrame.Keys) != 0 {
		t.Error("keys should be cleared after a tick")
	}
}

func TestModelReloadStatus(t *testing.T) {
	ch := make(chan config.Reload)
	m := NewModel(&stubGame{}, nil, testRuntime(), "ana").WithReloads(ch)
	m.Init()

	m = step(t, m, ConfigReloadMsg{Path: "keyfall.yaml"})
	if !strings.Contains(m.View(), "Config reloaded") {
		t.Error("View() should show the reload status")
	}

	for range int(statusDuration / m.config.TickDuration()) {
		m = step(t, m, TickMsg{})
	}
	if m.status != "" {
		t.Errorf("status = %q after it expired, expected empty", m.status)
	}
}

func TestSessionScoreboardOnlyWhenPaused(t *testing.T) {
	game := &stubGame{}
	s := NewSessionModel(NewModel(game, nil, testRuntime(), "ana"), nil)
	s.Init()

	update := func(msg tea.Msg) {
		next, _ := s.Update(msg)
		s = next.(SessionModel)
	}

	update(TickMsg{})
	update(tea.KeyMsg{Type: tea.KeyTab})
	if s.InScoreboard() {
		t.Fatal("scoreboard opened while playing")
	}

	update(tea.KeyMsg{Type: tea.KeyEscape})
	update(TickMsg{})
	update(tea.KeyMsg{Type: tea.KeyTab})
	if !s.InScoreboard() {
		t.Fatal("scoreboard should open while paused")
	}

	steps := game.steps
	update(TickMsg{})
	if !s.game.gameState.Paused || game.steps != steps {
		t.Error("game should stay paused while the scoreboard is open")
	}

	update(tea.KeyMsg{Type: tea.KeyEscape})
	if s.InScoreboard() {
		t.Error("esc should return to the game")
	}
	if s.game.WantsScores() {
		t.Error("returning to the game should clear the scoreboard request")
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	screen := core.NewScreen(20, 2)
	screen.DrawTextColored(0, 0, "Score", core.ColorHUD)
	screen.DrawTextColored(0, 1, "DANGER", core.ColorDanger)

	out := RenderScreen(screen)
	for _, want := range []string{"Score", "DANGER"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderScreen() missing %q", want)
		}
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("RenderScreen() has %d line breaks, expected 1", strings.Count(out, "\n"))
	}
}
