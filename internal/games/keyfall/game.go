// Package keyfall plugs the keyfall engine into the arcade registry.
// It maps input frames to engine intents and projects engine snapshots onto a
// Screen. Game rules live in the engine package.
package keyfall

import (
	"fmt"
	"io"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/keyfall/internal/config"
	"github.com/vovakirdan/keyfall/internal/core"
	"github.com/vovakirdan/keyfall/internal/games/keyfall/engine"
	"github.com/vovakirdan/keyfall/internal/registry"
)

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// logger receives engine logs; nil discards them
var logger *log.Logger

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Empty or unknown names
// clear it, leaving the config file in charge.
func SetDifficultyPreset(preset string) {
	p, err := config.ParsePreset(preset)
	if preset == "" || err != nil {
		difficultyPreset = ""
		return
	}
	difficultyPreset = p
}

// SetLogger routes engine logs for games created afterwards.
func SetLogger(l *log.Logger) {
	logger = l
}

// LoadConfig resolves the configuration the same way Reset does.
func LoadConfig() config.KeyfallConfig {
	cfg, err := config.LoadKeyfall(configPath)
	if err != nil {
		if logger != nil {
			logger.Warn("config load failed, using defaults", "path", configPath, "err", err)
		}
		cfg = config.DefaultKeyfallConfig()
	}
	if difficultyPreset != "" {
		config.ApplyKeyfallPreset(&cfg, difficultyPreset)
	}
	return cfg
}

// HUD rows above the playfield and the hint row below it.
const (
	hudRows    = 2
	footerRows = 1
	minScreenW = 40
	minScreenH = 16
)

// Game adapts the engine to registry.Game.
type Game struct {
	engine  *engine.Engine
	cfg     config.KeyfallConfig
	runtime core.RuntimeConfig
	events  []engine.Event

	override *config.KeyfallConfig // Fixed config instead of LoadConfig
}

// New creates a keyfall game that loads its configuration on Reset.
func New() *Game {
	return &Game{}
}

// NewWithConfig creates a game bound to cfg.
func NewWithConfig(cfg config.KeyfallConfig) *Game {
	return &Game{override: &cfg}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "keyfall"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Keyfall"
}

// Reset starts a new run.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	if g.override != nil {
		g.cfg = *g.override
	} else {
		g.cfg = LoadConfig()
	}

	l := logger
	if l == nil {
		l = log.New(io.Discard)
	}
	g.engine = engine.New(g.cfg, engine.Options{Logger: l, Seed: runtime.Seed})
	g.events = nil
}

// Step maps one input frame to engine intents and advances one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	for _, in := range Intents(in) {
		g.engine.Push(in)
	}
	res := g.engine.Step(engine.Frame{Dt: g.runtime.TickDuration(), Ship: g.engine.DefaultShip()})
	g.events = res.Events
	return core.StepResult{State: g.State()}
}

// Intents translates platform input into engine intents. Only letters are
// forwarded as typed characters.
func Intents(in core.InputFrame) []engine.Input {
	var out []engine.Input
	if in.Has(core.ActionPause) {
		out = append(out, engine.TogglePause())
	}
	if in.Has(core.ActionSkip) {
		out = append(out, engine.SkipPenalty())
	}
	if in.Has(core.ActionShield) {
		out = append(out, engine.SpacePressed())
	}
	for _, r := range in.Keys {
		if unicode.IsLetter(r) {
			out = append(out, engine.KeyPressed(r))
		}
	}
	return out
}

// State returns the platform view of the run.
func (g *Game) State() core.GameState {
	stage, _ := g.engine.Stage()
	return core.GameState{
		Score:    g.engine.Score(),
		Lives:    g.engine.Lives(),
		Stage:    stage,
		GameOver: g.engine.GameOver(),
		Paused:   g.engine.Paused(),
	}
}

// Summary describes the run for the score store.
func (g *Game) Summary() core.RunSummary {
	stage, st := g.engine.Stage()
	return core.RunSummary{
		Score:     g.engine.Score(),
		Stage:     stage,
		StageName: st.Name,
		Letters:   g.engine.LettersDestroyed(),
		BestCombo: g.engine.BestCombo(),
		Duration:  g.engine.Now(),
		Seed:      g.engine.Seed(),
	}
}

// Events returns the events of the last tick.
func (g *Game) Events() []engine.Event {
	return g.events
}

// Snapshot returns the current engine state.
func (g *Game) Snapshot() engine.Snapshot {
	return g.engine.Snapshot()
}

// Render draws the current snapshot.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if dst.Width() < minScreenW || dst.Height() < minScreenH {
		dst.DrawTextCentered(dst.Height()/2-1, "Window too small", core.ColorDefault)
		dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("Need %dx%d", minScreenW, minScreenH), core.ColorDefault)
		return
	}

	snap := g.engine.Snapshot()
	v := newViewport(snap, dst.Width(), dst.Height())

	renderHUD(dst, snap)
	renderField(dst, v, snap)
	renderBoss(dst, v, snap)
	renderBodies(dst, v, snap)
	renderLetters(dst, v, snap, g.cfg.Letters.DangerLine)
	renderShip(dst, v, snap)
	renderEffects(dst, v, snap)
	renderOverlay(dst, snap)
}

func init() {
	registry.Register("keyfall", func() registry.Game {
		return New()
	})
}
