package engine

import (
	"fmt"
	"io"
	"math/rand"
	"time"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/keyfall/internal/config"
	"github.com/vovakirdan/keyfall/internal/core"
)

// InputKind identifies a queued player intent.
type InputKind int

const (
	InputKey    InputKind = iota // A typed character
	InputShield                  // Raise the force field
	InputSkip                    // Skip the running countdown
	InputPause                   // Toggle pause
)

// Input is a player intent consumed at the start of the next tick.
type Input struct {
	Kind InputKind
	Char rune
}

// KeyPressed returns the intent for a typed character.
func KeyPressed(r rune) Input {
	return Input{Kind: InputKey, Char: unicode.ToLower(r)}
}

// SpacePressed returns the intent that raises the force field.
func SpacePressed() Input {
	return Input{Kind: InputShield}
}

// SkipPenalty returns the intent that skips a countdown.
func SkipPenalty() Input {
	return Input{Kind: InputSkip}
}

// TogglePause returns the intent that pauses or resumes the run.
func TogglePause() Input {
	return Input{Kind: InputPause}
}

// Frame is the host's per-tick signal.
type Frame struct {
	Dt     time.Duration
	Ship   core.Vec // Ship center
	Width  float64  // Playfield size; zero uses the configured size
	Height float64
}

// StepResult reports what happened during one tick.
type StepResult struct {
	Tick   uint64
	Events []Event
}

// Options configures an Engine.
type Options struct {
	Logger *log.Logger // nil discards logs
	Seed   int64
}

// Engine is the keyfall simulation. It is not safe for concurrent use;
// hosts read Snapshot between ticks.
type Engine struct {
	cfg    config.KeyfallConfig
	opts   Options
	logger *log.Logger
	rng    *rand.Rand

	store       *Store
	combo       Combo
	countdown   Countdown
	progression *Progression
	boss        *Boss
	difficulty  *config.DifficultyManager
	field       ForceField

	pending []Input
	events  []Event

	tick     uint64
	now      time.Duration // Advances only while unpaused
	score    int
	lives    int
	paused   bool
	gameOver bool
	warning  bool
	ship     core.Vec
	arena    arena

	countdownStarted bool // A countdown began during the current tick
}

// New creates an engine ready to run.
func New(cfg config.KeyfallConfig, opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	e := &Engine{cfg: cfg, opts: opts, logger: opts.Logger}
	e.Reset(opts.Seed)
	return e
}

// Reset starts a new run with the given seed.
func (e *Engine) Reset(seed int64) {
	e.opts.Seed = seed
	e.rng = rand.New(rand.NewSource(seed)) //#nosec G404 -- deterministic game RNG
	e.store = NewStore()
	e.combo = Combo{Multiplier: 1}
	e.countdown = Countdown{}
	e.progression = NewProgression(e.cfg.Stages, e.cfg.Speed, e.logger)
	e.boss = NewBoss(e.cfg.Boss, e.logger)
	e.difficulty = config.NewDifficultyManager(e.cfg.Difficulty)
	e.field = ForceField{
		Duration: config.Duration(e.cfg.ForceField.DurationMs),
		Radius:   e.cfg.ForceField.Radius,
	}
	e.pending = e.pending[:0]
	e.tick = 0
	e.now = 0
	e.score = 0
	e.lives = e.cfg.Ship.Lives
	e.paused = false
	e.gameOver = false
	e.warning = false
	e.countdownStarted = false
	e.arena = arena{W: e.cfg.Playfield.Width, H: e.cfg.Playfield.Height, Margin: e.cfg.Playfield.OffscreenMargin}
	e.ship = e.DefaultShip()
}

// Config returns the configuration the engine runs with.
func (e *Engine) Config() config.KeyfallConfig {
	return e.cfg
}

// Seed returns the seed of the current run.
func (e *Engine) Seed() int64 {
	return e.opts.Seed
}

// DefaultShip returns the resting ship position for the configured playfield.
func (e *Engine) DefaultShip() core.Vec {
	return core.Vec{X: e.cfg.Playfield.Width / 2, Y: e.cfg.Playfield.Height * e.cfg.Ship.Line}
}

// SetStage jumps to a stage, clamping out-of-range indexes.
// It is meant for practice runs and tests, before the first tick.
func (e *Engine) SetStage(i int) {
	e.progression.SetStage(i)
}

// Push queues an intent for the next tick.
func (e *Engine) Push(in Input) {
	e.pending = append(e.pending, in)
}

// SetPaused freezes or resumes the run.
func (e *Engine) SetPaused(paused bool) {
	if e.paused == paused || e.gameOver {
		return
	}
	e.paused = paused
	e.emit(PausedEvent{Paused: paused})
}

// Paused reports whether the run is paused.
func (e *Engine) Paused() bool {
	return e.paused
}

// GameOver reports whether the run has ended.
func (e *Engine) GameOver() bool {
	return e.gameOver
}

// Score returns the current score.
func (e *Engine) Score() int {
	return e.score
}

// Lives returns the remaining lives.
func (e *Engine) Lives() int {
	return e.lives
}

// Now returns the simulated run time.
func (e *Engine) Now() time.Duration {
	return e.now
}

// Stage returns the current stage index and row.
func (e *Engine) Stage() (int, config.StageConfig) {
	st := e.progression.Current()
	return e.progression.Stage(), st
}

// LettersDestroyed returns the cumulative letter count.
func (e *Engine) LettersDestroyed() int {
	return e.progression.Letters()
}

// BestCombo returns the longest streak of the run.
func (e *Engine) BestCombo() int {
	return e.combo.Best
}

func (e *Engine) emit(ev Event) {
	e.events = append(e.events, ev)
}

// Step advances the simulation by one tick.
func (e *Engine) Step(f Frame) StepResult {
	e.tick++
	if f.Width > 0 && f.Height > 0 {
		e.arena.W, e.arena.H = f.Width, f.Height
	}
	e.ship = f.Ship

	keys := e.applyControls()

	if e.paused {
		e.drain(f.Dt)
		return e.result()
	}

	e.now += f.Dt
	e.countdownStarted = false
	frozen := e.countdown.Frozen() || e.gameOver
	if !frozen && e.combo.Expired(e.now, config.Duration(e.cfg.Combo.WindowMs)) {
		e.combo.Reset()
	}

	// Movement and trail
	if !frozen {
		e.moveEntities(f.Dt)
		e.boss.Move(f.Dt, e.ship, e.arena)
	} else if e.boss.Draining() {
		e.boss.Move(f.Dt, e.ship, e.arena)
	}

	// Collision
	if !frozen {
		e.resolveCollisions()
	}

	// Scoring and progression
	if !e.countdown.Frozen() && !e.gameOver {
		for _, r := range keys {
			e.handleKey(r)
			if e.countdown.Frozen() {
				break
			}
		}
	}

	// Boss pattern and health
	if !frozen || e.boss.Draining() {
		e.thinkBoss(f.Dt)
	}
	stage, st := e.Stage()
	e.progression.Hold(e.boss.Engaged(stage, st))
	if !e.countdown.Frozen() && !e.gameOver {
		e.maybeSpawnBoss()
	}

	// Spawns
	if !e.countdown.Frozen() && !e.gameOver {
		e.spawn()
	}

	// Timers
	e.store.Effects = advanceEffects(e.store.Effects, f.Dt, e.cfg.Effects.WreckGravity, false)
	if e.field.Active && e.field.Remaining(e.now) <= 0 {
		e.field.Active = false
	}
	if !e.countdownStarted {
		if mode, ticked := e.countdown.Advance(f.Dt, config.Duration(e.cfg.Penalty.StepMs)); ticked {
			e.emit(CountdownTickedEvent{Mode: mode, Remaining: e.countdown.Remaining})
		}
	}

	e.updateWarning()
	return e.result()
}

// result hands over the events gathered since the previous tick, including
// those emitted by host calls such as SetPaused.
func (e *Engine) result() StepResult {
	events := make([]Event, len(e.events))
	copy(events, e.events)
	e.events = e.events[:0]
	return StepResult{Tick: e.tick, Events: events}
}

// applyControls consumes queued intents and returns the typed characters.
func (e *Engine) applyControls() []rune {
	var keys []rune
	for _, in := range e.pending {
		switch in.Kind {
		case InputPause:
			e.SetPaused(!e.paused)
		case InputSkip:
			if !e.paused && e.countdown.Skip() {
				e.logger.Debug("countdown skipped")
				e.emit(CountdownTickedEvent{Mode: ModeNormal, Remaining: 0})
			}
		case InputShield:
			if !e.paused && !e.countdown.Frozen() && !e.gameOver && !e.field.Active {
				e.field.Active = true
				e.field.ActivatedAt = e.now
			}
		case InputKey:
			if !e.paused {
				keys = append(keys, in.Char)
			}
		}
	}
	e.pending = e.pending[:0]
	return keys
}

// drain runs the animations that complete even while paused.
func (e *Engine) drain(dt time.Duration) {
	if e.boss.Draining() {
		e.boss.Move(dt, e.ship, e.arena)
		e.thinkBoss(dt)
	}
	e.store.Effects = advanceEffects(e.store.Effects, dt, e.cfg.Effects.WreckGravity, true)
}

func (e *Engine) moveEntities(dt time.Duration) {
	escaped := 0
	for i := range e.store.Letters {
		l := &e.store.Letters[i]
		if advanceLetter(l, dt, e.cfg.Letters) {
			escaped++
			e.emit(LetterEscapedEvent{Char: l.Char})
		}
	}
	e.store.Sweep()

	bounds := newCullBounds(e.arena.W, e.arena.H, e.arena.Margin)
	e.store.Meteorites = advanceBodies(e.store.Meteorites, dt, bounds)
	e.store.Projectiles = advanceBodies(e.store.Projectiles, dt, bounds)

	if escaped > 0 {
		e.loseLives(escaped)
	}
}

// loseLives removes n lives and starts the life-lost countdown, or ends the run.
func (e *Engine) loseLives(n int) {
	e.lives -= n
	e.combo.Reset()
	e.emit(LivesChangedEvent{Lives: max(0, e.lives)})
	if e.lives <= 0 {
		e.endRun()
		return
	}
	e.startCountdown(ModeLifeLost)
}

func (e *Engine) endRun() {
	if e.gameOver {
		return
	}
	e.lives = 0
	e.gameOver = true
	e.countdown = Countdown{}
	stage, _ := e.Stage()
	e.logger.Info("game over", "score", e.score, "stage", stage, "letters", e.progression.Letters())
	e.emit(GameOverEvent{Score: e.score, Stage: stage})
}

func (e *Engine) startCountdown(mode Mode) {
	if e.countdown.Start(mode, e.cfg.Penalty.Steps) {
		e.countdownStarted = true
		e.emit(CountdownTickedEvent{Mode: mode, Remaining: e.countdown.Remaining})
	}
}

// handleKey resolves a typed character: the oldest matching letter first,
// then the first matching boss segment, otherwise a miss.
func (e *Engine) handleKey(r rune) {
	if idx := e.store.OldestMatching(r); idx >= 0 {
		e.hitLetter(idx)
		return
	}
	if res, ok := e.boss.Absorb(r); ok {
		e.absorbSegment(res)
		return
	}

	e.combo.Reset()
	e.emit(LetterMissedEvent{Char: r})
	e.emit(WrongKeyEvent{})
	e.startCountdown(ModePenalized)
}

func (e *Engine) hitLetter(idx int) {
	sequential := idx == e.store.Oldest()
	l := &e.store.Letters[idx]
	l.setPhase(PhaseHit)
	pos, char := l.Pos, l.Char
	e.store.Sweep()

	e.combo.Hit(e.now, config.Duration(e.cfg.Combo.WindowMs), sequential, e.cfg.Combo.Multipliers)
	bonus := SequentialBonus(e.combo.SequentialHits, e.cfg.Combo.Sequential)
	points := Points(e.cfg.Combo.BasePoints, e.combo.Multiplier, bonus)
	e.score += points

	e.emit(LetterHitEvent{Char: char, Pos: pos, Points: points, Total: e.score})
	e.emit(ScoreChangedEvent{Total: e.score})
	e.store.AddEffect(Effect{Kind: EffectExplosion, Pos: pos, TTL: config.Duration(e.cfg.Effects.ExplosionMs)})
	e.store.AddEffect(Effect{
		Kind: EffectScorePopup,
		Pos:  pos,
		Vel:  core.Vec{Y: -30},
		Text: fmt.Sprintf("+%d", points),
		TTL:  config.Duration(e.cfg.Effects.ComboTextMs),
	})
	if e.combo.Count >= 2 {
		e.emit(ComboEvent{Count: e.combo.Count, Multiplier: e.combo.Multiplier})
		e.store.AddEffect(Effect{
			Kind: EffectComboText,
			Pos:  core.Vec{X: e.arena.W / 2, Y: e.arena.H * 0.3},
			Text: fmt.Sprintf("%dx COMBO", e.combo.Count),
			TTL:  config.Duration(e.cfg.Effects.ComboTextMs),
		})
	}
	if bonus > 0 {
		e.emit(SequentialBonusEvent{Amount: bonus})
	}

	if e.progression.RecordDestroyed() {
		e.onStageAdvanced()
	}
}

func (e *Engine) absorbSegment(res AbsorbResult) {
	points := e.cfg.Boss.SegmentScore
	e.score += points
	e.emit(SegmentAbsorbedEvent{Index: res.Index, Letter: res.Letter, Points: points, Left: res.Left})
	if res.Defeated {
		if e.boss.claimDefeatBonus() {
			e.score += e.cfg.Boss.DefeatBonus
		}
		e.emit(BossMusicCueEvent{Cue: CueDefeat})
	}
	e.emit(ScoreChangedEvent{Total: e.score})
}

func (e *Engine) onStageAdvanced() {
	stage, st := e.Stage()
	e.emit(StageAdvancedEvent{Stage: stage, Name: st.Name})
}

func (e *Engine) thinkBoss(dt time.Duration) {
	events, defeated := e.boss.Think(dt, e.ship, e.rng, e.store)
	e.events = append(e.events, events...)
	if defeated && e.progression.AdvanceFrom(e.boss.Stage()) {
		e.onStageAdvanced()
	}
}

// maybeSpawnBoss checks the boss precondition for the current stage.
func (e *Engine) maybeSpawnBoss() {
	stage, st := e.Stage()
	if !e.boss.CanSpawn(stage, st) {
		return
	}
	learned := config.LearnedLetters(e.cfg.Stages, stage)
	if len(learned) == 0 {
		return
	}
	e.emit(e.boss.Spawn(stage, learned, e.arena))
	e.emit(BossMusicCueEvent{Cue: CueBoss})
}

func (e *Engine) spawn() {
	stage, st := e.Stage()

	if !e.boss.Engaged(stage, st) {
		_, res := e.store.SpawnLetter(LetterSpawn{
			Now:       e.now,
			GameSpeed: e.progression.GameSpeed(),
			Speed:     e.progression.LetterSpeed(),
			Pool:      st.Pool(),
			Width:     e.arena.W,
			Height:    e.arena.H,
		}, e.cfg, e.rng)
		if res != Spawned && res != RejectedTiming {
			e.logger.Debug("letter spawn rejected", "reason", res, "tick", e.tick)
		}
	}

	if stage >= e.cfg.Meteorites.FromStage {
		mc := e.cfg.Meteorites
		progress := e.progression.StageProgress()
		_, _ = e.store.SpawnMeteorite(MeteoriteSpawn{
			Now:      e.now,
			Interval: config.Duration(e.difficulty.Interval(mc.BaseInterval, mc.MinInterval, e.score, progress)),
			Chance:   e.difficulty.Chance(mc.BaseChance, mc.MaxChance, e.score, progress),
			Ship:     e.ship,
			Width:    e.arena.W,
			Height:   e.arena.H,
		}, mc, e.rng)
	}
}

// updateWarning flips the proximity warning when danger approaches the ship.
func (e *Engine) updateWarning() {
	warn := false
	if !e.gameOver {
		rangeSq := e.cfg.Ship.WarningRange * e.cfg.Ship.WarningRange
		for _, m := range e.store.Meteorites {
			if core.DistanceSquared(m.Pos, e.ship) <= rangeSq {
				warn = true
				break
			}
		}
		for _, p := range e.store.Projectiles {
			if warn {
				break
			}
			if core.DistanceSquared(p.Pos, e.ship) <= rangeSq {
				warn = true
			}
		}
		danger := e.arena.H * e.cfg.Letters.DangerLine
		for _, l := range e.store.Letters {
			if warn {
				break
			}
			if l.Phase == PhaseRising && l.Pos.Y < danger {
				warn = true
			}
		}
		if !warn && e.boss.Dangerous() && core.DistanceSquared(e.boss.Head(), e.ship) <= rangeSq {
			warn = true
		}
	}
	if warn != e.warning {
		e.warning = warn
		e.emit(ProximityWarningEvent{Active: warn})
	}
}
