package engine

import (
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/keyfall/internal/config"
	"github.com/vovakirdan/keyfall/internal/core"
)

// BossState is the top-level state of the boss encounter.
type BossState int

const (
	BossInactive BossState = iota
	BossSpawning
	BossActive
	BossVictory   // Retreating to the hover line after hitting the ship
	BossDefeating // Exploding segment by segment
)

// String returns a human-readable name for the state.
func (s BossState) String() string {
	switch s {
	case BossInactive:
		return "Inactive"
	case BossSpawning:
		return "Spawning"
	case BossActive:
		return "Active"
	case BossVictory:
		return "Victory"
	case BossDefeating:
		return "Defeating"
	default:
		return "Unknown"
	}
}

// Pattern is the attack sub-state while the boss is active.
type Pattern int

const (
	PatternIdle Pattern = iota
	PatternShooting
	PatternZigzag // Phase 2 and up
	PatternDash   // Phase 3
)

// String returns a human-readable name for the pattern.
func (p Pattern) String() string {
	switch p {
	case PatternIdle:
		return "Idle"
	case PatternShooting:
		return "Shooting"
	case PatternZigzag:
		return "Zigzag"
	case PatternDash:
		return "Dash"
	default:
		return "Unknown"
	}
}

// SegmentKind identifies the role of a chain segment.
type SegmentKind int

const (
	SegmentHead SegmentKind = iota
	SegmentSpacer
	SegmentLetter
	SegmentTail
)

// SegmentState is the lifecycle of a chain segment.
type SegmentState int

const (
	SegmentAlive SegmentState = iota
	SegmentAbsorbed
	SegmentDestroyed
)

// Segment is one link of the boss chain. Its position is read from the
// head's trail, Offset ticks in the past.
type Segment struct {
	Kind   SegmentKind
	Letter rune
	Offset int
	Radius float64
	State  SegmentState
	Pos    core.Vec
}

// arena is the playfield geometry for one tick.
type arena struct {
	W, H   float64
	Margin float64
}

// Boss is the boss encounter state machine.
type Boss struct {
	cfg    config.BossConfig
	logger *log.Logger

	State    BossState
	Pattern  Pattern
	Phase    int
	Segments []Segment

	trail   *Trail
	head    core.Vec
	stage   int
	centerX float64
	angle   float64

	patternElapsed time.Duration
	shotElapsed    time.Duration
	shotsFired     int
	explodeElapsed time.Duration
	exploded       int
	respawnIn      time.Duration
	exited         bool
	lettersTotal   int
	defeatAwarded  bool

	spawnedFor  map[int]bool
	defeatedFor map[int]bool
}

// NewBoss creates an inactive boss.
func NewBoss(cfg config.BossConfig, logger *log.Logger) *Boss {
	return &Boss{
		cfg:         cfg,
		logger:      logger,
		Phase:       1,
		spawnedFor:  make(map[int]bool),
		defeatedFor: make(map[int]bool),
	}
}

// Engaged reports whether stage still has an undefeated boss encounter.
func (b *Boss) Engaged(stage int, st config.StageConfig) bool {
	return b.cfg.Enabled && st.Boss && !b.defeatedFor[stage]
}

// Defeated reports whether the boss of stage has been beaten.
func (b *Boss) Defeated(stage int) bool {
	return b.defeatedFor[stage]
}

// CanSpawn checks the spawn precondition: the boss has never spawned for this
// stage, or it left the screen after a prior encounter, and it has not been
// defeated for this stage.
func (b *Boss) CanSpawn(stage int, st config.StageConfig) bool {
	if b.State != BossInactive || !b.Engaged(stage, st) {
		return false
	}
	if !b.spawnedFor[stage] {
		return true
	}
	return b.exited && b.respawnIn <= 0
}

// Spawn assembles the chain for stage from the letters learned so far.
func (b *Boss) Spawn(stage int, learned []rune, a arena) BossSpawnedEvent {
	letters := chainLetters(learned, b.cfg.MinLetterSegments, b.cfg.MaxLetterSegments)
	b.Segments = buildChain(letters, b.cfg)

	maxOffset := b.Segments[len(b.Segments)-1].Offset
	b.head = core.Vec{X: a.W / 2, Y: -2 * b.cfg.HeadRadius}
	b.trail = NewTrail(maxOffset+1, b.head)
	for i := range b.Segments {
		b.Segments[i].Pos = b.head
	}

	b.State = BossSpawning
	b.Pattern = PatternIdle
	b.Phase = 1
	b.stage = stage
	b.centerX = a.W / 2
	b.angle = 0
	b.patternElapsed, b.shotElapsed, b.shotsFired = 0, 0, 0
	b.explodeElapsed, b.exploded = 0, 0
	b.exited = false
	b.lettersTotal = len(letters)
	b.defeatAwarded = false
	b.spawnedFor[stage] = true

	b.logger.Info("boss spawned", "stage", stage, "segments", len(b.Segments), "letters", len(letters))
	return BossSpawnedEvent{Stage: stage, Segments: len(b.Segments), Letters: len(letters)}
}

// chainLetters repeats the learned letters up to the minimum segment count
// and truncates at the maximum.
func chainLetters(learned []rune, minCount, maxCount int) []rune {
	if len(learned) == 0 {
		return nil
	}
	n := max(len(learned), minCount)
	if maxCount > 0 {
		n = min(n, maxCount)
	}
	out := make([]rune, n)
	for i := range out {
		out[i] = learned[i%len(learned)]
	}
	return out
}

// buildChain lays out Head, a [spacer, spacer, letter] group per letter and
// a tapering tail. Offsets strictly increase; tail steps shrink with size.
func buildChain(letters []rune, cfg config.BossConfig) []Segment {
	spacing := max(1, cfg.SegmentSpacing)
	segs := []Segment{{Kind: SegmentHead, Radius: cfg.HeadRadius}}
	offset := 0
	for _, r := range letters {
		for range 2 {
			offset += spacing
			segs = append(segs, Segment{Kind: SegmentSpacer, Offset: offset, Radius: cfg.BodyRadius * 0.75})
		}
		offset += spacing
		segs = append(segs, Segment{Kind: SegmentLetter, Letter: r, Offset: offset, Radius: cfg.BodyRadius})
	}

	tail := max(0, cfg.TailLength)
	for k := range tail {
		shrink := 1 - float64(k+1)/float64(tail+1)
		offset += max(1, int(math.Round(float64(spacing)*shrink)))
		radius := max(cfg.TailMinRadius, cfg.BodyRadius*shrink)
		segs = append(segs, Segment{Kind: SegmentTail, Offset: offset, Radius: radius})
	}
	return segs
}

// Head returns the head position.
func (b *Boss) Head() core.Vec {
	return b.head
}

// HeadCircle returns the only part of the chain that damages the ship.
func (b *Boss) HeadCircle() core.Circle {
	return core.Circle{Center: b.head, R: b.cfg.HeadRadius}
}

// Dangerous reports whether the head can collide with the ship.
func (b *Boss) Dangerous() bool {
	return b.State == BossSpawning || b.State == BossActive
}

// AliveLetters returns the number of letter segments not yet absorbed.
func (b *Boss) AliveLetters() int {
	n := 0
	for _, s := range b.Segments {
		if s.Kind == SegmentLetter && s.State == SegmentAlive {
			n++
		}
	}
	return n
}

// Health returns the fraction of letter segments still alive.
func (b *Boss) Health() float64 {
	if b.lettersTotal == 0 {
		return 0
	}
	return float64(b.AliveLetters()) / float64(b.lettersTotal)
}

func (b *Boss) updatePhase() {
	h := b.Health()
	switch {
	case h <= 0.2:
		b.Phase = 3
	case h <= 0.5:
		b.Phase = 2
	default:
		b.Phase = 1
	}
}

// Retreat sends the boss into its victory retreat after hitting the ship.
func (b *Boss) Retreat() {
	if !b.Dangerous() {
		return
	}
	b.State = BossVictory
	b.Pattern = PatternIdle
	b.patternElapsed, b.shotElapsed, b.shotsFired = 0, 0, 0
}

// Draining reports whether the boss is in an animation that runs to
// completion even while play is paused or frozen.
func (b *Boss) Draining() bool {
	return b.State == BossVictory || b.State == BossDefeating
}

// Move advances the head, records it in the trail and repositions every
// segment from the trail.
func (b *Boss) Move(dt time.Duration, ship core.Vec, a arena) {
	if b.State == BossInactive || b.State == BossDefeating {
		return
	}
	secs := dt.Seconds()
	hoverY := b.cfg.HoverLine * a.H

	switch b.State {
	case BossSpawning:
		b.head.X = b.centerX
		b.head.Y += b.cfg.EntrySpeed * secs
		if b.head.Y >= hoverY {
			b.head.Y = hoverY
			b.State = BossActive
			b.Pattern = PatternIdle
			b.patternElapsed = 0
		}
	case BossActive:
		omega := b.cfg.AngularSpeed + float64(b.Phase-1)*b.cfg.AngularStep
		if b.Pattern == PatternZigzag {
			omega *= b.cfg.ZigzagFactor
		}
		b.angle += omega * secs
		if b.Pattern == PatternDash {
			step := b.cfg.DashSpeed * secs
			b.centerX += core.ClampF(ship.X-b.centerX, -step, step)
		}
		b.centerX = core.ClampF(b.centerX, a.Margin, a.W-a.Margin)
		b.head.X = core.ClampF(b.centerX+b.amplitude(a)*math.Sin(b.angle), 0, a.W)
		b.head.Y += b.cfg.DescentSpeed * secs
	case BossVictory:
		k := min(1, b.cfg.RetreatRate*secs)
		targetX := core.ClampF(b.centerX+b.amplitude(a)*math.Sin(b.angle), 0, a.W)
		b.head.X += (targetX - b.head.X) * k
		b.head.Y += (hoverY - b.head.Y) * k
		if math.Abs(b.head.Y-hoverY) < 0.5 && math.Abs(b.head.X-targetX) < 0.5 {
			b.head = core.Vec{X: targetX, Y: hoverY}
			b.State = BossActive
			b.Pattern = PatternIdle
			b.patternElapsed = 0
		}
	}

	b.trail.Push(b.head)
	for i := range b.Segments {
		b.Segments[i].Pos = b.trail.At(b.Segments[i].Offset)
	}
	if b.State == BossActive && b.offScreen(a) {
		b.exit()
	}
}

// offScreen reports whether the whole chain, tail included, is below the
// bottom edge.
func (b *Boss) offScreen(a arena) bool {
	bottom := a.H + a.Margin
	if b.head.Y-b.cfg.HeadRadius <= bottom {
		return false
	}
	last := b.Segments[len(b.Segments)-1]
	return last.Pos.Y-last.Radius > bottom
}

func (b *Boss) amplitude(a arena) float64 {
	return (b.cfg.Amplitude + float64(b.Phase-1)*b.cfg.AmplitudeStep) * a.W
}

// exit ends the encounter after the chain left through the bottom.
// The boss may spawn again for the same stage.
func (b *Boss) exit() {
	b.logger.Info("boss exited", "stage", b.stage)
	b.State = BossInactive
	b.Pattern = PatternIdle
	b.Segments = nil
	b.exited = true
	b.respawnIn = config.Duration(b.cfg.RespawnDelayMs)
}

// Think runs the attack-pattern cycle, the respawn timer and the defeat
// chain. defeated is true on the tick the defeat sequence completes.
func (b *Boss) Think(dt time.Duration, ship core.Vec, rng *rand.Rand, store *Store) (events []Event, defeated bool) {
	switch b.State {
	case BossInactive:
		if b.exited && b.respawnIn > 0 {
			b.respawnIn -= dt
		}
	case BossActive:
		b.updatePhase()
		events = b.cyclePattern(dt, ship, rng, store)
	case BossDefeating:
		return b.explode(dt)
	}
	return events, false
}

func (b *Boss) dwell() time.Duration {
	ms := b.cfg.PatternDwellMs
	if b.Pattern == PatternIdle {
		ms = b.cfg.IdleDwellMs
	}
	factor := max(0.2, 1-b.cfg.DwellShrink*float64(b.Phase-1))
	return time.Duration(float64(config.Duration(ms)) * factor)
}

func (b *Boss) cyclePattern(dt time.Duration, ship core.Vec, rng *rand.Rand, store *Store) []Event {
	var events []Event

	b.patternElapsed += dt
	if b.patternElapsed >= b.dwell() {
		b.patternElapsed = 0
		b.shotElapsed, b.shotsFired = 0, 0
		if b.Pattern == PatternIdle {
			options := []Pattern{PatternShooting}
			if b.Phase >= 2 {
				options = append(options, PatternZigzag)
			}
			if b.Phase >= 3 {
				options = append(options, PatternDash)
			}
			b.Pattern = options[rng.Intn(len(options))]
		} else {
			b.Pattern = PatternIdle
		}
		b.logger.Debug("boss pattern", "pattern", b.Pattern, "phase", b.Phase)
		return events
	}

	if b.Pattern != PatternShooting || b.shotsFired >= b.cfg.ShotsPerBurst {
		return events
	}
	b.shotElapsed += dt
	interval := config.Duration(b.cfg.ShotIntervalMs)
	for b.shotElapsed >= interval && b.shotsFired < b.cfg.ShotsPerBurst {
		b.shotElapsed -= interval
		b.shotsFired++

		// Aimed once at fire time; projectiles never track.
		dir := ship.Sub(b.head).Normalize()
		if dir == (core.Vec{}) {
			dir = core.Vec{Y: 1}
		}
		vel := dir.Scale(b.cfg.ProjectileSpeed)
		store.AddProjectile(b.head, vel, b.cfg.ProjectileRadius)
		events = append(events, BossShotEvent{From: b.head, Vel: vel})
		if interval <= 0 {
			break
		}
	}
	return events
}

// AbsorbResult describes a letter consumed from the chain.
type AbsorbResult struct {
	Index    int
	Letter   rune
	Left     int  // Letter segments still alive
	Defeated bool // The last letter was absorbed
}

// Absorb consumes the first alive letter segment showing char.
// The spacers ahead of it, up to the next letter or the tail, are dimmed
// with it. The first letter of the chain also dims the spacers between it
// and the head. Absorbing the last letter dims the whole chain and starts
// the defeat sequence.
func (b *Boss) Absorb(char rune) (AbsorbResult, bool) {
	if b.State != BossSpawning && b.State != BossActive && b.State != BossVictory {
		return AbsorbResult{}, false
	}

	idx := -1
	for i, s := range b.Segments {
		if s.Kind == SegmentLetter && s.State == SegmentAlive && s.Letter == char {
			idx = i
			break
		}
	}
	if idx < 0 {
		return AbsorbResult{}, false
	}

	b.Segments[idx].State = SegmentAbsorbed
	for j := idx + 1; j < len(b.Segments) && b.Segments[j].Kind == SegmentSpacer; j++ {
		b.Segments[j].State = SegmentAbsorbed
	}
	if b.firstLetter() == idx {
		for j := idx - 1; j > 0 && b.Segments[j].Kind == SegmentSpacer; j-- {
			b.Segments[j].State = SegmentAbsorbed
		}
	}

	res := AbsorbResult{Index: idx, Letter: char, Left: b.AliveLetters()}
	if res.Left == 0 {
		for i := 1; i < len(b.Segments); i++ {
			b.Segments[i].State = SegmentAbsorbed
		}
		b.State = BossDefeating
		b.Pattern = PatternIdle
		b.explodeElapsed, b.exploded = 0, 0
		res.Defeated = true
		b.logger.Info("boss defeated", "stage", b.stage)
	}
	b.updatePhase()
	return res, true
}

// firstLetter returns the index of the first letter segment, or -1.
func (b *Boss) firstLetter() int {
	for i, s := range b.Segments {
		if s.Kind == SegmentLetter {
			return i
		}
	}
	return -1
}

// claimDefeatBonus returns true once per encounter.
func (b *Boss) claimDefeatBonus() bool {
	if b.defeatAwarded {
		return false
	}
	b.defeatAwarded = true
	return true
}

// explode runs the head-to-tail explosion chain followed by the massive
// explosion, then retires the boss for this stage.
func (b *Boss) explode(dt time.Duration) ([]Event, bool) {
	var events []Event
	b.explodeElapsed += dt

	step := config.Duration(b.cfg.ExplosionStepMs)
	for b.exploded < len(b.Segments) && b.explodeElapsed >= time.Duration(b.exploded+1)*step {
		seg := &b.Segments[b.exploded]
		seg.State = SegmentDestroyed
		events = append(events, SegmentExplodedEvent{Index: b.exploded, Pos: seg.Pos})
		b.exploded++
	}

	end := time.Duration(len(b.Segments))*step + config.Duration(b.cfg.MassiveDelayMs)
	if b.exploded < len(b.Segments) || b.explodeElapsed < end {
		return events, false
	}

	events = append(events,
		MassiveExplosionEvent{Pos: b.head},
		BossMusicCueEvent{Cue: CueStage},
	)
	b.defeatedFor[b.stage] = true
	b.State = BossInactive
	b.Segments = nil
	return events, true
}

// Stage returns the stage the current or last encounter belongs to.
func (b *Boss) Stage() int {
	return b.stage
}
