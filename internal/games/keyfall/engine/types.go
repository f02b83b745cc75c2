// Package engine is the keyfall gameplay simulation.
//
// The engine owns every live entity and advances them one tick at a time in a
// fixed order: movement, trail, collision, scoring, progression, boss, spawns.
// Hosts push intents with Push, drive time with Step and read state through
// Snapshot. Nothing here blocks, sleeps or renders.
package engine

import (
	"time"

	"github.com/vovakirdan/keyfall/internal/core"
)

// Phase is the movement phase of a falling letter.
type Phase int

const (
	PhaseApproaching Phase = iota // Moving from the spawn point to the turnaround line
	PhaseRising                   // Moving up toward the top edge
	PhaseHit                      // Destroyed by the player
	PhaseEscaped                  // Left through the top edge
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseApproaching:
		return "Approaching"
	case PhaseRising:
		return "Rising"
	case PhaseHit:
		return "Hit"
	case PhaseEscaped:
		return "Escaped"
	default:
		return "Unknown"
	}
}

// Live reports whether a letter in this phase is still on the playfield.
func (p Phase) Live() bool {
	return p == PhaseApproaching || p == PhaseRising
}

// Letter is a target the player destroys by typing its character.
type Letter struct {
	ID        int
	Char      rune
	Pos       core.Vec
	Start     core.Vec // Spawn point
	Target    core.Vec // Point on the turnaround line
	Progress  float64  // 0..1 along Start->Target while approaching
	Speed     float64  // Units per second, fixed at spawn
	Phase     Phase
	Scale     float64 // Visual size factor, renderer only
	SpawnedAt time.Duration
}

// setPhase moves the letter forward through its phases.
// Phases never go backwards and terminal phases are final.
func (l *Letter) setPhase(p Phase) bool {
	if p <= l.Phase || !l.Phase.Live() {
		return false
	}
	l.Phase = p
	return true
}

// Body is a simple moving circle: meteorites and boss projectiles.
type Body struct {
	ID     int
	Pos    core.Vec
	Vel    core.Vec // Units per second
	Radius float64
}

// Circle returns the collision shape of the body.
func (b Body) Circle() core.Circle {
	return core.Circle{Center: b.Pos, R: b.Radius}
}

// ForceField is the ship's temporary shield.
type ForceField struct {
	Active      bool
	ActivatedAt time.Duration
	Duration    time.Duration
	Radius      float64
}

// Remaining returns how long the field stays up.
func (f ForceField) Remaining(now time.Duration) time.Duration {
	if !f.Active {
		return 0
	}
	return max(0, f.ActivatedAt+f.Duration-now)
}

// EffectKind identifies a transient visual entity.
type EffectKind int

const (
	EffectExplosion EffectKind = iota
	EffectWreck
	EffectComboText
	EffectScorePopup
)

// String returns a human-readable name for the effect kind.
func (k EffectKind) String() string {
	switch k {
	case EffectExplosion:
		return "Explosion"
	case EffectWreck:
		return "Wreck"
	case EffectComboText:
		return "ComboText"
	case EffectScorePopup:
		return "ScorePopup"
	default:
		return "Unknown"
	}
}

// Effect is a purely visual entity with a time to live.
type Effect struct {
	Kind EffectKind
	Pos  core.Vec
	Vel  core.Vec
	Text string
	Age  time.Duration
	TTL  time.Duration
}

// Life returns the remaining fraction of the effect's lifetime.
func (e Effect) Life() float64 {
	if e.TTL <= 0 {
		return 0
	}
	return max(0, 1-float64(e.Age)/float64(e.TTL))
}
