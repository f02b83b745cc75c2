package engine

import "github.com/vovakirdan/keyfall/internal/core"

// Event is emitted by Step for the host to render or sonify.
// Events are facts about the tick that just ran; they never carry commands.
type Event interface {
	event()
}

// ScoreChangedEvent is sent whenever the total score changes.
type ScoreChangedEvent struct {
	Total int
}

func (ScoreChangedEvent) event() {}

// LivesChangedEvent is sent whenever the life count changes.
type LivesChangedEvent struct {
	Lives int
}

func (LivesChangedEvent) event() {}

// LetterHitEvent is sent when a typed key destroys a letter.
type LetterHitEvent struct {
	Char   rune
	Pos    core.Vec
	Points int
	Total  int
}

func (LetterHitEvent) event() {}

// LetterMissedEvent is sent when a typed key matches nothing.
type LetterMissedEvent struct {
	Char rune
}

func (LetterMissedEvent) event() {}

// LetterEscapedEvent is sent for every letter leaving through the top edge.
type LetterEscapedEvent struct {
	Char rune
}

func (LetterEscapedEvent) event() {}

// DestroyReason describes what destroyed the ship.
type DestroyReason int

const (
	DestroyedByMeteorite DestroyReason = iota
	DestroyedByBoss
)

func (r DestroyReason) String() string {
	switch r {
	case DestroyedByMeteorite:
		return "meteorite"
	case DestroyedByBoss:
		return "boss"
	default:
		return "unknown"
	}
}

// ShipDestroyedEvent is sent when a collision costs the ship a life.
type ShipDestroyedEvent struct {
	Reason DestroyReason
	Pos    core.Vec
}

func (ShipDestroyedEvent) event() {}

// WrongKeyEvent is sent on a miss or an unblocked boss projectile.
type WrongKeyEvent struct{}

func (WrongKeyEvent) event() {}

// MeteoriteHitEvent is sent when the force field destroys a meteorite.
type MeteoriteHitEvent struct {
	Pos core.Vec
}

func (MeteoriteHitEvent) event() {}

// StageAdvancedEvent is sent when the stage index increases.
type StageAdvancedEvent struct {
	Stage int
	Name  string
}

func (StageAdvancedEvent) event() {}

// GameOverEvent is sent once when lives run out.
type GameOverEvent struct {
	Score int
	Stage int
}

func (GameOverEvent) event() {}

// ProximityWarningEvent is sent when the danger indicator flips.
type ProximityWarningEvent struct {
	Active bool
}

func (ProximityWarningEvent) event() {}

// ComboEvent is sent on hits that continue a streak.
type ComboEvent struct {
	Count      int
	Multiplier float64
}

func (ComboEvent) event() {}

// SequentialBonusEvent is sent when in-order hits earn a bonus.
type SequentialBonusEvent struct {
	Amount int
}

func (SequentialBonusEvent) event() {}

// BossSpawnedEvent is sent when a boss encounter starts.
type BossSpawnedEvent struct {
	Stage    int
	Segments int
	Letters  int
}

func (BossSpawnedEvent) event() {}

// BossShotEvent is sent for every projectile the boss fires.
type BossShotEvent struct {
	From core.Vec
	Vel  core.Vec
}

func (BossShotEvent) event() {}

// ForceFieldHitEvent is sent when the field absorbs a meteorite or projectile.
type ForceFieldHitEvent struct {
	Pos core.Vec
}

func (ForceFieldHitEvent) event() {}

// SegmentAbsorbedEvent is sent when a typed key consumes a boss letter.
type SegmentAbsorbedEvent struct {
	Index  int
	Letter rune
	Points int
	Left   int // Letter segments still alive
}

func (SegmentAbsorbedEvent) event() {}

// SegmentExplodedEvent is one step of the defeat chain, head first.
type SegmentExplodedEvent struct {
	Index int
	Pos   core.Vec
}

func (SegmentExplodedEvent) event() {}

// MassiveExplosionEvent terminates the defeat chain.
type MassiveExplosionEvent struct {
	Pos core.Vec
}

func (MassiveExplosionEvent) event() {}

// MusicCue names a soundtrack change requested by the boss encounter.
type MusicCue string

const (
	CueBoss   MusicCue = "boss"
	CueDefeat MusicCue = "defeat"
	CueStage  MusicCue = "stage"
)

// BossMusicCueEvent asks the host to switch soundtrack.
type BossMusicCueEvent struct {
	Cue MusicCue
}

func (BossMusicCueEvent) event() {}

// CountdownTickedEvent is sent when a penalty or life-lost countdown starts,
// steps, or finishes (Remaining == 0).
type CountdownTickedEvent struct {
	Mode      Mode
	Remaining int
}

func (CountdownTickedEvent) event() {}

// PausedEvent is sent when the pause state flips.
type PausedEvent struct {
	Paused bool
}

func (PausedEvent) event() {}
