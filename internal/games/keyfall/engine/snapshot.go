package engine

import (
	"math"
	"time"
)

// Snapshot is a read-only copy of the engine state for hosts, replays and
// determinism checks. Uses plain fields only for stable serialization.
type Snapshot struct {
	Tick   uint64
	Now    time.Duration
	Width  float64
	Height float64

	Score            int
	Lives            int
	Stage            int
	StageName        string
	LettersDestroyed int
	GameSpeed        time.Duration
	LetterSpeed      float64

	Combo     ComboView
	Mode      Mode
	Countdown int
	Paused    bool
	GameOver  bool
	Warning   bool

	ShipX, ShipY float64
	ShipRadius   float64
	Field        FieldView

	Letters     []LetterView
	Meteorites  []BodyView
	Projectiles []BodyView
	Boss        BossView
	Effects     []EffectView
}

// ComboView is the visible part of the combo state.
type ComboView struct {
	Count      int
	Multiplier float64
	Sequential int
	Best       int
}

// FieldView describes the force field.
type FieldView struct {
	Active    bool
	Radius    float64
	Remaining time.Duration
}

// LetterView is one falling letter.
type LetterView struct {
	ID    int
	Char  rune
	X, Y  float64
	Scale float64
	Phase Phase
}

// BodyView is a meteorite or projectile.
type BodyView struct {
	ID     int
	X, Y   float64
	Radius float64
}

// SegmentView is one link of the boss chain.
type SegmentView struct {
	Kind   SegmentKind
	Letter rune
	X, Y   float64
	Radius float64
	State  SegmentState
}

// BossView describes the boss encounter.
type BossView struct {
	State    BossState
	Pattern  Pattern
	Phase    int
	Health   float64
	Segments []SegmentView
}

// EffectView is a transient visual entity.
type EffectView struct {
	Kind EffectKind
	X, Y float64
	Text string
	Life float64 // Remaining fraction of the lifetime
}

// Snapshot returns the current engine state.
func (e *Engine) Snapshot() Snapshot {
	stage, st := e.Stage()
	snap := Snapshot{
		Tick:             e.tick,
		Now:              e.now,
		Width:            e.arena.W,
		Height:           e.arena.H,
		Score:            e.score,
		Lives:            e.lives,
		Stage:            stage,
		StageName:        st.Name,
		LettersDestroyed: e.progression.Letters(),
		GameSpeed:        e.progression.GameSpeed(),
		LetterSpeed:      e.progression.LetterSpeed(),
		Combo: ComboView{
			Count:      e.combo.Count,
			Multiplier: e.combo.Multiplier,
			Sequential: e.combo.SequentialHits,
			Best:       e.combo.Best,
		},
		Mode:       e.countdown.Mode,
		Countdown:  e.countdown.Remaining,
		Paused:     e.paused,
		GameOver:   e.gameOver,
		Warning:    e.warning,
		ShipX:      e.ship.X,
		ShipY:      e.ship.Y,
		ShipRadius: e.cfg.Ship.Radius,
		Field: FieldView{
			Active:    e.field.Active,
			Radius:    e.field.Radius,
			Remaining: e.field.Remaining(e.now),
		},
		Boss: BossView{
			State:   e.boss.State,
			Pattern: e.boss.Pattern,
			Phase:   e.boss.Phase,
			Health:  e.boss.Health(),
		},
	}

	snap.Letters = make([]LetterView, 0, len(e.store.Letters))
	for _, l := range e.store.Letters {
		snap.Letters = append(snap.Letters, LetterView{
			ID: l.ID, Char: l.Char, X: l.Pos.X, Y: l.Pos.Y, Scale: l.Scale, Phase: l.Phase,
		})
	}
	snap.Meteorites = bodyViews(e.store.Meteorites)
	snap.Projectiles = bodyViews(e.store.Projectiles)

	if len(e.boss.Segments) > 0 {
		snap.Boss.Segments = make([]SegmentView, 0, len(e.boss.Segments))
		for _, s := range e.boss.Segments {
			snap.Boss.Segments = append(snap.Boss.Segments, SegmentView{
				Kind: s.Kind, Letter: s.Letter, X: s.Pos.X, Y: s.Pos.Y, Radius: s.Radius, State: s.State,
			})
		}
	}

	snap.Effects = make([]EffectView, 0, len(e.store.Effects))
	for _, fx := range e.store.Effects {
		snap.Effects = append(snap.Effects, EffectView{
			Kind: fx.Kind, X: fx.Pos.X, Y: fx.Pos.Y, Text: fx.Text, Life: fx.Life(),
		})
	}
	return snap
}

func bodyViews(bodies []Body) []BodyView {
	views := make([]BodyView, 0, len(bodies))
	for _, b := range bodies {
		views = append(views, BodyView{ID: b.ID, X: b.Pos.X, Y: b.Pos.Y, Radius: b.Radius})
	}
	return views
}

// Hash returns a simple hash of the gameplay state for determinism testing.
// Effects are visual only and excluded.
func (s *Snapshot) Hash() uint64 {
	h := s.Tick
	h = h*31 + uint64(s.Now)              //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Score)            //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Lives)            //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Stage)            //#nosec G115 -- hash computation
	h = h*31 + uint64(s.LettersDestroyed) //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Combo.Count)      //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Combo.Sequential) //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Mode)             //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Countdown)        //#nosec G115 -- hash computation
	h = h*31 + boolBit(s.GameOver)
	h = h*31 + boolBit(s.Field.Active)

	for _, l := range s.Letters {
		h = h*31 + uint64(l.ID)   //#nosec G115 -- hash computation
		h = h*31 + uint64(l.Char) //#nosec G115 -- hash computation
		h = h*31 + math.Float64bits(l.X)
		h = h*31 + math.Float64bits(l.Y)
		h = h*31 + uint64(l.Phase) //#nosec G115 -- hash computation
	}
	for _, b := range s.Meteorites {
		h = h*31 + math.Float64bits(b.X)
		h = h*31 + math.Float64bits(b.Y)
	}
	for _, b := range s.Projectiles {
		h = h*31 + math.Float64bits(b.X)
		h = h*31 + math.Float64bits(b.Y)
	}

	h = h*31 + uint64(s.Boss.State)   //#nosec G115 -- hash computation
	h = h*31 + uint64(s.Boss.Pattern) //#nosec G115 -- hash computation
	for _, seg := range s.Boss.Segments {
		h = h*31 + math.Float64bits(seg.X)
		h = h*31 + math.Float64bits(seg.Y)
		h = h*31 + uint64(seg.State) //#nosec G115 -- hash computation
	}
	return h
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
