package engine

import (
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/keyfall/internal/config"
	"github.com/vovakirdan/keyfall/internal/core"
)

// SpawnResult explains the outcome of a spawn attempt.
type SpawnResult int

const (
	Spawned SpawnResult = iota
	RejectedCapacity
	RejectedTiming
	RejectedEmptyPool
	RejectedSpacing
	RejectedChance
)

// String returns a human-readable name for the result.
func (r SpawnResult) String() string {
	switch r {
	case Spawned:
		return "spawned"
	case RejectedCapacity:
		return "capacity"
	case RejectedTiming:
		return "timing"
	case RejectedEmptyPool:
		return "empty pool"
	case RejectedSpacing:
		return "spacing"
	case RejectedChance:
		return "chance"
	default:
		return "unknown"
	}
}

// Store owns every live entity and the spawner bookkeeping.
type Store struct {
	Letters     []Letter
	Meteorites  []Body
	Projectiles []Body
	Effects     []Effect

	nextID        int
	lastLetterAt  time.Duration
	spawnedLetter bool
	lastChar      rune
	lastMeteorAt  time.Duration
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

func (s *Store) newID() int {
	s.nextID++
	return s.nextID
}

// LiveLetters returns the number of letters still on the playfield.
func (s *Store) LiveLetters() int {
	n := 0
	for _, l := range s.Letters {
		if l.Phase.Live() {
			n++
		}
	}
	return n
}

// Oldest returns the index of the oldest live letter, or -1.
// Ties on spawn time go to the lower ID.
func (s *Store) Oldest() int {
	best := -1
	for i, l := range s.Letters {
		if !l.Phase.Live() {
			continue
		}
		if best < 0 || l.SpawnedAt < s.Letters[best].SpawnedAt ||
			(l.SpawnedAt == s.Letters[best].SpawnedAt && l.ID < s.Letters[best].ID) {
			best = i
		}
	}
	return best
}

// OldestMatching returns the index of the oldest live letter showing char, or -1.
func (s *Store) OldestMatching(char rune) int {
	best := -1
	for i, l := range s.Letters {
		if !l.Phase.Live() || l.Char != char {
			continue
		}
		if best < 0 || l.SpawnedAt < s.Letters[best].SpawnedAt ||
			(l.SpawnedAt == s.Letters[best].SpawnedAt && l.ID < s.Letters[best].ID) {
			best = i
		}
	}
	return best
}

// Sweep removes letters that have left the live phases.
func (s *Store) Sweep() {
	kept := s.Letters[:0]
	for _, l := range s.Letters {
		if l.Phase.Live() {
			kept = append(kept, l)
		}
	}
	s.Letters = kept
}

// Wipe clears letters, meteorites and projectiles after the ship is destroyed.
func (s *Store) Wipe() {
	s.Letters = s.Letters[:0]
	s.Meteorites = s.Meteorites[:0]
	s.Projectiles = s.Projectiles[:0]
}

// LetterSpawn carries what the letter spawner needs from the engine.
type LetterSpawn struct {
	Now       time.Duration
	GameSpeed time.Duration // Minimum interval between spawns
	Speed     float64       // Speed given to the new letter
	Pool      []rune
	Width     float64
	Height    float64
}

// SpawnLetter tries to admit a new letter.
func (s *Store) SpawnLetter(req LetterSpawn, cfg config.KeyfallConfig, rng *rand.Rand) (Letter, SpawnResult) {
	if s.LiveLetters() >= cfg.Letters.MaxOnScreen {
		return Letter{}, RejectedCapacity
	}
	if s.spawnedLetter && req.Now-s.lastLetterAt < req.GameSpeed {
		return Letter{}, RejectedTiming
	}
	if len(req.Pool) == 0 {
		return Letter{}, RejectedEmptyPool
	}

	char := req.Pool[rng.Intn(len(req.Pool))]
	if len(req.Pool) > 1 && char == s.lastChar {
		// Step to a neighbor so the same letter never appears twice in a row.
		for i, r := range req.Pool {
			if r == char {
				char = req.Pool[(i+1+rng.Intn(len(req.Pool)-1))%len(req.Pool)]
				break
			}
		}
	}

	targetX := TargetColumn(char, cfg.Layout, req.Width, cfg.Playfield.SideMargin)
	for _, l := range s.Letters {
		if l.Phase.Live() && math.Abs(l.Target.X-targetX) < cfg.Letters.LaneWidth {
			return Letter{}, RejectedSpacing
		}
	}

	center := req.Width / 2
	start := core.Vec{
		X: center + (targetX-center)*cfg.Letters.SpawnPull,
		Y: req.Height * cfg.Playfield.SpawnLine,
	}
	target := core.Vec{X: targetX, Y: req.Height * cfg.Playfield.TurnaroundLine}

	l := Letter{
		ID:        s.newID(),
		Char:      char,
		Pos:       start,
		Start:     start,
		Target:    target,
		Speed:     req.Speed,
		Phase:     PhaseApproaching,
		Scale:     cfg.Letters.MinScale,
		SpawnedAt: req.Now,
	}
	s.Letters = append(s.Letters, l)
	s.lastLetterAt = req.Now
	s.spawnedLetter = true
	s.lastChar = char
	return l, Spawned
}

// TargetColumn maps a character to its horizontal lane using the keyboard
// layout, clamped inside the side margins.
func TargetColumn(char rune, layout config.LayoutConfig, width, margin float64) float64 {
	usable := width - 2*margin
	if usable <= 0 {
		return width / 2
	}
	row, col, ok := layout.Position(char)
	span := layout.Span()
	if !ok || span <= 0 {
		return width / 2
	}
	frac := (float64(col) + float64(row)*layout.RowStagger + 0.5) / span
	return core.ClampF(margin+frac*usable, margin, width-margin)
}

// MeteoriteSpawn carries what the meteorite spawner needs from the engine.
type MeteoriteSpawn struct {
	Now      time.Duration
	Interval time.Duration
	Chance   float64
	Ship     core.Vec
	Width    float64
	Height   float64
}

// SpawnMeteorite rolls for a meteorite once per interval. New meteorites
// enter from the top or the upper sides and head for the ship's center.
func (s *Store) SpawnMeteorite(req MeteoriteSpawn, cfg config.MeteoriteConfig, rng *rand.Rand) (Body, SpawnResult) {
	if len(s.Meteorites) >= cfg.MaxOnScreen {
		return Body{}, RejectedCapacity
	}
	if req.Now-s.lastMeteorAt < req.Interval {
		return Body{}, RejectedTiming
	}
	s.lastMeteorAt = req.Now
	if rng.Float64() >= req.Chance {
		return Body{}, RejectedChance
	}

	var pos core.Vec
	switch edge := rng.Intn(5); edge {
	case 0:
		pos = core.Vec{X: -cfg.SpawnHeadroom, Y: rng.Float64() * req.Height * 0.4}
	case 1:
		pos = core.Vec{X: req.Width + cfg.SpawnHeadroom, Y: rng.Float64() * req.Height * 0.4}
	default:
		pos = core.Vec{X: rng.Float64() * req.Width, Y: -cfg.SpawnHeadroom}
	}

	m := Body{
		ID:     s.newID(),
		Pos:    pos,
		Vel:    req.Ship.Sub(pos).Normalize().Scale(cfg.Speed),
		Radius: cfg.Radius,
	}
	s.Meteorites = append(s.Meteorites, m)
	return m, Spawned
}

// AddProjectile stores a boss projectile.
func (s *Store) AddProjectile(pos, vel core.Vec, radius float64) Body {
	p := Body{ID: s.newID(), Pos: pos, Vel: vel, Radius: radius}
	s.Projectiles = append(s.Projectiles, p)
	return p
}

// AddEffect stores a visual effect.
func (s *Store) AddEffect(e Effect) {
	if e.TTL <= 0 {
		return
	}
	s.Effects = append(s.Effects, e)
}
