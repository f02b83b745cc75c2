package keyfall

import (
	"math/rand"

	"github.com/vovakirdan/keyfall/internal/games/keyfall/engine"
)

// Autoplayer types for headless runs. It aims at the oldest letter on screen,
// then at the boss chain, and mistypes with probability 1-accuracy.
type Autoplayer struct {
	rng      *rand.Rand
	accuracy float64
	delay    int // Ticks between keystrokes
	wait     int
}

// NewAutoplayer creates an autoplayer. delay is the reaction time in ticks.
func NewAutoplayer(seed int64, accuracy float64, delay int) *Autoplayer {
	return &Autoplayer{
		rng:      rand.New(rand.NewSource(seed)), //#nosec G404 -- deterministic autoplay
		accuracy: accuracy,
		delay:    max(0, delay),
	}
}

// Next returns the intents for the tick after snap.
func (a *Autoplayer) Next(snap engine.Snapshot) []engine.Input {
	if snap.GameOver || snap.Paused {
		return nil
	}
	if snap.Mode != engine.ModeNormal {
		return []engine.Input{engine.SkipPenalty()}
	}

	var out []engine.Input
	if snap.Warning && !snap.Field.Active {
		out = append(out, engine.SpacePressed())
	}

	if a.wait > 0 {
		a.wait--
		return out
	}
	target, ok := nextTarget(snap)
	if !ok {
		return out
	}
	a.wait = a.delay

	if a.rng.Float64() >= a.accuracy {
		target = a.wrongKey(target)
	}
	return append(out, engine.KeyPressed(target))
}

// nextTarget picks the oldest live letter, then the first alive boss letter.
func nextTarget(snap engine.Snapshot) (rune, bool) {
	oldest := -1
	for i, l := range snap.Letters {
		if l.Phase != engine.PhaseApproaching && l.Phase != engine.PhaseRising {
			continue
		}
		if oldest < 0 || l.ID < snap.Letters[oldest].ID {
			oldest = i
		}
	}
	if oldest >= 0 {
		return snap.Letters[oldest].Char, true
	}
	for _, s := range snap.Boss.Segments {
		if s.Kind == engine.SegmentLetter && s.State == engine.SegmentAlive {
			return s.Letter, true
		}
	}
	return 0, false
}

func (a *Autoplayer) wrongKey(target rune) rune {
	r := rune('a' + a.rng.Intn(25))
	if r >= target {
		r++
	}
	return r
}
