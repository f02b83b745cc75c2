package engine

import (
	"math"
	"time"

	"github.com/vovakirdan/keyfall/internal/config"
)

// Combo tracks the scoring streak.
type Combo struct {
	Count          int
	LastHit        time.Duration
	HasHit         bool
	Multiplier     float64
	SequentialHits int
	Best           int
}

// Hit registers a hit at now and reports whether it continued the streak.
// sequential is true when the hit targeted the oldest live letter.
func (c *Combo) Hit(now, window time.Duration, sequential bool, tiers []config.ComboTier) bool {
	continued := c.HasHit && now-c.LastHit <= window
	if continued {
		c.Count++
	} else {
		c.Count = 1
	}

	switch {
	case !sequential:
		c.SequentialHits = 0
	case continued:
		c.SequentialHits++
	default:
		c.SequentialHits = 1
	}

	c.HasHit = true
	c.LastHit = now
	c.Multiplier = MultiplierFor(c.Count, tiers)
	c.Best = max(c.Best, c.Count)
	return continued
}

// Expired reports whether a running streak has outlived window at now.
func (c *Combo) Expired(now, window time.Duration) bool {
	return c.HasHit && now-c.LastHit > window
}

// Reset returns the streak to its zero baseline. Best survives.
func (c *Combo) Reset() {
	best := c.Best
	*c = Combo{Multiplier: 1, Best: best}
}

// MultiplierFor returns the multiplier of the highest tier count reaches.
// Tiers may be listed in any order; below every tier the multiplier is 1.
func MultiplierFor(count int, tiers []config.ComboTier) float64 {
	mult, best := 1.0, 0
	for _, t := range tiers {
		if count >= t.Min && t.Min > best {
			mult, best = t.Multiplier, t.Min
		}
	}
	return mult
}

// SequentialBonus returns the flat bonus for a run of in-order hits.
func SequentialBonus(run int, tiers []config.BonusTier) int {
	bonus, best := 0, 0
	for _, t := range tiers {
		if run >= t.Min && t.Min > best {
			bonus, best = t.Bonus, t.Min
		}
	}
	return bonus
}

// Points returns floor(base * multiplier) + bonus.
func Points(base int, multiplier float64, bonus int) int {
	return int(math.Floor(float64(base)*multiplier)) + bonus
}
