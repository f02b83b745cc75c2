package engine

import (
	"time"

	"github.com/vovakirdan/keyfall/internal/config"
	"github.com/vovakirdan/keyfall/internal/core"
)

// advanceLetter moves one letter through its phases. It returns true when the
// letter escaped through the top edge during this call.
func advanceLetter(l *Letter, dt time.Duration, cfg config.LetterConfig) bool {
	secs := dt.Seconds()
	switch l.Phase {
	case PhaseApproaching:
		dist := l.Target.Y - l.Start.Y
		if dist <= 0 {
			l.Progress = 1
		} else {
			l.Progress += l.Speed * secs / dist
		}
		if l.Progress >= 1 {
			l.Progress = 1
			l.Pos = l.Target
			l.Scale = cfg.ApproachScale
			l.setPhase(PhaseRising)
			return false
		}
		l.Pos = core.Lerp(l.Start, l.Target, l.Progress)
		l.Scale = cfg.MinScale + (cfg.ApproachScale-cfg.MinScale)*l.Progress
	case PhaseRising:
		l.Pos.Y -= l.Speed * secs
		if l.Target.Y > 0 {
			climbed := core.ClampF(1-l.Pos.Y/l.Target.Y, 0, 1)
			l.Scale = cfg.ApproachScale + (1-cfg.ApproachScale)*climbed
		}
		if l.Pos.Y < 0 {
			return l.setPhase(PhaseEscaped)
		}
	}
	return false
}

// advanceBodies moves bodies linearly and drops those beyond the cull margin.
func advanceBodies(bodies []Body, dt time.Duration, bounds cullBounds) []Body {
	secs := dt.Seconds()
	kept := bodies[:0]
	for _, b := range bodies {
		b.Pos = b.Pos.Add(b.Vel.Scale(secs))
		if bounds.contains(b.Pos) {
			kept = append(kept, b)
		}
	}
	return kept
}

// advanceEffects ages effects and drops expired ones. When onlyWrecks is set
// the other effects hold still.
func advanceEffects(effects []Effect, dt time.Duration, gravity float64, onlyWrecks bool) []Effect {
	secs := dt.Seconds()
	kept := effects[:0]
	for _, e := range effects {
		if onlyWrecks && e.Kind != EffectWreck {
			kept = append(kept, e)
			continue
		}
		e.Age += dt
		e.Pos = e.Pos.Add(e.Vel.Scale(secs))
		if e.Kind == EffectWreck {
			e.Vel.Y += gravity * secs
		}
		if e.Age < e.TTL {
			kept = append(kept, e)
		}
	}
	return kept
}

type cullBounds struct {
	minX, minY, maxX, maxY float64
}

func newCullBounds(width, height, margin float64) cullBounds {
	return cullBounds{minX: -margin, minY: -margin, maxX: width + margin, maxY: height + margin}
}

func (b cullBounds) contains(p core.Vec) bool {
	return p.X >= b.minX && p.X <= b.maxX && p.Y >= b.minY && p.Y <= b.maxY
}
