package engine

import "time"

// Mode is the failure state of the run.
type Mode int

const (
	ModeNormal    Mode = iota
	ModePenalized      // Wrong key or unblocked projectile
	ModeLifeLost       // Ship destroyed or letter escaped
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "Normal"
	case ModePenalized:
		return "Penalized"
	case ModeLifeLost:
		return "LifeLost"
	default:
		return "Unknown"
	}
}

// Countdown is the penalty and life-lost state machine.
// Both modes count down a fixed number of steps and freeze play meanwhile.
type Countdown struct {
	Mode      Mode
	Remaining int
	elapsed   time.Duration
}

// Frozen reports whether play is suspended by a countdown.
func (c Countdown) Frozen() bool {
	return c.Mode != ModeNormal
}

// Start enters mode with a fresh countdown of steps.
// A life-lost countdown replaces a running penalty; a penalty never
// interrupts a life-lost countdown.
func (c *Countdown) Start(mode Mode, steps int) bool {
	if mode == ModeNormal {
		return false
	}
	if c.Mode == ModeLifeLost && mode == ModePenalized {
		return false
	}
	c.Mode = mode
	c.Remaining = steps
	c.elapsed = 0
	return true
}

// Skip resolves any running countdown immediately.
func (c *Countdown) Skip() bool {
	if c.Mode == ModeNormal {
		return false
	}
	*c = Countdown{}
	return true
}

// Advance moves the countdown forward by dt and reports whether the visible
// number changed. When it reaches zero the mode returns to Normal.
func (c *Countdown) Advance(dt, step time.Duration) (mode Mode, ticked bool) {
	if c.Mode == ModeNormal {
		return ModeNormal, false
	}
	mode = c.Mode
	c.elapsed += dt
	for c.elapsed >= step && c.Remaining > 0 {
		c.elapsed -= step
		c.Remaining--
		ticked = true
	}
	if c.Remaining == 0 {
		*c = Countdown{}
	}
	return mode, ticked
}
