package engine

import "github.com/vovakirdan/keyfall/internal/core"

// Trail is a fixed-size ring buffer of a leader's recent positions,
// indexed by ticks ago. Followers read it at constant offsets.
type Trail struct {
	buf  []core.Vec
	head int // Next write index
}

// NewTrail creates a trail that remembers capacity samples.
// The buffer starts filled with fill, so early reads return the spawn point.
func NewTrail(capacity int, fill core.Vec) *Trail {
	if capacity < 1 {
		capacity = 1
	}
	t := &Trail{buf: make([]core.Vec, capacity)}
	for i := range t.buf {
		t.buf[i] = fill
	}
	return t
}

// Push records the leader's position for this tick, overwriting the oldest sample.
func (t *Trail) Push(p core.Vec) {
	t.buf[t.head] = p
	t.head = (t.head + 1) % len(t.buf)
}

// At returns the position recorded offset ticks ago; 0 is the latest sample.
// Offsets past the capacity read the oldest sample.
func (t *Trail) At(offset int) core.Vec {
	n := len(t.buf)
	offset = core.Clamp(offset, 0, n-1)
	return t.buf[(t.head-1-offset+2*n)%n]
}

// Cap returns the number of samples the trail holds.
func (t *Trail) Cap() int {
	return len(t.buf)
}
