package core

import "time"

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// TickDuration returns the simulated time covered by one tick.
func (c RuntimeConfig) TickDuration() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRate)
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int  // Current score
	Lives    int  // Remaining lives
	Stage    int  // Current stage index
	GameOver bool // Whether the game has ended
	Paused   bool // Whether the game is paused
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
}

// RunSummary describes a finished run for the score store.
type RunSummary struct {
	Score     int
	Stage     int
	StageName string
	Letters   int // Letters destroyed
	BestCombo int
	Duration  time.Duration
	Seed      int64
}
