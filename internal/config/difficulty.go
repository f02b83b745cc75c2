package config

import "math"

// DifficultyManager calculates dynamic meteorite parameters based on score
// and stage progress.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// SetEnabled enables or disables difficulty progression.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0).
// stageProgress is the current stage index divided by the last stage index.
func (d *DifficultyManager) Level(score int, stageProgress float64) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}
	scoreProgress := clampF(float64(score)/maxAt, 0.0, 1.0)
	stageProgress = clampF(stageProgress, 0.0, 1.0)

	var progress float64
	switch d.cfg.Progression.Type {
	case "score":
		progress = scoreProgress
	case "stage":
		progress = stageProgress
	case "blend":
		w := clampF(d.cfg.Progression.StageWeight, 0.0, 1.0)
		progress = w*stageProgress + (1-w)*scoreProgress
	default:
		return d.initialLevel
	}

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// Interval returns a spawn interval that shrinks from base toward floor as
// difficulty rises. The result never drops below floor.
func (d *DifficultyManager) Interval(base, floor int, score int, stageProgress float64) int {
	level := d.Level(score, stageProgress)
	result := base - int(level*float64(base-floor))
	if result < floor {
		result = floor
	}
	return result
}

// Chance returns a spawn probability that grows from base toward ceiling as
// difficulty rises. The result never exceeds ceiling.
func (d *DifficultyManager) Chance(base, ceiling float64, score int, stageProgress float64) float64 {
	level := d.Level(score, stageProgress)
	if level >= 1.0 {
		return ceiling
	}
	return clampF(base+level*(ceiling-base), 0.0, ceiling)
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
