package engine

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/keyfall/internal/config"
	"github.com/vovakirdan/keyfall/internal/core"
)

// Progression tracks destroyed letters against the stage table and derives
// the spawn interval and letter speed from the current stage.
type Progression struct {
	stages []config.StageConfig
	speed  config.SpeedConfig
	logger *log.Logger

	stage    int
	letters  int
	tighten  int          // Extra difficulty steps earned past the final stage
	consumed map[int]bool // Stages already advanced from
	held     bool
}

// NewProgression creates a progression on stage 0.
func NewProgression(stages []config.StageConfig, speed config.SpeedConfig, logger *log.Logger) *Progression {
	return &Progression{
		stages:   stages,
		speed:    speed,
		logger:   logger,
		consumed: make(map[int]bool),
	}
}

// Stage returns the current stage index.
func (p *Progression) Stage() int {
	return p.stage
}

// Letters returns the cumulative number of letters destroyed.
func (p *Progression) Letters() int {
	return p.letters
}

// Last returns the index of the final stage.
func (p *Progression) Last() int {
	return len(p.stages) - 1
}

// Current returns the active stage row. An out-of-range index is clamped to
// the last valid stage and logged.
func (p *Progression) Current() config.StageConfig {
	if p.stage < 0 || p.stage > p.Last() {
		clamped := core.Clamp(p.stage, 0, p.Last())
		p.logger.Warn("stage index out of range, clamping", "stage", p.stage, "clamped", clamped)
		p.stage = clamped
	}
	return p.stages[p.stage]
}

// SetStage jumps to stage i, clamping to the table.
func (p *Progression) SetStage(i int) {
	p.stage = i
	p.Current()
}

// Hold suspends threshold advancement while a boss encounter runs.
func (p *Progression) Hold(held bool) {
	p.held = held
}

// Level is the number of difficulty steps applied to speeds.
func (p *Progression) Level() int {
	return p.stage + p.tighten
}

// GameSpeed returns the minimum interval between letter spawns.
func (p *Progression) GameSpeed() time.Duration {
	ms := max(p.speed.MinSpawnMs, p.speed.BaseSpawnMs-p.Level()*p.speed.SpawnStepMs)
	return config.Duration(ms)
}

// LetterSpeed returns the speed given to newly spawned letters.
func (p *Progression) LetterSpeed() float64 {
	return p.speed.BaseLetterSpeed + float64(p.Level())*p.speed.LetterSpeedIncrement
}

// StageProgress returns the stage index as a fraction of the table.
func (p *Progression) StageProgress() float64 {
	if p.Last() <= 0 {
		return 1
	}
	return float64(p.stage) / float64(p.Last())
}

// nextThreshold returns the destroyed-letter count of the next crossing.
func (p *Progression) nextThreshold() int {
	if p.stage < p.Last() {
		return p.stages[p.stage].Threshold
	}
	step := max(1, p.speed.FinalStageStep)
	return p.stages[p.Last()].Threshold + p.tighten*step
}

// RecordDestroyed counts one destroyed letter and reports whether the stage
// index advanced.
func (p *Progression) RecordDestroyed() bool {
	p.letters++
	if p.held || p.letters < p.nextThreshold() {
		return false
	}
	if p.stage < p.Last() {
		return p.AdvanceFrom(p.stage)
	}
	p.tighten++
	p.logger.Debug("final stage tightened", "letters", p.letters, "tighten", p.tighten)
	return false
}

// AdvanceFrom advances past stage exactly once. Signals for a stage that is
// no longer current, or that was already advanced from, are ignored.
// On the final stage the first signal tightens speeds instead.
func (p *Progression) AdvanceFrom(stage int) bool {
	if stage != p.stage || p.consumed[stage] {
		p.logger.Debug("duplicate stage advance ignored", "from", stage, "current", p.stage)
		return false
	}
	p.consumed[stage] = true
	if p.stage >= p.Last() {
		p.tighten++
		return false
	}
	p.stage++
	p.logger.Info("stage advanced", "stage", p.stage, "name", p.stages[p.stage].Name, "letters", p.letters)
	return true
}
