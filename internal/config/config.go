// Package config provides YAML-based game configuration loading and
// difficulty management for keyfall.
package config

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// KeyfallConfig contains all tunables for the keyfall simulation.
type KeyfallConfig struct {
	Playfield  PlayfieldConfig  `yaml:"playfield"`
	Ship       ShipConfig       `yaml:"ship"`
	Letters    LetterConfig     `yaml:"letters"`
	Speed      SpeedConfig      `yaml:"speed"`
	Meteorites MeteoriteConfig  `yaml:"meteorites"`
	ForceField ForceFieldConfig `yaml:"force_field"`
	Combo      ComboConfig      `yaml:"combo"`
	Penalty    PenaltyConfig    `yaml:"penalty"`
	Boss       BossConfig       `yaml:"boss"`
	Effects    EffectsConfig    `yaml:"effects"`
	Stages     []StageConfig    `yaml:"stages"`
	Layout     LayoutConfig     `yaml:"layout"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// PlayfieldConfig defines the logical playfield geometry.
type PlayfieldConfig struct {
	Width           float64 `yaml:"width"`
	Height          float64 `yaml:"height"`
	SpawnLine       float64 `yaml:"spawn_line"`       // Fraction of height where letters appear
	TurnaroundLine  float64 `yaml:"turnaround_line"`  // Fraction of height where letters start rising
	SideMargin      float64 `yaml:"side_margin"`      // Horizontal inset for target columns
	OffscreenMargin float64 `yaml:"offscreen_margin"` // Cull distance outside the playfield
}

// ShipConfig defines the player ship.
type ShipConfig struct {
	Lives        int     `yaml:"lives"`
	Radius       float64 `yaml:"radius"`
	Line         float64 `yaml:"line"`          // Default ship Y as a fraction of height
	WarningRange float64 `yaml:"warning_range"` // Proximity warning distance from ship center
}

// LetterConfig defines falling letter geometry and the spawn cap.
type LetterConfig struct {
	Radius        float64 `yaml:"radius"`
	LaneWidth     float64 `yaml:"lane_width"`     // Min horizontal distance between targets
	MaxOnScreen   int     `yaml:"max_on_screen"`  // Hard entity cap
	MinScale      float64 `yaml:"min_scale"`      // Visual scale at spawn
	ApproachScale float64 `yaml:"approach_scale"` // Visual scale at the turnaround line
	SpawnPull     float64 `yaml:"spawn_pull"`     // How far from center toward target the spawn point sits
	DangerLine    float64 `yaml:"danger_line"`    // Rising letters above this fraction raise a warning
}

// SpeedConfig defines the stage-driven speed curve.
type SpeedConfig struct {
	BaseSpawnMs          int     `yaml:"base_spawn_ms"`
	MinSpawnMs           int     `yaml:"min_spawn_ms"`
	SpawnStepMs          int     `yaml:"spawn_step_ms"`
	BaseLetterSpeed      float64 `yaml:"base_letter_speed"` // Units per second
	LetterSpeedIncrement float64 `yaml:"letter_speed_increment"`
	FinalStageStep       int     `yaml:"final_stage_step"` // Letters per extra tightening after the last threshold
}

// MeteoriteConfig defines meteorite spawning.
type MeteoriteConfig struct {
	FromStage     int     `yaml:"from_stage"`
	Radius        float64 `yaml:"radius"`
	Speed         float64 `yaml:"speed"`
	BaseInterval  int     `yaml:"base_interval_ms"`
	MinInterval   int     `yaml:"min_interval_ms"`
	BaseChance    float64 `yaml:"base_chance"`
	MaxChance     float64 `yaml:"max_chance"`
	MaxOnScreen   int     `yaml:"max_on_screen"`
	SpawnHeadroom float64 `yaml:"spawn_headroom"` // Distance above the top edge where meteorites appear
}

// ForceFieldConfig defines the ship's force field.
type ForceFieldConfig struct {
	Radius     float64 `yaml:"radius"`
	DurationMs int     `yaml:"duration_ms"`
}

// ComboTier maps a minimum combo count to a score multiplier.
type ComboTier struct {
	Min        int     `yaml:"min"`
	Multiplier float64 `yaml:"multiplier"`
}

// BonusTier maps a minimum sequential-hit run to a flat bonus.
type BonusTier struct {
	Min   int `yaml:"min"`
	Bonus int `yaml:"bonus"`
}

// ComboConfig defines the scoring rules.
type ComboConfig struct {
	WindowMs    int         `yaml:"window_ms"`
	BasePoints  int         `yaml:"base_points"`
	Multipliers []ComboTier `yaml:"multipliers"`
	Sequential  []BonusTier `yaml:"sequential"`
}

// PenaltyConfig defines the wrong-key and life-lost countdowns.
type PenaltyConfig struct {
	Steps  int `yaml:"steps"`
	StepMs int `yaml:"step_ms"`
}

// BossConfig defines the boss encounter.
type BossConfig struct {
	Enabled           bool    `yaml:"enabled"`
	MinLetterSegments int     `yaml:"min_letter_segments"`
	MaxLetterSegments int     `yaml:"max_letter_segments"`
	TailLength        int     `yaml:"tail_length"`
	SegmentSpacing    int     `yaml:"segment_spacing"` // Trail ticks between body segments
	HeadRadius        float64 `yaml:"head_radius"`
	BodyRadius        float64 `yaml:"body_radius"`
	TailMinRadius     float64 `yaml:"tail_min_radius"`
	EntrySpeed        float64 `yaml:"entry_speed"`
	HoverLine         float64 `yaml:"hover_line"`
	DescentSpeed      float64 `yaml:"descent_speed"`
	Amplitude         float64 `yaml:"amplitude"`      // Fraction of width at phase 1
	AmplitudeStep     float64 `yaml:"amplitude_step"` // Added per phase
	AngularSpeed      float64 `yaml:"angular_speed"`  // Radians per second at phase 1
	AngularStep       float64 `yaml:"angular_step"`
	ZigzagFactor      float64 `yaml:"zigzag_factor"`
	DashSpeed         float64 `yaml:"dash_speed"`
	IdleDwellMs       int     `yaml:"idle_dwell_ms"`
	PatternDwellMs    int     `yaml:"pattern_dwell_ms"`
	DwellShrink       float64 `yaml:"dwell_shrink"` // Fraction removed per phase above 1
	ShotIntervalMs    int     `yaml:"shot_interval_ms"`
	ShotsPerBurst     int     `yaml:"shots_per_burst"`
	ProjectileSpeed   float64 `yaml:"projectile_speed"`
	ProjectileRadius  float64 `yaml:"projectile_radius"`
	RetreatRate       float64 `yaml:"retreat_rate"`
	RespawnDelayMs    int     `yaml:"respawn_delay_ms"`
	SegmentScore      int     `yaml:"segment_score"`
	DefeatBonus       int     `yaml:"defeat_bonus"`
	ExplosionStepMs   int     `yaml:"explosion_step_ms"`
	MassiveDelayMs    int     `yaml:"massive_delay_ms"`
}

// EffectsConfig defines lifetimes of transient visual entities.
type EffectsConfig struct {
	ExplosionMs  int     `yaml:"explosion_ms"`
	ComboTextMs  int     `yaml:"combo_text_ms"`
	WreckMs      int     `yaml:"wreck_ms"`
	WreckGravity float64 `yaml:"wreck_gravity"`
}

// StageConfig is one row of the stage table.
type StageConfig struct {
	Name      string `yaml:"name"`
	Letters   string `yaml:"letters"`
	Threshold int    `yaml:"threshold"` // Cumulative letters destroyed to clear the stage
	Boss      bool   `yaml:"boss"`      // Boss encounter on entering this stage
}

// Pool returns the stage letters as lowercase runes with duplicates removed.
func (s StageConfig) Pool() []rune {
	seen := make(map[rune]bool)
	pool := make([]rune, 0, len(s.Letters))
	for _, r := range strings.ToLower(s.Letters) {
		if r == ' ' || seen[r] {
			continue
		}
		seen[r] = true
		pool = append(pool, r)
	}
	return pool
}

// LearnedLetters returns every distinct letter introduced by stages 0..index,
// in order of first appearance.
func LearnedLetters(stages []StageConfig, index int) []rune {
	seen := make(map[rune]bool)
	var learned []rune
	for i := 0; i <= index && i < len(stages); i++ {
		for _, r := range stages[i].Pool() {
			if !seen[r] {
				seen[r] = true
				learned = append(learned, r)
			}
		}
	}
	return learned
}

// LayoutConfig is the keyboard map used to place letter target columns.
type LayoutConfig struct {
	Rows       []string `yaml:"rows"`        // Top row first
	RowStagger float64  `yaml:"row_stagger"` // Horizontal shift per row, in keys
}

// Position returns the row and column of a character in the layout.
func (l LayoutConfig) Position(r rune) (row, col int, ok bool) {
	r = unicode.ToLower(r)
	for i, keys := range l.Rows {
		j := 0
		for _, k := range keys {
			if k == r {
				return i, j, true
			}
			j++
		}
	}
	return 0, 0, false
}

// Span returns the widest row measured in keys, stagger included.
func (l LayoutConfig) Span() float64 {
	span := 0.0
	for i, keys := range l.Rows {
		w := float64(utf8.RuneCountInString(keys)) + float64(i)*l.RowStagger
		span = max(span, w)
	}
	return span
}

// DifficultyConfig defines the meteorite difficulty curve.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
}

// ProgressionConfig defines how difficulty increases over a run.
type ProgressionConfig struct {
	Type        string  `yaml:"type"`         // "score", "stage", "blend", or "none"
	MaxAt       int     `yaml:"max_at"`       // Score at which the score curve saturates
	StageWeight float64 `yaml:"stage_weight"` // Share of stage progress in "blend"
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// Presets lists the accepted preset names.
var Presets = []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ParsePreset validates a preset name. Empty means normal.
func ParsePreset(name string) (DifficultyPreset, error) {
	if name == "" {
		return DifficultyNormal, nil
	}
	p := DifficultyPreset(strings.ToLower(name))
	for _, known := range Presets {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("config: unknown difficulty %q (use easy, normal, hard or fixed)", name)
}

// Duration converts a millisecond field to a time.Duration.
func Duration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
