package config

import (
	_ "embed"
)

//go:embed defaults/keyfall.yaml
var defaultKeyfallYAML []byte

// DefaultKeyfallConfig returns the default keyfall configuration.
// It mirrors defaults/keyfall.yaml and is used when the embedded file cannot be parsed.
func DefaultKeyfallConfig() KeyfallConfig {
	return KeyfallConfig{
		Playfield: PlayfieldConfig{
			Width:           800,
			Height:          600,
			SpawnLine:       0.1,
			TurnaroundLine:  0.55,
			SideMargin:      40,
			OffscreenMargin: 100,
		},
		Ship: ShipConfig{
			Lives:        3,
			Radius:       30,
			Line:         0.85,
			WarningRange: 150,
		},
		Letters: LetterConfig{
			Radius:        18,
			LaneWidth:     40,
			MaxOnScreen:   12,
			MinScale:      0.1,
			ApproachScale: 0.7,
			SpawnPull:     0.3,
			DangerLine:    0.2,
		},
		Speed: SpeedConfig{
			BaseSpawnMs:          2000,
			MinSpawnMs:           600,
			SpawnStepMs:          150,
			BaseLetterSpeed:      40,
			LetterSpeedIncrement: 6,
			FinalStageStep:       25,
		},
		Meteorites: MeteoriteConfig{
			FromStage:     2,
			Radius:        14,
			Speed:         120,
			BaseInterval:  4000,
			MinInterval:   1500,
			BaseChance:    0.3,
			MaxChance:     0.8,
			MaxOnScreen:   4,
			SpawnHeadroom: 30,
		},
		ForceField: ForceFieldConfig{
			Radius:     80,
			DurationMs: 1000,
		},
		Combo: ComboConfig{
			WindowMs:   1200,
			BasePoints: 10,
			Multipliers: []ComboTier{
				{Min: 15, Multiplier: 4.0},
				{Min: 10, Multiplier: 3.0},
				{Min: 6, Multiplier: 2.5},
				{Min: 3, Multiplier: 2.0},
				{Min: 2, Multiplier: 1.5},
			},
			Sequential: []BonusTier{
				{Min: 5, Bonus: 50},
				{Min: 3, Bonus: 20},
				{Min: 2, Bonus: 10},
			},
		},
		Penalty: PenaltyConfig{
			Steps:  3,
			StepMs: 1000,
		},
		Boss: BossConfig{
			Enabled:           true,
			MinLetterSegments: 4,
			MaxLetterSegments: 12,
			TailLength:        6,
			SegmentSpacing:    6,
			HeadRadius:        26,
			BodyRadius:        16,
			TailMinRadius:     6,
			EntrySpeed:        120,
			HoverLine:         0.15,
			DescentSpeed:      4,
			Amplitude:         0.25,
			AmplitudeStep:     0.05,
			AngularSpeed:      1.2,
			AngularStep:       0.4,
			ZigzagFactor:      2.5,
			DashSpeed:         220,
			IdleDwellMs:       2500,
			PatternDwellMs:    3000,
			DwellShrink:       0.2,
			ShotIntervalMs:    400,
			ShotsPerBurst:     3,
			ProjectileSpeed:   200,
			ProjectileRadius:  6,
			RetreatRate:       3,
			RespawnDelayMs:    1500,
			SegmentScore:      25,
			DefeatBonus:       500,
			ExplosionStepMs:   80,
			MassiveDelayMs:    400,
		},
		Effects: EffectsConfig{
			ExplosionMs:  600,
			ComboTextMs:  900,
			WreckMs:      1500,
			WreckGravity: 300,
		},
		Stages: []StageConfig{
			{Name: "Index Fingers", Letters: "fj", Threshold: 15},
			{Name: "Middle Fingers", Letters: "fjdk", Threshold: 35},
			{Name: "Ring Fingers", Letters: "fjdksl", Threshold: 60},
			{Name: "Home Row Guardian", Letters: "asdfjkl", Threshold: 75, Boss: true},
			{Name: "Top Row", Letters: "qwertyuiop", Threshold: 110},
			{Name: "Bottom Row", Letters: "zxcvbnm", Threshold: 145},
			{Name: "Mixed Rows", Letters: "qwertyuiopasdfghjklzxcvbnm", Threshold: 190},
			{Name: "Keyboard Warden", Letters: "qwertyuiopasdfghjklzxcvbnm", Threshold: 240, Boss: true},
		},
		Layout: LayoutConfig{
			Rows:       []string{"qwertyuiop", "asdfghjkl", "zxcvbnm"},
			RowStagger: 0.5,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:        "blend",
				MaxAt:       3000,
				StageWeight: 0.6,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultKeyfallYAML
}
