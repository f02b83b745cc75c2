package config

import "testing"

func TestDifficultyLevel(t *testing.T) {
	tests := []struct {
		name          string
		cfg           DifficultyConfig
		score         int
		stageProgress float64
		expected      float64
	}{
		{
			name:     "disabled returns initial",
			cfg:      DifficultyConfig{Enabled: false, InitialLevel: 0.3},
			score:    5000,
			expected: 0.3,
		},
		{
			name:     "score halfway",
			cfg:      DifficultyConfig{Enabled: true, Progression: ProgressionConfig{Type: "score", MaxAt: 1000}},
			score:    500,
			expected: 0.5,
		},
		{
			name:     "score saturates",
			cfg:      DifficultyConfig{Enabled: true, Progression: ProgressionConfig{Type: "score", MaxAt: 1000}},
			score:    4000,
			expected: 1.0,
		},
		{
			name:          "stage only",
			cfg:           DifficultyConfig{Enabled: true, Progression: ProgressionConfig{Type: "stage"}},
			stageProgress: 0.25,
			expected:      0.25,
		},
		{
			name:          "blend",
			cfg:           DifficultyConfig{Enabled: true, Progression: ProgressionConfig{Type: "blend", MaxAt: 100, StageWeight: 0.5}},
			score:         100,
			stageProgress: 0,
			expected:      0.5,
		},
		{
			name:     "none returns initial",
			cfg:      DifficultyConfig{Enabled: true, InitialLevel: 0.7, Progression: ProgressionConfig{Type: "none"}},
			score:    1000,
			expected: 0.7,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDifficultyManager(tc.cfg)
			got := d.Level(tc.score, tc.stageProgress)
			if got != tc.expected {
				t.Errorf("Level() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestDifficultyIntervalAndChanceClamp(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "stage"},
	})

	if got := d.Interval(4000, 1500, 0, 0); got != 4000 {
		t.Errorf("Interval(level 0) = %d, expected 4000", got)
	}
	if got := d.Interval(4000, 1500, 0, 1); got != 1500 {
		t.Errorf("Interval(level 1) = %d, expected 1500", got)
	}
	if got := d.Interval(4000, 1500, 0, 5); got != 1500 {
		t.Errorf("Interval(beyond max) = %d, expected floor 1500", got)
	}

	if got := d.Chance(0.3, 0.8, 0, 0); got != 0.3 {
		t.Errorf("Chance(level 0) = %v, expected 0.3", got)
	}
	if got := d.Chance(0.3, 0.8, 0, 1); got != 0.8 {
		t.Errorf("Chance(level 1) = %v, expected 0.8", got)
	}

	// Interval shrinks and chance grows monotonically
	prevInterval, prevChance := 1<<30, -1.0
	for p := 0.0; p <= 1.0; p += 0.1 {
		iv := d.Interval(4000, 1500, 0, p)
		ch := d.Chance(0.3, 0.8, 0, p)
		if iv > prevInterval {
			t.Errorf("Interval grew at progress %v: %d > %d", p, iv, prevInterval)
		}
		if ch < prevChance {
			t.Errorf("Chance shrank at progress %v: %v < %v", p, ch, prevChance)
		}
		prevInterval, prevChance = iv, ch
	}
}
