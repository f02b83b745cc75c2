package engine

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/keyfall/internal/config"
)

func testStages() []config.StageConfig {
	return []config.StageConfig{
		{Name: "One", Letters: "fj", Threshold: 50},
		{Name: "Two", Letters: "fjdk", Threshold: 150},
		{Name: "Three", Letters: "fjdksl", Threshold: 300},
	}
}

func testProgression() *Progression {
	speed := config.DefaultKeyfallConfig().Speed
	return NewProgression(testStages(), speed, log.New(io.Discard))
}

func TestStageAdvanceBoundary(t *testing.T) {
	p := testProgression()

	for i := 1; i <= 49; i++ {
		if p.RecordDestroyed() {
			t.Fatalf("RecordDestroyed() advanced at letter %d, expected no advance before 50", i)
		}
	}
	if p.Stage() != 0 {
		t.Fatalf("Stage() = %d after 49 letters, expected 0", p.Stage())
	}

	if !p.RecordDestroyed() {
		t.Fatal("RecordDestroyed() should advance on the 50th letter")
	}
	if p.Stage() != 1 {
		t.Errorf("Stage() = %d, expected 1", p.Stage())
	}

	advances := 0
	for i := 51; i < 150; i++ {
		if p.RecordDestroyed() {
			advances++
		}
	}
	if advances != 0 || p.Stage() != 1 {
		t.Errorf("advanced %d times before 150, stage %d, expected 0 and 1", advances, p.Stage())
	}
}

func TestAdvanceFromIsIdempotent(t *testing.T) {
	p := testProgression()

	if !p.AdvanceFrom(0) {
		t.Fatal("AdvanceFrom(0) should advance")
	}
	if p.AdvanceFrom(0) {
		t.Error("second AdvanceFrom(0) should be ignored")
	}
	if p.Stage() != 1 {
		t.Errorf("Stage() = %d, expected 1", p.Stage())
	}
}

func TestSpeedCurve(t *testing.T) {
	p := testProgression()

	if got := p.GameSpeed(); got != 2000*time.Millisecond {
		t.Errorf("GameSpeed() at stage 0 = %v, expected 2s", got)
	}
	if got := p.LetterSpeed(); got != 40 {
		t.Errorf("LetterSpeed() at stage 0 = %v, expected 40", got)
	}

	p.AdvanceFrom(0)
	if got := p.GameSpeed(); got != 1850*time.Millisecond {
		t.Errorf("GameSpeed() at stage 1 = %v, expected 1.85s", got)
	}
	if got := p.LetterSpeed(); got != 46 {
		t.Errorf("LetterSpeed() at stage 1 = %v, expected 46", got)
	}

	// The floor holds no matter how far the level climbs.
	p.tighten = 100
	if got := p.GameSpeed(); got != 600*time.Millisecond {
		t.Errorf("GameSpeed() at high level = %v, expected floor 600ms", got)
	}
}

func TestFinalStageTightens(t *testing.T) {
	p := testProgression()
	p.SetStage(2)
	p.letters = 299

	if p.RecordDestroyed() {
		t.Error("final stage crossing should not advance the stage index")
	}
	if p.Stage() != 2 || p.Level() != 3 {
		t.Errorf("Stage()=%d Level()=%d, expected 2 and 3", p.Stage(), p.Level())
	}

	// Next crossing lands final_stage_step letters later.
	step := config.DefaultKeyfallConfig().Speed.FinalStageStep
	for i := 0; i < step-1; i++ {
		p.RecordDestroyed()
	}
	if p.Level() != 3 {
		t.Errorf("Level() = %d before the next crossing, expected 3", p.Level())
	}
	p.RecordDestroyed()
	if p.Level() != 4 {
		t.Errorf("Level() = %d after the next crossing, expected 4", p.Level())
	}
}

func TestInvalidStageIndexClamps(t *testing.T) {
	p := testProgression()

	p.SetStage(99)
	if p.Stage() != 2 {
		t.Errorf("SetStage(99) -> Stage() = %d, expected 2", p.Stage())
	}
	if p.Current().Name != "Three" {
		t.Errorf("Current().Name = %q, expected Three", p.Current().Name)
	}

	p.SetStage(-4)
	if p.Stage() != 0 {
		t.Errorf("SetStage(-4) -> Stage() = %d, expected 0", p.Stage())
	}
}

func TestHeldProgressionDoesNotAdvance(t *testing.T) {
	p := testProgression()
	p.Hold(true)
	for i := 0; i < 60; i++ {
		if p.RecordDestroyed() {
			t.Fatal("held progression should not advance")
		}
	}
	if p.Letters() != 60 {
		t.Errorf("Letters() = %d, expected 60", p.Letters())
	}

	p.Hold(false)
	if !p.RecordDestroyed() {
		t.Error("released progression should advance on the next letter")
	}
}
