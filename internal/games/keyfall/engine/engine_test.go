package engine

import (
	"testing"
	"time"

	"github.com/vovakirdan/keyfall/internal/config"
	"github.com/vovakirdan/keyfall/internal/core"
)

const testDt = time.Second / 60

func frame(e *Engine) Frame {
	return Frame{Dt: testDt, Ship: e.DefaultShip()}
}

func eventsOf[T Event](events []Event) []T {
	var out []T
	for _, ev := range events {
		if t, ok := ev.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

// quietConfig never spawns letters or meteorites on its own.
func quietConfig() config.KeyfallConfig {
	cfg := config.DefaultKeyfallConfig()
	cfg.Speed.BaseSpawnMs = 1_000_000_000
	cfg.Speed.MinSpawnMs = 1_000_000_000
	cfg.Meteorites.FromStage = 99
	return cfg
}

func quietEngine(cfg config.KeyfallConfig) *Engine {
	e := New(cfg, Options{Seed: 1})
	e.store.spawnedLetter = true
	return e
}

func addLetter(e *Engine, char rune, spawnedAt time.Duration) {
	start := core.Vec{X: 400, Y: 60}
	e.store.Letters = append(e.store.Letters, Letter{
		ID:        e.store.newID(),
		Char:      char,
		Pos:       start,
		Start:     start,
		Target:    core.Vec{X: 400, Y: 330},
		Speed:     40,
		Phase:     PhaseApproaching,
		Scale:     0.1,
		SpawnedAt: spawnedAt,
	})
}

func addEscapingLetter(e *Engine, char rune) {
	e.store.Letters = append(e.store.Letters, Letter{
		ID:     e.store.newID(),
		Char:   char,
		Pos:    core.Vec{X: 400, Y: 0.1},
		Target: core.Vec{X: 400, Y: 330},
		Speed:  40,
		Phase:  PhaseRising,
		Scale:  1,
	})
}

func TestForceFieldAbsorbsMeteorite(t *testing.T) {
	e := quietEngine(quietConfig())
	e.store.Meteorites = append(e.store.Meteorites, Body{ID: 99, Pos: core.Vec{X: 400, Y: 417}, Radius: 14})

	e.Push(SpacePressed())
	res := e.Step(frame(e))

	if len(eventsOf[MeteoriteHitEvent](res.Events)) != 1 {
		t.Errorf("MeteoriteHit events = %d, expected 1", len(eventsOf[MeteoriteHitEvent](res.Events)))
	}
	if len(eventsOf[ForceFieldHitEvent](res.Events)) != 1 {
		t.Error("expected a ForceFieldHit event")
	}
	if e.Lives() != 3 {
		t.Errorf("Lives() = %d, expected 3", e.Lives())
	}
	if len(e.store.Meteorites) != 0 {
		t.Error("meteorite survived the force field")
	}
}

func TestMeteoriteDestroysShip(t *testing.T) {
	e := quietEngine(quietConfig())
	addLetter(e, 'f', 0)
	e.store.Meteorites = append(e.store.Meteorites, Body{ID: 99, Pos: core.Vec{X: 400, Y: 500}, Radius: 14})

	res := e.Step(frame(e))

	destroyed := eventsOf[ShipDestroyedEvent](res.Events)
	if len(destroyed) != 1 || destroyed[0].Reason != DestroyedByMeteorite {
		t.Fatalf("ShipDestroyed events = %+v, expected one by meteorite", destroyed)
	}
	if e.Lives() != 2 {
		t.Errorf("Lives() = %d, expected 2", e.Lives())
	}
	if len(e.store.Letters) != 0 || len(e.store.Meteorites) != 0 {
		t.Error("playfield not wiped after the crash")
	}
	ticks := eventsOf[CountdownTickedEvent](res.Events)
	if len(ticks) == 0 || ticks[0] != (CountdownTickedEvent{Mode: ModeLifeLost, Remaining: 3}) {
		t.Errorf("countdown events = %+v, expected LifeLost from 3", ticks)
	}

	for i := 0; i < 200; i++ {
		e.Step(frame(e))
	}
	if snap := e.Snapshot(); snap.Mode != ModeNormal {
		t.Errorf("Mode = %v after the countdown, expected Normal", snap.Mode)
	}
}

func TestComboScoring(t *testing.T) {
	e := quietEngine(quietConfig())
	addLetter(e, 'a', 0)
	addLetter(e, 's', time.Millisecond)
	addLetter(e, 'd', 2*time.Millisecond)

	expectedPoints := []int{10, 25, 40}
	var last StepResult
	for i, r := range "asd" {
		e.Push(KeyPressed(r))
		last = e.Step(frame(e))
		hits := eventsOf[LetterHitEvent](last.Events)
		if len(hits) != 1 || hits[0].Points != expectedPoints[i] {
			t.Fatalf("hit %q = %+v, expected %d points", r, hits, expectedPoints[i])
		}
	}

	combos := eventsOf[ComboEvent](last.Events)
	if len(combos) != 1 || combos[0] != (ComboEvent{Count: 3, Multiplier: 2.0}) {
		t.Errorf("ComboEvent = %+v, expected {3 2}", combos)
	}
	bonuses := eventsOf[SequentialBonusEvent](last.Events)
	if len(bonuses) != 1 || bonuses[0].Amount != 20 {
		t.Errorf("SequentialBonusEvent = %+v, expected 20", bonuses)
	}
	if e.Score() != 75 {
		t.Errorf("Score() = %d, expected 75", e.Score())
	}
	if e.BestCombo() != 3 {
		t.Errorf("BestCombo() = %d, expected 3", e.BestCombo())
	}
}

func TestOldestMatchingLetterIsHit(t *testing.T) {
	e := quietEngine(quietConfig())
	addLetter(e, 'f', 5*time.Millisecond)
	addLetter(e, 'f', time.Millisecond)

	e.Push(KeyPressed('F'))
	e.Step(frame(e))

	if len(e.store.Letters) != 1 || e.store.Letters[0].SpawnedAt != 5*time.Millisecond {
		t.Errorf("remaining letters = %+v, expected the younger f", e.store.Letters)
	}
}

func TestMissPenalizesAndSkip(t *testing.T) {
	e := quietEngine(quietConfig())
	addLetter(e, 'f', 0)

	e.Push(KeyPressed('z'))
	res := e.Step(frame(e))
	if len(eventsOf[LetterMissedEvent](res.Events)) != 1 || len(eventsOf[WrongKeyEvent](res.Events)) != 1 {
		t.Fatalf("events = %+v, expected a miss and a wrong key", res.Events)
	}
	if snap := e.Snapshot(); snap.Mode != ModePenalized || snap.Countdown != 3 {
		t.Fatalf("Mode = %v/%d, expected Penalized/3", snap.Mode, snap.Countdown)
	}

	// Keys are ignored while frozen.
	e.Push(KeyPressed('f'))
	res = e.Step(frame(e))
	if len(eventsOf[LetterHitEvent](res.Events)) != 0 {
		t.Error("letter hit while penalized")
	}

	e.Push(SkipPenalty())
	res = e.Step(frame(e))
	ticks := eventsOf[CountdownTickedEvent](res.Events)
	if len(ticks) != 1 || ticks[0].Mode != ModeNormal {
		t.Errorf("skip events = %+v, expected a Normal countdown event", ticks)
	}
	if e.Snapshot().Mode != ModeNormal {
		t.Error("countdown still running after skip")
	}
}

func TestLetterEscapeCostsLife(t *testing.T) {
	t.Run("single", func(t *testing.T) {
		e := quietEngine(quietConfig())
		addEscapingLetter(e, 'f')
		res := e.Step(frame(e))

		if len(eventsOf[LetterEscapedEvent](res.Events)) != 1 {
			t.Error("expected a LetterEscaped event")
		}
		if e.Lives() != 2 || e.Snapshot().Mode != ModeLifeLost {
			t.Errorf("Lives() = %d, Mode = %v; expected 2, LifeLost", e.Lives(), e.Snapshot().Mode)
		}
	})

	t.Run("two at once", func(t *testing.T) {
		e := quietEngine(quietConfig())
		addEscapingLetter(e, 'f')
		addEscapingLetter(e, 'j')
		e.Step(frame(e))

		if e.Lives() != 1 {
			t.Errorf("Lives() = %d, expected 1", e.Lives())
		}
	})

	t.Run("game over", func(t *testing.T) {
		e := quietEngine(quietConfig())
		e.lives = 1
		addEscapingLetter(e, 'f')

		overs := 0
		for i := 0; i < 30; i++ {
			res := e.Step(frame(e))
			overs += len(eventsOf[GameOverEvent](res.Events))
		}
		if overs != 1 {
			t.Errorf("GameOver events = %d, expected 1", overs)
		}
		if !e.GameOver() || e.Lives() != 0 {
			t.Errorf("GameOver() = %v, Lives() = %d; expected true, 0", e.GameOver(), e.Lives())
		}

		e.SetPaused(true)
		if e.Paused() {
			t.Error("SetPaused() took effect after game over")
		}
	})
}

func TestStageAdvanceOnThreshold(t *testing.T) {
	e := quietEngine(quietConfig())
	e.progression.letters = 14
	addLetter(e, 'f', 0)

	e.Push(KeyPressed('f'))
	res := e.Step(frame(e))

	advanced := eventsOf[StageAdvancedEvent](res.Events)
	if len(advanced) != 1 || advanced[0] != (StageAdvancedEvent{Stage: 1, Name: "Middle Fingers"}) {
		t.Errorf("StageAdvanced = %+v, expected stage 1", advanced)
	}
	if stage, _ := e.Stage(); stage != 1 {
		t.Errorf("Stage() = %d, expected 1", stage)
	}
}

func bossConfig() config.KeyfallConfig {
	cfg := quietConfig()
	cfg.Boss.Enabled = true
	cfg.Stages = []config.StageConfig{
		{Name: "Warmup", Letters: "fj", Threshold: 10},
		{Name: "Guardian", Letters: "fjdk", Threshold: 20, Boss: true},
		{Name: "After", Letters: "fjdksl", Threshold: 30},
	}
	return cfg
}

func TestBossDefeatAdvancesOnce(t *testing.T) {
	e := quietEngine(bossConfig())
	e.SetStage(1)

	res := e.Step(frame(e))
	spawned := eventsOf[BossSpawnedEvent](res.Events)
	if len(spawned) != 1 || spawned[0].Segments != 19 || spawned[0].Letters != 4 {
		t.Fatalf("BossSpawned = %+v, expected 19 segments with 4 letters", spawned)
	}

	var all []Event
	for _, r := range "fjdk" {
		e.Push(KeyPressed(r))
		all = append(all, e.Step(frame(e)).Events...)
	}
	if len(eventsOf[SegmentAbsorbedEvent](all)) != 4 {
		t.Errorf("SegmentAbsorbed events = %d, expected 4", len(eventsOf[SegmentAbsorbedEvent](all)))
	}
	if e.Score() != 600 {
		t.Errorf("Score() = %d, expected 600", e.Score())
	}

	for i := 0; i < 200; i++ {
		all = append(all, e.Step(frame(e)).Events...)
	}
	if n := len(eventsOf[SegmentExplodedEvent](all)); n != 19 {
		t.Errorf("SegmentExploded events = %d, expected 19", n)
	}
	if n := len(eventsOf[MassiveExplosionEvent](all)); n != 1 {
		t.Errorf("MassiveExplosion events = %d, expected 1", n)
	}
	advanced := eventsOf[StageAdvancedEvent](all)
	if len(advanced) != 1 || advanced[0].Stage != 2 {
		t.Errorf("StageAdvanced = %+v, expected exactly one to stage 2", advanced)
	}
	if e.boss.State != BossInactive || !e.boss.Defeated(1) {
		t.Errorf("boss State = %v, expected inactive and defeated", e.boss.State)
	}
}

func TestBossHoldsStageThreshold(t *testing.T) {
	e := quietEngine(bossConfig())
	e.SetStage(1)
	e.Step(frame(e))

	e.progression.letters = 50
	addLetter(e, 'f', 0)
	e.Push(KeyPressed('f'))
	res := e.Step(frame(e))

	if len(eventsOf[StageAdvancedEvent](res.Events)) != 0 {
		t.Error("stage advanced past an undefeated boss")
	}
}

func TestBossHeadCollision(t *testing.T) {
	e := quietEngine(bossConfig())
	e.SetStage(1)
	e.Step(frame(e))

	res := e.Step(Frame{Dt: testDt, Ship: e.boss.Head()})
	destroyed := eventsOf[ShipDestroyedEvent](res.Events)
	if len(destroyed) != 1 || destroyed[0].Reason != DestroyedByBoss {
		t.Fatalf("ShipDestroyed = %+v, expected one by the boss", destroyed)
	}
	if e.boss.State != BossVictory {
		t.Fatalf("boss State = %v, expected Victory", e.boss.State)
	}

	for i := 0; i < 150; i++ {
		e.Step(frame(e))
	}
	if !e.countdown.Frozen() {
		t.Fatal("countdown ended before the retreat check")
	}
	if e.boss.State != BossActive {
		t.Errorf("boss State = %v while frozen, expected the retreat to finish", e.boss.State)
	}
}

func TestPauseFreezesRun(t *testing.T) {
	e := quietEngine(quietConfig())
	addLetter(e, 'f', 0)

	e.Push(TogglePause())
	res := e.Step(frame(e))
	if p := eventsOf[PausedEvent](res.Events); len(p) != 1 || !p[0].Paused {
		t.Fatalf("PausedEvent = %+v, expected paused", p)
	}

	before := e.store.Letters[0].Pos
	for i := 0; i < 30; i++ {
		e.Push(KeyPressed('f'))
		e.Step(frame(e))
	}
	if e.Now() != 0 {
		t.Errorf("Now() = %v while paused, expected 0", e.Now())
	}
	if len(e.store.Letters) != 1 || e.store.Letters[0].Pos != before {
		t.Error("letters changed while paused")
	}

	e.SetPaused(false)
	e.Step(frame(e))
	if e.Now() != testDt {
		t.Errorf("Now() = %v after resume, expected %v", e.Now(), testDt)
	}
}

func TestProjectiles(t *testing.T) {
	t.Run("absorbed by field", func(t *testing.T) {
		e := quietEngine(quietConfig())
		e.store.AddProjectile(e.DefaultShip(), core.Vec{}, 6)
		e.Push(SpacePressed())
		res := e.Step(frame(e))

		if len(eventsOf[ForceFieldHitEvent](res.Events)) != 1 {
			t.Error("expected a ForceFieldHit event")
		}
		if e.Snapshot().Mode != ModeNormal {
			t.Error("blocked projectile penalized the player")
		}
	})

	t.Run("hits ship", func(t *testing.T) {
		e := quietEngine(quietConfig())
		e.store.AddProjectile(e.DefaultShip(), core.Vec{}, 6)
		res := e.Step(frame(e))

		if len(eventsOf[WrongKeyEvent](res.Events)) != 1 {
			t.Error("expected a WrongKey event")
		}
		if e.Snapshot().Mode != ModePenalized || e.Lives() != 3 {
			t.Errorf("Mode = %v, Lives() = %d; expected Penalized with 3 lives", e.Snapshot().Mode, e.Lives())
		}
	})
}

func TestProximityWarning(t *testing.T) {
	e := quietEngine(quietConfig())
	e.store.Meteorites = append(e.store.Meteorites, Body{ID: 99, Pos: core.Vec{X: 400, Y: 400}, Radius: 14})

	res := e.Step(frame(e))
	if w := eventsOf[ProximityWarningEvent](res.Events); len(w) != 1 || !w[0].Active {
		t.Fatalf("warning events = %+v, expected active", w)
	}
	res = e.Step(frame(e))
	if len(eventsOf[ProximityWarningEvent](res.Events)) != 0 {
		t.Error("warning re-sent without a change")
	}

	e.store.Meteorites = nil
	res = e.Step(frame(e))
	if w := eventsOf[ProximityWarningEvent](res.Events); len(w) != 1 || w[0].Active {
		t.Errorf("warning events = %+v, expected cleared", w)
	}
}

func TestDeterminism(t *testing.T) {
	run := func(e *Engine) []uint64 {
		var hashes []uint64
		for i := 0; i < 900; i++ {
			if i%20 == 0 {
				if idx := e.store.Oldest(); idx >= 0 {
					e.Push(KeyPressed(e.store.Letters[idx].Char))
				}
			}
			e.Step(frame(e))
			snap := e.Snapshot()
			hashes = append(hashes, snap.Hash())
		}
		return hashes
	}

	cfg := config.DefaultKeyfallConfig()
	a := run(New(cfg, Options{Seed: 42}))
	b := run(New(cfg, Options{Seed: 42}))

	replayed := New(cfg, Options{Seed: 7})
	replayed.Reset(42)
	c := run(replayed)

	for i := range a {
		if a[i] != b[i] || a[i] != c[i] {
			t.Fatalf("tick %d: hashes diverged (%d, %d, %d)", i, a[i], b[i], c[i])
		}
	}
}

func TestBossWaitsForCountdown(t *testing.T) {
	cfg := bossConfig()
	cfg.Stages = []config.StageConfig{
		{Name: "Warmup", Letters: "fj", Threshold: 10},
		{Name: "Guardian", Letters: "fjdk", Threshold: 20, Boss: true},
		{Name: "Guardian II", Letters: "fjdksl", Threshold: 30, Boss: true},
	}
	e := quietEngine(cfg)
	e.SetStage(1)
	e.Step(frame(e))

	for _, r := range "fjdk" {
		e.Push(KeyPressed(r))
		e.Step(frame(e))
	}
	e.Push(KeyPressed('z'))
	e.Step(frame(e))
	if e.Snapshot().Mode != ModePenalized {
		t.Fatalf("Mode = %v, expected Penalized", e.Snapshot().Mode)
	}

	advancedWhileFrozen := false
	spawns := 0
	for i := 0; i < 600; i++ {
		frozen := e.Snapshot().Mode != ModeNormal
		res := e.Step(frame(e))
		if len(eventsOf[StageAdvancedEvent](res.Events)) > 0 && frozen {
			advancedWhileFrozen = true
		}
		if len(eventsOf[BossSpawnedEvent](res.Events)) > 0 {
			spawns++
			if frozen {
				t.Fatalf("tick %d: boss spawned during a countdown", res.Tick)
			}
		}
	}
	if !advancedWhileFrozen {
		t.Error("defeat chain did not advance the stage during the countdown")
	}
	if spawns != 1 {
		t.Errorf("boss spawns = %d, expected 1 after the countdown", spawns)
	}
}

func TestComboExpiresWithoutHits(t *testing.T) {
	e := quietEngine(quietConfig())
	addLetter(e, 'a', 0)
	e.Push(KeyPressed('a'))
	e.Step(frame(e))

	for i := 0; i < 60; i++ {
		e.Step(frame(e))
	}
	if c := e.Snapshot().Combo; c.Count != 1 {
		t.Errorf("Combo.Count = %d inside the window, expected 1", c.Count)
	}

	for i := 0; i < 20; i++ {
		e.Step(frame(e))
	}
	c := e.Snapshot().Combo
	if c.Count != 0 || c.Multiplier != 1 {
		t.Errorf("Combo = %+v after the window, expected count 0 and multiplier 1", c)
	}
	if c.Best != 1 {
		t.Errorf("Combo.Best = %d, expected 1", c.Best)
	}
}

func TestCountdownFirstStepIsFull(t *testing.T) {
	cfg := quietConfig()
	e := quietEngine(cfg)
	e.Push(KeyPressed('z'))
	e.Step(frame(e))

	steps := int(config.Duration(cfg.Penalty.StepMs) / testDt)
	for i := 0; i < steps; i++ {
		e.Step(frame(e))
	}
	if snap := e.Snapshot(); snap.Countdown != 3 {
		t.Errorf("Countdown = %d after %d ticks, expected 3", snap.Countdown, steps)
	}

	e.Step(frame(e))
	if snap := e.Snapshot(); snap.Countdown != 2 {
		t.Errorf("Countdown = %d after %d ticks, expected 2", snap.Countdown, steps+1)
	}
}
