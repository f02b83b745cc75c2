package engine

import (
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/keyfall/internal/config"
	"github.com/vovakirdan/keyfall/internal/core"
)

var testArena = arena{W: 800, H: 600, Margin: 100}

func testBoss() *Boss {
	cfg := config.DefaultKeyfallConfig().Boss
	cfg.Enabled = true
	return NewBoss(cfg, log.New(io.Discard))
}

// activate moves a freshly spawned boss down to its hover line.
func activate(t *testing.T, b *Boss) {
	t.Helper()
	for i := 0; i < 600 && b.State == BossSpawning; i++ {
		b.Move(time.Second/60, core.Vec{X: 400, Y: 510}, testArena)
	}
	if b.State != BossActive {
		t.Fatalf("State = %v after entry, expected Active", b.State)
	}
}

func TestChainLetters(t *testing.T) {
	tests := []struct {
		name     string
		learned  string
		expected string
	}{
		{"repeat to minimum", "fj", "fjfj"},
		{"exact", "fjdk", "fjdk"},
		{"truncate to maximum", "abcdefghijklmn", "abcdefghijkl"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(chainLetters([]rune(tt.learned), 4, 12))
			if got != tt.expected {
				t.Errorf("chainLetters(%q) = %q, expected %q", tt.learned, got, tt.expected)
			}
		})
	}
}

func TestBuildChainLayout(t *testing.T) {
	cfg := config.DefaultKeyfallConfig().Boss
	segs := buildChain([]rune("fjdk"), cfg)

	if len(segs) != 1+4*3+cfg.TailLength {
		t.Fatalf("len(segs) = %d, expected %d", len(segs), 1+4*3+cfg.TailLength)
	}
	if segs[0].Kind != SegmentHead || segs[0].Offset != 0 {
		t.Errorf("segs[0] = %+v, expected head at offset 0", segs[0])
	}
	for i := 1; i < len(segs); i++ {
		if segs[i].Offset <= segs[i-1].Offset {
			t.Errorf("offset[%d] = %d not above offset[%d] = %d", i, segs[i].Offset, i-1, segs[i-1].Offset)
		}
	}

	letters := ""
	for i := 1; i <= 12; i++ {
		want := SegmentSpacer
		if i%3 == 0 {
			want = SegmentLetter
			letters += string(segs[i].Letter)
		}
		if segs[i].Kind != want {
			t.Errorf("segs[%d].Kind = %v, expected %v", i, segs[i].Kind, want)
		}
	}
	if letters != "fjdk" {
		t.Errorf("letter order = %q, expected fjdk", letters)
	}

	for i := 13; i < len(segs); i++ {
		if segs[i].Kind != SegmentTail {
			t.Errorf("segs[%d].Kind = %v, expected tail", i, segs[i].Kind)
		}
		if segs[i].Radius > segs[i-1].Radius {
			t.Errorf("tail radius grows at %d", i)
		}
	}
}

func TestSegmentsFollowTrail(t *testing.T) {
	b := testBoss()
	b.Spawn(0, []rune("fjdk"), testArena)
	start := b.Head()

	var heads []core.Vec
	ship := core.Vec{X: 400, Y: 510}
	for i := 0; i < 300; i++ {
		b.Move(time.Second/60, ship, testArena)
		heads = append(heads, b.Head())

		for _, s := range b.Segments {
			expected := start
			if s.Offset < len(heads) {
				expected = heads[len(heads)-1-s.Offset]
			}
			if s.Pos != expected {
				t.Fatalf("move %d: segment at offset %d = %v, expected %v", i, s.Offset, s.Pos, expected)
			}
		}
	}
}

func TestAbsorbDimsSpacersAhead(t *testing.T) {
	b := testBoss()
	b.Spawn(0, []rune("fjdk"), testArena)

	if _, ok := b.Absorb('x'); ok {
		t.Error("Absorb('x') succeeded for a letter not in the chain")
	}

	res, ok := b.Absorb('j')
	if !ok || res.Index != 6 || res.Left != 3 || res.Defeated {
		t.Fatalf("Absorb('j') = %+v, %v; expected index 6, 3 left", res, ok)
	}
	for i, s := range b.Segments {
		expected := SegmentAlive
		if i >= 6 && i <= 8 {
			expected = SegmentAbsorbed
		}
		if s.State != expected {
			t.Errorf("segment %d state = %v, expected %v", i, s.State, expected)
		}
	}

	if _, ok := b.Absorb('j'); ok {
		t.Error("absorbing j twice succeeded")
	}

	// The first letter also dims the spacers between it and the head.
	if _, ok := b.Absorb('f'); !ok {
		t.Fatal("Absorb('f') failed")
	}
	for i, s := range b.Segments {
		expected := SegmentAlive
		if i >= 1 && i <= 8 {
			expected = SegmentAbsorbed
		}
		if s.State != expected {
			t.Errorf("after f: segment %d state = %v, expected %v", i, s.State, expected)
		}
	}

	if _, ok := b.Absorb('d'); !ok {
		t.Fatal("Absorb('d') failed")
	}
	for i := 10; i <= 11; i++ {
		if b.Segments[i].State != SegmentAbsorbed {
			t.Errorf("after d: spacer %d state = %v, expected absorbed", i, b.Segments[i].State)
		}
	}
	if b.Segments[12].State != SegmentAlive {
		t.Errorf("after d: letter k state = %v, expected alive", b.Segments[12].State)
	}
	res, ok = b.Absorb('k')
	if !ok || !res.Defeated {
		t.Fatalf("Absorb('k') = %+v, %v; expected defeat", res, ok)
	}
	if b.State != BossDefeating {
		t.Errorf("State = %v, expected Defeating", b.State)
	}
	if b.Segments[0].State != SegmentAlive {
		t.Error("head dimmed on defeat")
	}
	for i := 1; i < len(b.Segments); i++ {
		if b.Segments[i].State != SegmentAbsorbed {
			t.Errorf("segment %d state = %v after defeat, expected absorbed", i, b.Segments[i].State)
		}
	}
	if _, ok := b.Absorb('f'); ok {
		t.Error("Absorb() succeeded while defeating")
	}
}

func TestPhaseFromHealth(t *testing.T) {
	tests := []struct {
		absorbed int
		expected int
	}{
		{0, 1},
		{4, 1},
		{5, 2},
		{7, 2},
		{8, 3},
		{9, 3},
	}

	for _, tt := range tests {
		b := testBoss()
		b.Spawn(0, []rune("abcdefghij"), testArena)
		for _, r := range "abcdefghij"[:tt.absorbed] {
			b.Absorb(r)
		}
		if b.Phase != tt.expected {
			t.Errorf("Phase after %d of 10 absorbed = %d, expected %d", tt.absorbed, b.Phase, tt.expected)
		}
	}
}

func TestPatternCycleAndBurst(t *testing.T) {
	b := testBoss()
	b.Spawn(0, []rune("fjdk"), testArena)
	activate(t, b)

	rng := rand.New(rand.NewSource(1))
	store := NewStore()
	ship := core.Vec{X: 400, Y: 510}

	events, _ := b.Think(config.Duration(b.cfg.IdleDwellMs), ship, rng, store)
	if b.Pattern != PatternShooting {
		t.Fatalf("Pattern = %v after idle dwell, expected Shooting", b.Pattern)
	}
	if len(events) != 0 || len(store.Projectiles) != 0 {
		t.Errorf("switch tick fired %d shots, expected 0", len(store.Projectiles))
	}

	interval := config.Duration(b.cfg.ShotIntervalMs)
	for i := 1; i <= b.cfg.ShotsPerBurst+2; i++ {
		b.Think(interval, ship, rng, store)
		expected := min(i, b.cfg.ShotsPerBurst)
		if len(store.Projectiles) != expected {
			t.Errorf("after %d intervals: %d projectiles, expected %d", i, len(store.Projectiles), expected)
		}
	}

	for _, p := range store.Projectiles {
		if p.Vel.Y <= 0 {
			t.Errorf("projectile Vel = %v, expected aimed down at the ship", p.Vel)
		}
	}
}

func TestRetreatReturnsToHover(t *testing.T) {
	b := testBoss()
	b.Spawn(0, []rune("fjdk"), testArena)
	activate(t, b)

	b.head.Y = 480
	b.Retreat()
	if b.State != BossVictory || b.Dangerous() {
		t.Fatalf("State = %v after Retreat, expected harmless Victory", b.State)
	}
	for i := 0; i < 600 && b.State == BossVictory; i++ {
		b.Move(time.Second/60, core.Vec{X: 400, Y: 510}, testArena)
	}
	if b.State != BossActive {
		t.Errorf("State = %v, expected Active after the retreat", b.State)
	}
	if b.Head().Y != b.cfg.HoverLine*testArena.H {
		t.Errorf("head Y = %v, expected hover line", b.Head().Y)
	}
}

func TestExitAndRespawn(t *testing.T) {
	b := testBoss()
	st := config.StageConfig{Name: "Guardian", Letters: "fjdk", Threshold: 10, Boss: true}

	if !b.CanSpawn(3, st) {
		t.Fatal("CanSpawn() = false before the first encounter")
	}
	b.Spawn(3, []rune("fjdk"), testArena)
	if b.CanSpawn(3, st) {
		t.Error("CanSpawn() = true while the boss is on screen")
	}
	activate(t, b)

	b.head.Y = testArena.H + testArena.Margin + b.cfg.HeadRadius + 1
	b.Move(time.Second/60, core.Vec{X: 400, Y: 510}, testArena)
	if b.State != BossActive {
		t.Fatalf("State = %v with the head gone and the tail on screen, expected Active", b.State)
	}

	for i := 0; i < 10_000 && b.State == BossActive; i++ {
		b.Move(time.Second/60, core.Vec{X: 400, Y: 510}, testArena)
		if b.State != BossActive {
			break
		}
		last := b.Segments[len(b.Segments)-1]
		if last.Pos.Y-last.Radius > testArena.H+testArena.Margin {
			t.Fatal("boss still active with the tail off screen")
		}
	}
	if b.State != BossInactive || b.Segments != nil {
		t.Fatalf("State = %v with %d segments, expected inactive and empty", b.State, len(b.Segments))
	}
	if b.CanSpawn(3, st) {
		t.Error("CanSpawn() = true before the respawn delay")
	}

	b.Think(config.Duration(b.cfg.RespawnDelayMs), core.Vec{}, rand.New(rand.NewSource(1)), NewStore())
	if !b.CanSpawn(3, st) {
		t.Error("CanSpawn() = false after the respawn delay")
	}
}

func TestDefeatSequence(t *testing.T) {
	b := testBoss()
	st := config.StageConfig{Name: "Guardian", Letters: "fjdk", Threshold: 10, Boss: true}
	b.Spawn(3, []rune("fjdk"), testArena)
	segments := len(b.Segments)
	for _, r := range "fjdk" {
		b.Absorb(r)
	}

	rng := rand.New(rand.NewSource(1))
	step := config.Duration(b.cfg.ExplosionStepMs)
	exploded, massive := 0, 0
	defeated := false
	for i := 0; i < 100 && !defeated; i++ {
		var events []Event
		events, defeated = b.Think(step, core.Vec{}, rng, NewStore())
		for _, ev := range events {
			switch ev.(type) {
			case SegmentExplodedEvent:
				exploded++
			case MassiveExplosionEvent:
				massive++
			}
		}
	}

	if !defeated {
		t.Fatal("defeat sequence never completed")
	}
	if exploded != segments {
		t.Errorf("exploded %d segments, expected %d", exploded, segments)
	}
	if massive != 1 {
		t.Errorf("massive explosions = %d, expected 1", massive)
	}
	if !b.Defeated(3) || b.CanSpawn(3, st) || b.Engaged(3, st) {
		t.Error("boss still engaged after its defeat")
	}
	if !b.claimDefeatBonus() || b.claimDefeatBonus() {
		t.Error("defeat bonus should be claimable exactly once")
	}
}
