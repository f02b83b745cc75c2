package keyfall

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/vovakirdan/keyfall/internal/core"
	"github.com/vovakirdan/keyfall/internal/games/keyfall/engine"
)

// Glyphs used by the projection.
const (
	ShipChar       = '▲'
	MeteoriteChar  = '●'
	ProjectileChar = '•'
	FieldChar      = '·'
	HeadChar       = '◆'
	SpacerChar     = 'o'
	TailChar       = '∙'
	ExplosionChar  = '✶'
	WreckChar      = '▼'
	SeparatorChar  = '─'
)

// viewport maps playfield units onto the screen rows between the HUD and the
// footer.
type viewport struct {
	cols, rows int
	top        int
	sx, sy     float64
}

func newViewport(snap engine.Snapshot, w, h int) viewport {
	rows := h - hudRows - footerRows
	v := viewport{cols: w, rows: rows, top: hudRows}
	if snap.Width > 0 {
		v.sx = float64(w-1) / snap.Width
	}
	if snap.Height > 0 {
		v.sy = float64(rows-1) / snap.Height
	}
	return v
}

// cell returns the screen cell for a playfield point and whether it is inside
// the playfield rows.
func (v viewport) cell(x, y float64) (int, int, bool) {
	col := int(math.Round(x * v.sx))
	row := int(math.Round(y * v.sy))
	if col < 0 || col >= v.cols || row < 0 || row >= v.rows {
		return 0, 0, false
	}
	return col, v.top + row, true
}

func (v viewport) set(dst *core.Screen, x, y float64, r rune, c core.Color) {
	if col, row, ok := v.cell(x, y); ok {
		dst.SetColored(col, row, r, c)
	}
}

func renderHUD(dst *core.Screen, snap engine.Snapshot) {
	dst.DrawTextColored(1, 0, fmt.Sprintf("Score: %d", snap.Score), core.ColorHUD)

	lives := "Lives: " + strings.Repeat("♥", max(0, snap.Lives))
	dst.DrawTextCentered(0, lives, core.ColorDanger)

	stage := fmt.Sprintf("Stage %d: %s", snap.Stage+1, snap.StageName)
	dst.DrawTextColored(dst.Width()-len([]rune(stage))-1, 0, stage, core.ColorHUD)

	var parts []string
	if snap.Combo.Count >= 2 {
		parts = append(parts, fmt.Sprintf("Combo x%d (%.1fx)", snap.Combo.Count, snap.Combo.Multiplier))
	}
	if snap.Field.Active {
		parts = append(parts, fmt.Sprintf("Field %.1fs", snap.Field.Remaining.Seconds()))
	}
	if snap.Boss.State != engine.BossInactive {
		parts = append(parts, fmt.Sprintf("Boss %s %d%%", bar(snap.Boss.Health, 10), int(snap.Boss.Health*100)))
	}
	if snap.Warning {
		parts = append(parts, "! DANGER !")
	}
	if len(parts) == 0 {
		dst.DrawHLine(0, 1, dst.Width(), SeparatorChar)
		return
	}
	dst.DrawTextColored(1, 1, strings.Join(parts, "  "), core.ColorPopup)
}

func bar(frac float64, width int) string {
	filled := int(math.Round(core.ClampF(frac, 0, 1) * float64(width)))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func renderField(dst *core.Screen, v viewport, snap engine.Snapshot) {
	if !snap.Field.Active {
		return
	}
	const points = 48
	for i := range points {
		a := 2 * math.Pi * float64(i) / points
		v.set(dst, snap.ShipX+snap.Field.Radius*math.Cos(a), snap.ShipY+snap.Field.Radius*math.Sin(a), FieldChar, core.ColorField)
	}
}

func renderBoss(dst *core.Screen, v viewport, snap engine.Snapshot) {
	// Tail first so the head draws on top.
	segs := snap.Boss.Segments
	for i := len(segs) - 1; i >= 0; i-- {
		s := segs[i]
		if s.State == engine.SegmentDestroyed {
			continue
		}
		color := core.ColorBoss
		if s.State == engine.SegmentAbsorbed {
			color = core.ColorAbsorbed
		}
		var r rune
		switch s.Kind {
		case engine.SegmentHead:
			r = HeadChar
			if s.State == engine.SegmentAlive {
				color = core.ColorBossHead
			}
		case engine.SegmentLetter:
			r = unicode.ToUpper(s.Letter)
		case engine.SegmentSpacer:
			r = SpacerChar
		default:
			r = TailChar
		}
		v.set(dst, s.X, s.Y, r, color)
	}
}

func renderBodies(dst *core.Screen, v viewport, snap engine.Snapshot) {
	for _, m := range snap.Meteorites {
		v.set(dst, m.X, m.Y, MeteoriteChar, core.ColorMeteorite)
	}
	for _, p := range snap.Projectiles {
		v.set(dst, p.X, p.Y, ProjectileChar, core.ColorShot)
	}
}

func renderLetters(dst *core.Screen, v viewport, snap engine.Snapshot, dangerLine float64) {
	danger := snap.Height * dangerLine
	for _, l := range snap.Letters {
		color := core.ColorLetter
		if l.Phase == engine.PhaseRising {
			color = core.ColorRising
			if l.Y < danger {
				color = core.ColorDanger
			}
		}
		r := l.Char
		if l.Scale >= 0.5 {
			r = unicode.ToUpper(r)
		}
		v.set(dst, l.X, l.Y, r, color)
	}
}

func renderShip(dst *core.Screen, v viewport, snap engine.Snapshot) {
	if snap.GameOver {
		return
	}
	v.set(dst, snap.ShipX, snap.ShipY, ShipChar, core.ColorShip)
}

func renderEffects(dst *core.Screen, v viewport, snap engine.Snapshot) {
	for _, fx := range snap.Effects {
		switch fx.Kind {
		case engine.EffectExplosion:
			v.set(dst, fx.X, fx.Y, ExplosionChar, core.ColorMeteorite)
		case engine.EffectWreck:
			v.set(dst, fx.X, fx.Y, WreckChar, core.ColorAbsorbed)
		case engine.EffectComboText, engine.EffectScorePopup:
			col, row, ok := v.cell(fx.X, fx.Y)
			if ok {
				dst.DrawTextColored(col-len(fx.Text)/2, row, fx.Text, core.ColorPopup)
			}
		}
	}
}

func renderOverlay(dst *core.Screen, snap engine.Snapshot) {
	footer := dst.Height() - 1
	switch {
	case snap.GameOver:
		drawCenteredBox(dst, "GAME OVER", fmt.Sprintf("Score: %d  |  Press Enter to restart", snap.Score))
	case snap.Paused:
		drawCenteredBox(dst, "PAUSED", "Press Esc to resume")
	case snap.Mode == engine.ModeLifeLost:
		drawCenteredBox(dst, fmt.Sprintf("LIFE LOST  %d", snap.Countdown), "Press Enter to continue")
	case snap.Mode == engine.ModePenalized:
		drawCenteredBox(dst, fmt.Sprintf("PENALTY  %d", snap.Countdown), "Press Enter to skip")
	default:
		dst.DrawTextCentered(footer, "Type the letters  |  Space: force field  |  Esc: pause", core.ColorAbsorbed)
	}
}

// drawCenteredBox draws a centered message box.
func drawCenteredBox(dst *core.Screen, title, subtitle string) {
	boxW := max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxH := 5
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))
	dst.DrawTextColored(boxX+(boxW-len([]rune(title)))/2, boxY+1, title, core.ColorBrightWhite)
	dst.DrawTextColored(boxX+(boxW-len([]rune(subtitle)))/2, boxY+3, subtitle, core.ColorHUD)
}
