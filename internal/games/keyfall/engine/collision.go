package engine

import (
	"github.com/vovakirdan/keyfall/internal/config"
	"github.com/vovakirdan/keyfall/internal/core"
)

// resolveCollisions tests the ship and its force field against meteorites,
// the boss head and boss projectiles. Positions are already advanced for
// this tick.
func (e *Engine) resolveCollisions() {
	shipC := core.Circle{Center: e.ship, R: e.cfg.Ship.Radius}
	fieldC := core.Circle{Center: e.ship, R: e.field.Radius}
	shielded := e.field.Active && e.field.Remaining(e.now) > 0

	crashed := false
	kept := e.store.Meteorites[:0]
	for _, m := range e.store.Meteorites {
		switch {
		case shielded && core.Collides(fieldC, m.Circle()):
			e.emit(MeteoriteHitEvent{Pos: m.Pos})
			e.emit(ForceFieldHitEvent{Pos: m.Pos})
			e.store.AddEffect(Effect{Kind: EffectExplosion, Pos: m.Pos, TTL: config.Duration(e.cfg.Effects.ExplosionMs)})
		case !crashed && core.Collides(shipC, m.Circle()):
			crashed = true
		default:
			kept = append(kept, m)
		}
	}
	e.store.Meteorites = kept
	if crashed {
		e.destroyShip(DestroyedByMeteorite)
		return
	}

	// Only the head deals contact damage; body and tail pass through.
	if e.boss.Dangerous() && core.Collides(shipC, e.boss.HeadCircle()) {
		e.boss.Retreat()
		e.destroyShip(DestroyedByBoss)
		return
	}

	struck := false
	projectiles := e.store.Projectiles[:0]
	for _, p := range e.store.Projectiles {
		switch {
		case shielded && core.Collides(fieldC, p.Circle()):
			e.emit(ForceFieldHitEvent{Pos: p.Pos})
		case core.Collides(shipC, p.Circle()):
			struck = true
		default:
			projectiles = append(projectiles, p)
		}
	}
	e.store.Projectiles = projectiles
	if struck {
		e.combo.Reset()
		e.emit(WrongKeyEvent{})
		e.startCountdown(ModePenalized)
	}
}

// destroyShip wipes the playfield and costs one life.
func (e *Engine) destroyShip(reason DestroyReason) {
	pos := e.ship
	e.store.Wipe()
	e.store.AddEffect(Effect{Kind: EffectWreck, Pos: pos, Vel: core.Vec{Y: -60}, TTL: config.Duration(e.cfg.Effects.WreckMs)})
	e.store.AddEffect(Effect{Kind: EffectExplosion, Pos: pos, TTL: config.Duration(e.cfg.Effects.ExplosionMs)})
	e.logger.Debug("ship destroyed", "reason", reason, "lives", e.lives-1)
	e.emit(ShipDestroyedEvent{Reason: reason, Pos: pos})
	e.loseLives(1)
}
