package combat

import (
	"math"

	"brawlsim/internal/geom"
	"brawlsim/internal/util"
)

// moveTowards steers toward tgt. The heading is committed and only
// re-chosen when the commitment lapses, the direct bearing swings past the
// threshold, or the agent is stuck. Stuck agents shrink their personal
// space, care less about it, and push harder.
func (a *Agent) moveTowards(tgt *Agent, dist float64) {
	b := a.battle
	now := b.Now()
	pos := a.Position()
	direct := geom.Angle(pos, tgt.Position())

	since := now - a.lastHeadingChange
	slow := a.Velocity().Len() < StuckSpeed
	stuck := slow && since > PositionChangeDelay
	switch {
	case stuck:
		a.committed = false
		a.positionAttempts++
	case !slow:
		a.positionAttempts = 0
	}

	if !a.committed || since > MovementCommitment ||
		math.Abs(geom.WrapAngle(direct-a.heading)) > DirectionChangeThreshold || stuck {
		a.heading = a.chooseHeading(pos, direct, dist, stuck)
		a.lastHeadingChange = now
		a.lastPositionChange = now
		a.committed = true
		b.emit(Event{T: now, Type: "Move", Payload: map[string]any{
			"id": a.ID.String(), "x": pos.X, "y": pos.Y, "heading": a.heading,
			"dir": geom.Direction8(a.heading), "stuck": stuck,
		}})
	}

	speed := a.Spec.Speed
	if stuck {
		speed *= StuckSpeedBoost
	}
	b.phys.SetVelocity(a.ID, a.velocityFromAngle(a.heading, speed, dist))
	a.facing = a.heading
}

// chooseHeading blends the direct bearing with a repulsion vector away
// from allies inside the personal-space radius.
func (a *Agent) chooseHeading(pos geom.Vec2, direct, dist float64, stuck bool) float64 {
	radius, weight, maxSpacing := PreferredSpacing, 1.0, 0.8
	if stuck {
		radius, weight, maxSpacing = radius*0.5, weight*0.5, 0.4
	}

	var push geom.Vec2
	for _, ally := range a.battle.Allies(a.Team) {
		if ally == a {
			continue
		}
		ap := ally.Position()
		d := geom.Distance(pos, ap)
		if d >= radius {
			continue
		}
		strength := (radius - d) / radius
		push = push.Add(geom.FromAngle(geom.Angle(ap, pos)).Scale(strength * weight))
	}

	if push.Len() == 0 {
		return direct
	}
	scale := 1.0
	if dist < BaseAttackRange*2 {
		scale = 1.5
	}
	spacing := math.Min(maxSpacing, push.Len()/2*scale)
	toward := 1 - spacing
	return math.Atan2(
		math.Sin(direct)*toward+push.Y*spacing,
		math.Cos(direct)*toward+push.X*spacing,
	)
}

// velocityFromAngle scales speed by the battle multiplier and eases off
// linearly inside twice the attack range, down to 10% at the boundary.
// dist < 0 means there is nothing to close on.
func (a *Agent) velocityFromAngle(angle, speed, dist float64) geom.Vec2 {
	if dist >= 0 && dist < BaseAttackRange*2 {
		speed *= math.Max(MinSpeedFactor, (dist-BaseAttackRange)/BaseAttackRange)
	}
	return geom.FromAngle(angle).Scale(speed * a.battle.opts.SpeedMultiplier)
}

// wander is the panicked run of an afraid agent: a random heading,
// re-rolled every 500 to 1500ms, at reduced speed.
func (a *Agent) wander() {
	b := a.battle
	now := b.Now()
	if !a.hasWander || now > a.nextWander {
		a.hasWander = true
		a.wanderAngle = b.env.Rng.Float64() * 2 * math.Pi
		a.nextWander = now + float64(util.Between(b.env.Rng, 500, 1500))
		b.emit(Event{T: now, Type: "Anim", Payload: map[string]any{
			"id": a.ID.String(), "anim": "run", "dir": geom.Direction8(a.wanderAngle),
		}})
	}
	v := a.velocityFromAngle(a.wanderAngle, a.Spec.Speed*AfraidSpeedFactor, -1)
	b.phys.SetVelocity(a.ID, v)
	a.facing = a.wanderAngle
	if v.Len() > 50 && b.env.Rng.Float64() < 0.1 {
		a.footsteps()
	}
}
