package combat

import "math"

// FearChance is the chance a hit from an attacker with attackerFF makes a
// victim with victimFF flee. Always within [0.1, 0.9].
func FearChance(attackerFF, victimFF int) float64 {
	c := float64(attackerFF-victimFF)/100 + 0.3
	return math.Max(0.1, math.Min(0.9, c))
}

func (a *Agent) rollFear(attacker *Agent) {
	if attacker == nil || a.afraid || a.dead {
		return
	}
	now := a.battle.Now()
	if now < a.fearImmunityUntil {
		return
	}
	if a.battle.env.Rng.Float64() < FearChance(attacker.Spec.FearFactor, a.Spec.FearFactor) {
		a.becomeAfraid(false)
	}
}

// becomeAfraid drops the target, aborts any swing in flight and schedules
// the end of the panic, after which fear cannot re-trigger for a while.
func (a *Agent) becomeAfraid(contagion bool) {
	if a.afraid || a.dead {
		return
	}
	b := a.battle
	a.afraid = true
	a.target = AgentID{}
	a.committed = false
	a.cancelSwing()
	a.setState(StateAfraid)

	duration := float64(FearMinDuration + b.env.Rng.Intn(FearMaxDuration-FearMinDuration))
	a.fearGen++
	gen := a.fearGen
	b.clock.After(duration, func(now float64) {
		if a.dead || a.fearGen != gen {
			return
		}
		a.afraid = false
		a.hasWander = false
		a.fearImmunityUntil = now + FearImmunity
		a.setState(StateIdle)
		b.emit(Event{T: now, Type: "Calm", Payload: map[string]any{"id": a.ID.String()}})
	})

	b.emit(Event{T: b.Now(), Type: "Afraid", Payload: map[string]any{
		"id": a.ID.String(), "creature": a.Spec.Name, "team": a.Team.String(),
		"duration": duration, "contagion": contagion,
	}})
	if b.Hooks.Afraid != nil {
		b.Hooks.Afraid(a, contagion)
	}
}
