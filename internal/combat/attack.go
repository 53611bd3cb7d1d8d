package combat

import (
	"math"
	"sort"

	"brawlsim/internal/geom"
)

const (
	blockAngle      = math.Pi / 6
	blockDistRatio  = 0.8
	closeRangeRatio = 0.8
	splashRadius    = BaseAttackRange * 1.2
)

// EffectiveRange is how far a swing reaches. An ally standing in the line
// to the target lets the attacker reach over it, more so for big creatures.
func (a *Agent) EffectiveRange(blocked bool) float64 {
	if !blocked {
		return BaseAttackRange
	}
	return math.Min(BaseAttackRange*(1+float64(a.Spec.Size)/3), MaxAttackRange)
}

// blocked reports whether an ally is close to the line toward tgt and
// nearer than it.
func (a *Agent) blocked(tgt *Agent, dist float64) bool {
	pos := a.Position()
	toTarget := geom.Angle(pos, tgt.Position())
	for _, ally := range a.battle.Allies(a.Team) {
		if ally == a {
			continue
		}
		ap := ally.Position()
		if geom.Distance(pos, ap) >= dist*blockDistRatio {
			continue
		}
		if math.Abs(geom.WrapAngle(geom.Angle(pos, ap)-toTarget)) < blockAngle {
			return true
		}
	}
	return false
}

// attack tries to start a swing at tgt. Close range always proceeds; past
// that, only an unblocked line or an extended reach over a blocking ally
// does. Every rejection counts toward a forced retarget.
func (a *Agent) attack(tgt *Agent) bool {
	if a.attacking || a.afraid || a.dead || tgt == nil || tgt.dead {
		a.failedAttacks++
		return false
	}
	dist := a.distanceTo(tgt)
	isBlocked := a.blocked(tgt, dist)
	if dist > a.EffectiveRange(isBlocked) {
		a.failedAttacks++
		return false
	}
	if dist > BaseAttackRange*closeRangeRatio && isBlocked {
		a.failedAttacks++
		return false
	}
	a.startSwing(tgt)
	return true
}

func (a *Agent) startSwing(tgt *Agent) {
	b := a.battle
	now := b.Now()
	a.attacking = true
	a.failedAttacks = 0
	a.committed = false
	a.setState(StateAttacking)
	a.facing = geom.Angle(a.Position(), tgt.Position())

	anim := a.Spec.AttackAnims[b.env.Rng.Intn(len(a.Spec.AttackAnims))]
	duration := SwingDuration / a.animSpeed
	b.emit(Event{T: now, Type: "Attack", Payload: map[string]any{
		"id": a.ID.String(), "target": tgt.ID.String(), "anim": anim,
		"dir": geom.Direction8(a.facing), "duration": duration,
	}})

	a.swingGen++
	gen := a.swingGen
	victim := tgt.ID
	b.clock.After(duration, func(float64) {
		if a.dead || a.swingGen != gen {
			return
		}
		a.completeSwing(victim)
	})
}

// completeSwing lands the hit if the primary is still standing, then
// releases the attack lock.
func (a *Agent) completeSwing(victim AgentID) {
	b := a.battle
	if tgt, ok := b.Lookup(victim); ok && !tgt.dead {
		a.impactSound()
		a.hit(tgt, a.Spec.AttackDamage, false)
		if a.Spec.Splashes() && !a.dead {
			a.applySplash(tgt)
		}
	}
	a.attacking = false
	if a.dead || a.afraid {
		return
	}
	if a.Target() != nil {
		a.setState(StateApproaching)
	} else {
		a.setState(StateIdle)
	}
}

// cancelSwing drops a pending swing so its completion never fires.
func (a *Agent) cancelSwing() {
	if !a.attacking {
		return
	}
	a.swingGen++
	a.attacking = false
}

func (a *Agent) hit(victim *Agent, dmg int, splash bool) {
	b := a.battle
	if b.Hooks.Hit != nil {
		b.Hooks.Hit(a, victim, dmg, splash)
	}
	b.emit(Event{T: b.Now(), Type: "Hit", Payload: map[string]any{
		"id": a.ID.String(), "target": victim.ID.String(), "damage": dmg, "splash": splash,
	}})
	victim.TakeDamage(dmg, a)
}

// SplashDamageAgainst is the splash dealt to a victim of the given size.
func (a *Agent) SplashDamageAgainst(victimSize int) int {
	diff := a.Spec.Size - victimSize
	if diff < 0 {
		diff = 0
	}
	// floor(base * (1 + 0.2*diff)) in integers
	return a.Spec.SplashDamage() * (5 + diff) / 5
}

// applySplash hits the enemies nearest the primary, never the primary
// itself, up to the attacker's splash target count.
func (a *Agent) applySplash(primary *Agent) {
	center := primary.Position()
	type near struct {
		agent *Agent
		dist  float64
	}
	var pool []near
	for _, e := range a.battle.Enemies(a.Team) {
		if e == primary {
			continue
		}
		if d := geom.Distance(center, e.Position()); d <= splashRadius {
			pool = append(pool, near{e, d})
		}
	}
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].dist < pool[j].dist })
	if n := a.Spec.SplashTargets(); len(pool) > n {
		pool = pool[:n]
	}
	for _, n := range pool {
		if n.agent.dead || a.dead {
			continue
		}
		if dmg := a.SplashDamageAgainst(n.agent.Spec.Size); dmg > 0 {
			a.hit(n.agent, dmg, true)
		}
	}
}
