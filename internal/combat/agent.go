package combat

import (
	"math"
	"strconv"

	"brawlsim/internal/geom"
	"brawlsim/internal/util"
)

// Agent is one creature on the field. It holds simulation state only;
// anything a viewer needs is published as events.
type Agent struct {
	ID   AgentID
	Spec CreatureSpec
	Team Team

	battle *Battle
	state  AgentState

	hp                int
	dead              bool
	afraid            bool
	fearImmunityUntil float64
	fearGen           int

	target AgentID

	heading            float64
	committed          bool
	lastHeadingChange  float64
	lastPositionChange float64
	positionAttempts   int

	attacking     bool
	swingGen      int
	failedAttacks int

	wanderAngle float64
	nextWander  float64
	hasWander   bool

	facing         float64
	animSpeed      float64
	lastDamageAnim float64
	lastSound      float64
	lastImpact     float64
	lastFootstep   float64
	footstepSets   int
}

func newAgent(b *Battle, id AgentID, spec CreatureSpec, team Team) *Agent {
	a := &Agent{
		ID:                id,
		Spec:              spec,
		Team:              team,
		battle:            b,
		hp:                spec.Hitpoints,
		animSpeed:         util.Range(b.env.Rng, 0.9, 1.1),
		lastHeadingChange: b.Now(),
		lastDamageAnim:    math.Inf(-1),
		lastSound:         math.Inf(-1),
		lastImpact:        math.Inf(-1),
		lastFootstep:      math.Inf(-1),
	}
	if team == TeamB {
		a.facing = math.Pi
	}
	return a
}

func (a *Agent) HP() int             { return a.hp }
func (a *Agent) IsDead() bool        { return a.dead }
func (a *Agent) IsAfraid() bool      { return a.afraid }
func (a *Agent) IsAttacking() bool   { return a.attacking }
func (a *Agent) State() AgentState   { return a.state }
func (a *Agent) FailedAttacks() int  { return a.failedAttacks }
func (a *Agent) Facing() float64     { return a.facing }
func (a *Agent) Position() geom.Vec2 { return a.battle.phys.Position(a.ID) }
func (a *Agent) Velocity() geom.Vec2 { return a.battle.phys.Velocity(a.ID) }

func (a *Agent) distanceTo(o *Agent) float64 { return geom.Distance(a.Position(), o.Position()) }

// Target resolves the held target id. A target that died or left the
// battle is forgotten on read.
func (a *Agent) Target() *Agent {
	if a.target == (AgentID{}) {
		return nil
	}
	t, ok := a.battle.Lookup(a.target)
	if !ok || t.dead {
		a.target = AgentID{}
		return nil
	}
	return t
}

func (a *Agent) setState(s AgentState) {
	if a.state == s || (a.state == StateDead && s != StateDead) {
		return
	}
	a.state = s
}

// Update runs one tick of the agent's decision loop.
func (a *Agent) Update() {
	b := a.battle
	if a.dead {
		b.phys.SetVelocity(a.ID, geom.Vec2{})
		return
	}
	if a.afraid {
		a.committed = false
		a.wander()
		return
	}
	if a.attacking {
		b.phys.SetVelocity(a.ID, geom.Vec2{})
		return
	}

	now := b.Now()
	tgt := a.Target()
	if tgt == nil {
		a.committed = false
	}
	if tgt == nil || (a.failedAttacks >= MaxAttackAttempts && now-a.lastPositionChange > PositionChangeDelay) {
		a.findNewTarget()
		a.failedAttacks = 0
		a.positionAttempts = 0
		tgt = a.Target()
	}
	if tgt == nil {
		a.setState(StateSeeking)
		return
	}
	a.setState(StateApproaching)

	dist := a.distanceTo(tgt)
	if dist <= BaseAttackRange {
		b.phys.SetVelocity(a.ID, geom.Vec2{})
		a.committed = false
		if !a.attack(tgt) && a.failedAttacks >= MaxAttackAttempts {
			a.target = AgentID{}
		}
		return
	}
	a.moveTowards(tgt, dist)
}

// findNewTarget picks the closest living enemy; the first one wins ties.
func (a *Agent) findNewTarget() {
	b := a.battle
	pos := a.Position()
	var best *Agent
	bestDist := math.Inf(1)
	for _, e := range b.Enemies(a.Team) {
		if d := geom.Distance(pos, e.Position()); d < bestDist {
			best, bestDist = e, d
		}
	}
	a.positionAttempts = 0
	if best == nil {
		a.target = AgentID{}
		return
	}
	if best.ID != a.target {
		b.emit(Event{T: b.Now(), Type: "Target", Payload: map[string]any{
			"id": a.ID.String(), "target": best.ID.String(), "dist": bestDist,
		}})
	}
	a.target = best.ID
}

// TakeDamage applies a hit. Damage is never dropped; only the visual
// reaction is rate limited.
func (a *Agent) TakeDamage(amount int, attacker *Agent) {
	if a.dead {
		return
	}
	b := a.battle
	now := b.Now()
	a.hp -= amount

	if attacker != nil {
		a.facing = geom.Angle(a.Position(), attacker.Position())
	}
	bloodDelay := 50.0
	if now-a.lastDamageAnim >= DamageReactionCooldown {
		a.lastDamageAnim = now
		bloodDelay = 150
		b.emit(Event{T: now, Type: "Anim", Payload: map[string]any{
			"id": a.ID.String(), "anim": "takeDamage", "dir": geom.Direction8(a.facing),
		}})
	}
	if b.opts.Blood {
		pos := a.Position()
		variant := 1 + b.env.Rng.Intn(4)
		b.clock.After(bloodDelay, func(t float64) {
			b.emit(Event{T: t, Type: "Blood", Payload: map[string]any{
				"id": a.ID.String(), "variant": variant, "x": pos.X, "y": pos.Y,
			}})
		})
	}
	a.vocalize()

	if a.hp <= 0 {
		a.die()
		return
	}
	a.rollFear(attacker)
}

func (a *Agent) die() {
	if a.dead {
		return
	}
	b := a.battle
	a.dead = true
	a.target = AgentID{}
	a.committed = false
	a.afraid = false
	a.cancelSwing()
	b.phys.SetVelocity(a.ID, geom.Vec2{})
	a.setState(StateDead)

	b.emit(Event{T: b.Now(), Type: "Death", Payload: map[string]any{
		"id": a.ID.String(), "creature": a.Spec.Name, "team": a.Team.String(),
		"dir": geom.Direction8(a.facing), "hp": a.hp,
	}})
	a.vocalize()
	b.agentDied(a)
}

// vocalize plays a creature sound, staggered by up to 100ms. Death cries
// still play after the agent is gone.
func (a *Agent) vocalize() {
	b := a.battle
	now := b.Now()
	if now-a.lastSound < SoundCooldown || len(a.Spec.Sounds) == 0 {
		return
	}
	a.lastSound = now
	key := a.Spec.Sounds[b.env.Rng.Intn(len(a.Spec.Sounds))]
	delay := b.env.Rng.Float64() * 100
	b.clock.After(delay, func(t float64) {
		b.emit(Event{T: t, Type: "Sound", Payload: map[string]any{"id": a.ID.String(), "key": key}})
	})
}

func (a *Agent) impactSound() {
	b := a.battle
	now := b.Now()
	if now-a.lastImpact < ImpactCooldown {
		return
	}
	a.lastImpact = now
	if b.env.Rng.Float64() < 0.5 {
		cat := ImpactCategory(a.Spec.Size)
		b.emit(Event{T: now, Type: "Impact", Payload: map[string]any{
			"id": a.ID.String(), "category": cat, "key": cat + strconv.Itoa(1+b.env.Rng.Intn(2)),
		}})
	}
}

func (a *Agent) footsteps() {
	b := a.battle
	now := b.Now()
	if now-a.lastFootstep < FootstepCooldown || a.footstepSets >= MaxFootstepSets {
		return
	}
	a.lastFootstep = now
	a.footstepSets++
	cat := ImpactCategory(a.Spec.Size)
	for i := 0; i < 2; i++ {
		b.clock.After(float64(i)*150, func(t float64) {
			if a.dead || b.env.Rng.Float64() >= 0.3 {
				return
			}
			b.emit(Event{T: t, Type: "Footstep", Payload: map[string]any{"id": a.ID.String(), "category": cat}})
		})
	}
	b.clock.After(FootstepCooldown, func(float64) {
		if a.footstepSets > 0 {
			a.footstepSets--
		}
	})
}
