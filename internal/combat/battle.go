package combat

import (
	"math"

	"brawlsim/internal/geom"
)

// Hooks observe the battle without steering it. Any may be nil.
type Hooks struct {
	Hit    func(attacker, victim *Agent, dmg int, splash bool)
	Death  func(a *Agent)
	Afraid func(a *Agent, contagion bool)
	End    func(winner Team)
}

// Battle coordinates two rosters over a shared physics space and clock.
// It is driven one Tick at a time from a single goroutine.
type Battle struct {
	env   *Env
	clock *Clock
	phys  Physics
	book  *Bestiary
	opts  Options
	emit  func(Event)

	rosters map[Team]*Roster
	index   map[AgentID]*Agent

	over   bool
	winner Team
	ticks  int

	Hooks Hooks
}

func NewBattle(env *Env, phys Physics, book *Bestiary, opts Options, emit func(Event)) *Battle {
	if emit == nil {
		emit = func(Event) {}
	}
	if opts.SpeedMultiplier <= 0 {
		opts.SpeedMultiplier = 1
	}
	return &Battle{
		env:   env,
		clock: NewClock(env.Time),
		phys:  phys,
		book:  book,
		opts:  opts,
		emit:  emit,
		rosters: map[Team]*Roster{
			TeamA: NewRoster(TeamA),
			TeamB: NewRoster(TeamB),
		},
		index: map[AgentID]*Agent{},
	}
}

func (b *Battle) Now() float64        { return b.clock.Now() }
func (b *Battle) Clock() *Clock       { return b.clock }
func (b *Battle) Options() Options    { return b.opts }
func (b *Battle) IsOver() bool        { return b.over }
func (b *Battle) Winner() Team        { return b.winner }
func (b *Battle) Ticks() int          { return b.ticks }
func (b *Battle) Bestiary() *Bestiary { return b.book }

func (b *Battle) Roster(team Team) *Roster { return b.rosters[team] }

// AddAgent enrols a on team. Agents already enrolled are left alone.
func (b *Battle) AddAgent(a *Agent, team Team) {
	r, ok := b.rosters[team]
	if !ok || a == nil {
		return
	}
	if _, dup := b.index[a.ID]; dup {
		return
	}
	a.Team = team
	a.battle = b
	r.Add(a)
	b.index[a.ID] = a
}

// RemoveAgent drops a from its roster, the lookup table and the physics
// space. Ids held as targets resolve to nothing afterwards.
func (b *Battle) RemoveAgent(a *Agent, team Team) {
	r, ok := b.rosters[team]
	if !ok || a == nil || !r.Remove(a) {
		return
	}
	delete(b.index, a.ID)
	b.phys.RemoveBody(a.ID)
}

func (b *Battle) Lookup(id AgentID) (*Agent, bool) {
	a, ok := b.index[id]
	return a, ok
}

// Enemies returns the living agents opposing team.
func (b *Battle) Enemies(team Team) []*Agent {
	r, ok := b.rosters[team.Opponent()]
	if !ok {
		return nil
	}
	return r.Living()
}

// Allies returns the living agents of team, the caller included.
func (b *Battle) Allies(team Team) []*Agent {
	r, ok := b.rosters[team]
	if !ok {
		return nil
	}
	return r.Living()
}

// OnDeath rolls fear contagion for every living, calm ally on team.
func (b *Battle) OnDeath(team Team) {
	for _, ally := range b.Allies(team) {
		if ally.afraid {
			continue
		}
		if b.env.Rng.Float64() < ContagionChance {
			ally.becomeAfraid(true)
		}
	}
}

func (b *Battle) agentDied(a *Agent) {
	if b.Hooks.Death != nil {
		b.Hooks.Death(a)
	}
	b.OnDeath(a.Team)
	b.CheckElimination()
	team := a.Team
	b.clock.After(b.opts.DeathGrace, func(float64) {
		b.RemoveAgent(a, team)
	})
}

// CheckElimination latches the battle over the moment either side has
// nobody left standing and announces it once.
func (b *Battle) CheckElimination() bool {
	if b.over {
		return true
	}
	aliveA := b.rosters[TeamA].LivingCount()
	aliveB := b.rosters[TeamB].LivingCount()
	if aliveA > 0 && aliveB > 0 {
		return false
	}
	b.over = true
	switch {
	case aliveA > 0:
		b.winner = TeamA
	case aliveB > 0:
		b.winner = TeamB
	}
	sample, _ := b.SurvivorSample()
	b.emit(Event{T: b.Now(), Type: "BattleEnd", Payload: map[string]any{
		"winner": b.winner.String(), "sample": sample, "alive_a": aliveA, "alive_b": aliveB,
	}})
	if b.Hooks.End != nil {
		b.Hooks.End(b.winner)
	}
	return true
}

// SurvivorSample names the first living creature of the winning side.
func (b *Battle) SurvivorSample() (string, bool) {
	r, ok := b.rosters[b.winner]
	if !ok {
		return "", false
	}
	for _, a := range r.agents {
		if !a.dead {
			return a.Spec.Name, true
		}
	}
	return "", false
}

// Survivors counts living agents per creature name for team.
func (b *Battle) Survivors(team Team) map[string]int {
	out := map[string]int{}
	r, ok := b.rosters[team]
	if !ok {
		return out
	}
	for _, a := range r.agents {
		if !a.dead {
			out[a.Spec.Name]++
		}
	}
	return out
}

// Tick advances the battle by env.Delta: due callbacks fire, every living
// agent decides, then physics integrates and overlaps are corrected. It
// does nothing once the battle is over.
func (b *Battle) Tick() {
	if b.over {
		return
	}
	b.ticks++
	b.env.Time += b.env.Delta
	b.clock.Advance(b.env.Time)
	if b.over {
		return
	}
	for _, team := range []Team{TeamA, TeamB} {
		for _, a := range b.rosters[team].All() {
			if b.over {
				return
			}
			if a.dead {
				continue
			}
			a.Update()
		}
	}
	b.phys.Step(b.env.Delta, b.separate)
}

// separate nudges overlapping bodies apart. Enemies in melee keep their
// footing; everybody else drifts a little each step.
func (b *Battle) separate(x, y AgentID) {
	p, ok1 := b.index[x]
	q, ok2 := b.index[y]
	if !ok1 || !ok2 || p.dead || q.dead {
		return
	}
	pp, qp := p.Position(), q.Position()
	d := geom.Distance(pp, qp)
	angle := geom.Angle(qp, pp)
	if d == 0 {
		angle = b.env.Rng.Float64() * 2 * math.Pi
	}

	var push, share float64
	if p.Team != q.Team {
		if p.attacking || q.attacking {
			return
		}
		sf := math.Max(0.2, math.Min(0.6, float64(p.Spec.Size+q.Spec.Size)/12))
		minD := PushDistance * sf
		if d >= minD*0.5 {
			return
		}
		push, share = (minD-d)/64, 0.5
	} else {
		const minD = 2.0
		if d >= minD {
			return
		}
		push, share = (minD-d)/128, 0.3
	}
	dir := geom.FromAngle(angle).Scale(push * share)
	b.phys.Nudge(p.ID, dir)
	b.phys.Nudge(q.ID, dir.Scale(-1))
}
