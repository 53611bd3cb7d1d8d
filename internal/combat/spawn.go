package combat

import (
	"fmt"
	"math"

	"brawlsim/internal/config"
	"brawlsim/internal/geom"

	"github.com/google/uuid"
)

const (
	spawnEdge       = 250.0
	spawnJitter     = 0.15
	spawnStagger    = 100.0
	spawnMaxRadius  = 120.0
	spawnBaseRadius = 30.0
	spawnPerUnit    = 10.0
)

// SpawnAt places one creature of the named type at pos. The id is drawn
// from the battle's random stream so reruns with a seed match.
func (b *Battle) SpawnAt(name string, team Team, pos geom.Vec2) (*Agent, error) {
	spec, err := b.book.Lookup(name)
	if err != nil {
		return nil, err
	}
	if _, ok := b.rosters[team]; !ok {
		return nil, fmt.Errorf("spawn %s: no roster for team %s", name, team)
	}
	id, err := uuid.NewRandomFromReader(b.env.Rng)
	if err != nil {
		return nil, fmt.Errorf("spawn %s: id: %w", name, err)
	}
	a := newAgent(b, id, spec, team)
	b.phys.AddBody(id, pos, spec.HitboxRadius())
	b.AddAgent(a, team)
	b.emit(Event{T: b.Now(), Type: "Spawn", Payload: map[string]any{
		"id": id.String(), "creature": spec.Name, "team": team.String(),
		"x": pos.X, "y": pos.Y, "dir": geom.Direction8(a.facing),
	}})
	return a, nil
}

// Spawn places a side's creatures in a loose ring on its half of the
// field. Every request is checked first, so a bad entry leaves the battle
// untouched.
func (b *Battle) Spawn(team Team, reqs []config.SpawnDef) ([]*Agent, error) {
	total := 0
	for _, r := range reqs {
		if _, err := b.book.Lookup(r.Creature); err != nil {
			return nil, fmt.Errorf("team %s: %w", team, err)
		}
		if r.Count <= 0 {
			return nil, fmt.Errorf("team %s: %w: %s x%d", team, ErrInvalidCount, r.Creature, r.Count)
		}
		total += r.Count
	}
	if total == 0 {
		return nil, fmt.Errorf("team %s: %w", team, ErrEmptyTeam)
	}

	center := geom.Vec2{X: spawnEdge, Y: b.opts.ArenaHeight / 2}
	if team == TeamB {
		center.X = b.opts.ArenaWidth - spawnEdge
	}
	radius := math.Min(spawnMaxRadius, spawnBaseRadius+spawnPerUnit*float64(total))

	agents := make([]*Agent, 0, total)
	i := 0
	for _, r := range reqs {
		for n := 0; n < r.Count; n++ {
			angle := 2*math.Pi*float64(i)/float64(total) + (b.env.Rng.Float64()*2-1)*spawnJitter
			dist := radius * (0.3 + b.env.Rng.Float64()*0.7)
			pos := center.Add(geom.FromAngle(angle).Scale(dist))
			a, err := b.SpawnAt(r.Creature, team, pos)
			if err != nil {
				return agents, err
			}
			b.spawnCry(a, float64(i)*spawnStagger)
			agents = append(agents, a)
			i++
		}
	}
	return agents, nil
}

func (b *Battle) spawnCry(a *Agent, delay float64) {
	if len(a.Spec.Sounds) == 0 {
		return
	}
	key := a.Spec.Sounds[b.env.Rng.Intn(len(a.Spec.Sounds))]
	b.clock.After(delay, func(t float64) {
		if a.dead {
			return
		}
		b.emit(Event{T: t, Type: "Sound", Payload: map[string]any{"id": a.ID.String(), "key": key}})
	})
}
