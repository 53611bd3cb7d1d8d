package combat

import (
	"encoding/json"
	"fmt"

	"brawlsim/internal/config"
	"brawlsim/internal/geom"
)

type SimInput struct {
	TeamA      []config.SpawnDef `json:"team_a"`
	TeamB      []config.SpawnDef `json:"team_b"`
	MaxTicks   int               `json:"max_ticks"`
	FrameEvery int               `json:"frame_every"`
	Note       string            `json:"note,omitempty"`
}

type SimResult struct {
	Winner           string                    `json:"winner"`
	Draw             bool                      `json:"draw"`
	Timeout          bool                      `json:"timeout"`
	Duration         float64                   `json:"duration"`
	Ticks            int                       `json:"ticks"`
	Sample           string                    `json:"sample,omitempty"`
	Survivors        map[string]map[string]int `json:"survivors"`
	DamageByCreature map[string]int            `json:"damage_by_creature,omitempty"`
	KillsByCreature  map[string]int            `json:"kills_by_creature,omitempty"`
	SplashHits       int                       `json:"splash_hits"`
	FearEvents       int                       `json:"fear_events"`
	ContagionEvents  int                       `json:"contagion_events"`
	Events           []Event                   `json:"events,omitempty"`
	Meta             SimMeta                   `json:"meta"`
}

type SimMeta struct {
	Arena SimArenaMeta  `json:"arena"`
	Teams []SimTeamMeta `json:"teams"`
	Notes []string      `json:"notes,omitempty"`
}

type SimArenaMeta struct {
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	SpeedMultiplier float64 `json:"speed_multiplier"`
	TickMs          float64 `json:"tick_ms"`
}

type SimTeamMeta struct {
	Team      string            `json:"team"`
	Units     int               `json:"units"`
	Price     int               `json:"price"`
	Creatures []SimCreatureMeta `json:"creatures"`
}

type SimCreatureMeta struct {
	Name         string  `json:"name"`
	Count        int     `json:"count"`
	Hitpoints    int     `json:"hitpoints"`
	AttackDamage int     `json:"attack_damage"`
	Speed        float64 `json:"speed"`
	FearFactor   int     `json:"fear_factor"`
	Size         int     `json:"size"`
}

// RunSingle fights one battle to the end or to in.MaxTicks. Spawn errors
// are returned before the first tick; gameplay never fails.
func RunSingle(env *Env, phys Physics, book *Bestiary, opts Options, in SimInput, record bool) (SimResult, error) {
	var events []Event
	emit := func(ev Event) {
		if record {
			events = append(events, ev)
		}
	}

	logLine := func(ts float64, source, id, format string, args ...any) {
		if !record {
			return
		}
		text := fmt.Sprintf(format, args...)
		payload := map[string]any{"text": text}
		if source != "" {
			payload["source"] = source
		}
		if id != "" {
			payload["id"] = id
		}
		emit(Event{T: ts, Type: "LogLine", Payload: payload})
	}

	meta := SimMeta{Arena: SimArenaMeta{
		Width:           opts.ArenaWidth,
		Height:          opts.ArenaHeight,
		SpeedMultiplier: opts.SpeedMultiplier,
		TickMs:          env.Delta,
	}}
	if in.Note != "" {
		meta.Notes = append(meta.Notes, in.Note)
	}
	for _, side := range []struct {
		team Team
		reqs []config.SpawnDef
	}{{TeamA, in.TeamA}, {TeamB, in.TeamB}} {
		tm := SimTeamMeta{Team: side.team.String()}
		for _, r := range side.reqs {
			spec, err := book.Lookup(r.Creature)
			if err != nil {
				return SimResult{}, fmt.Errorf("team %s: %w", side.team, err)
			}
			tm.Units += r.Count
			tm.Price += spec.Price * r.Count
			tm.Creatures = append(tm.Creatures, SimCreatureMeta{
				Name:         spec.Name,
				Count:        r.Count,
				Hitpoints:    spec.Hitpoints,
				AttackDamage: spec.AttackDamage,
				Speed:        spec.Speed,
				FearFactor:   spec.FearFactor,
				Size:         spec.Size,
			})
		}
		meta.Teams = append(meta.Teams, tm)
	}

	b := NewBattle(env, phys, book, opts, emit)
	if _, err := b.Spawn(TeamA, in.TeamA); err != nil {
		return SimResult{}, err
	}
	if _, err := b.Spawn(TeamB, in.TeamB); err != nil {
		return SimResult{}, err
	}
	for _, tm := range meta.Teams {
		logLine(env.Time, "system", "", "team %s fields %d creatures worth %d", tm.Team, tm.Units, tm.Price)
	}

	res := SimResult{
		DamageByCreature: map[string]int{},
		KillsByCreature:  map[string]int{},
	}
	b.Hooks.Hit = func(attacker, victim *Agent, dmg int, splash bool) {
		res.DamageByCreature[attacker.Spec.Name] += dmg
		if splash {
			res.SplashHits++
		}
		if !victim.IsDead() && victim.HP() <= dmg {
			res.KillsByCreature[attacker.Spec.Name]++
		}
	}
	b.Hooks.Death = func(a *Agent) {
		logLine(b.Now(), "agent", a.ID.String(), "%s (%s) is down", a.Spec.Name, a.Team)
	}
	b.Hooks.Afraid = func(a *Agent, contagion bool) {
		res.FearEvents++
		if contagion {
			res.ContagionEvents++
			logLine(b.Now(), "agent", a.ID.String(), "%s (%s) panics as an ally falls", a.Spec.Name, a.Team)
			return
		}
		logLine(b.Now(), "agent", a.ID.String(), "%s (%s) flees", a.Spec.Name, a.Team)
	}
	b.Hooks.End = func(winner Team) {
		logLine(b.Now(), "system", "", "battle over, winner %s", winner)
	}

	frameEvery := in.FrameEvery
	b.CheckElimination()
	for !b.IsOver() && b.Ticks() < in.MaxTicks {
		b.Tick()
		if record && frameEvery > 0 && b.Ticks()%frameEvery == 0 {
			emit(frame(b))
		}
	}

	res.Ticks = b.Ticks()
	res.Duration = b.Now()
	res.Timeout = !b.IsOver()
	if b.IsOver() && b.Winner() != TeamNone {
		res.Winner = b.Winner().String()
		res.Sample, _ = b.SurvivorSample()
	} else {
		res.Draw = true
	}
	if res.Timeout {
		logLine(b.Now(), "system", "", "no winner after %d ticks", res.Ticks)
	}
	res.Survivors = map[string]map[string]int{
		TeamA.String(): b.Survivors(TeamA),
		TeamB.String(): b.Survivors(TeamB),
	}
	res.Meta = meta
	if record {
		res.Events = events
	}
	return res, nil
}

// frame snapshots every body still on the field for viewers.
func frame(b *Battle) Event {
	var units []map[string]any
	for _, team := range []Team{TeamA, TeamB} {
		for _, a := range b.rosters[team].All() {
			p := a.Position()
			units = append(units, map[string]any{
				"id": a.ID.String(), "team": team.String(), "x": p.X, "y": p.Y,
				"hp": a.hp, "state": a.state.String(), "dir": geom.Direction8(a.facing),
			})
		}
	}
	return Event{T: b.Now(), Type: "Frame", Payload: map[string]any{"units": units}}
}

func MarshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
