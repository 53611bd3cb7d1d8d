// Package arena is the physics substrate under a battle: circular bodies in
// a bounded open field, velocity integration with drag, and overlap
// notification backed by a resolv broad-phase space.
package arena

import (
	"math"

	"brawlsim/internal/geom"

	"github.com/google/uuid"
	"github.com/solarlune/resolv"
)

const tagBody = "body"

type Config struct {
	Width  float64
	Height float64
	// Drag is applied per axis in units/s² while a body coasts.
	Drag float64
	Cell int
}

type body struct {
	id     uuid.UUID
	obj    *resolv.Object
	pos    geom.Vec2
	vel    geom.Vec2
	radius float64
}

type Arena struct {
	cfg    Config
	space  *resolv.Space
	bodies []*body
	byID   map[uuid.UUID]*body
	byObj  map[*resolv.Object]*body
}

func New(cfg Config) *Arena {
	if cfg.Cell <= 0 {
		cfg.Cell = 16
	}
	return &Arena{
		cfg:   cfg,
		space: resolv.NewSpace(int(math.Ceil(cfg.Width))+cfg.Cell, int(math.Ceil(cfg.Height))+cfg.Cell, cfg.Cell, cfg.Cell),
		byID:  map[uuid.UUID]*body{},
		byObj: map[*resolv.Object]*body{},
	}
}

func (a *Arena) Bounds() (w, h float64) { return a.cfg.Width, a.cfg.Height }

func (a *Arena) AddBody(id uuid.UUID, pos geom.Vec2, radius float64) {
	if _, ok := a.byID[id]; ok {
		return
	}
	b := &body{id: id, radius: radius}
	b.pos = a.clamp(pos, radius)
	b.obj = resolv.NewObject(b.pos.X-radius, b.pos.Y-radius, 2*radius, 2*radius, tagBody)
	a.space.Add(b.obj)
	a.bodies = append(a.bodies, b)
	a.byID[id] = b
	a.byObj[b.obj] = b
}

func (a *Arena) RemoveBody(id uuid.UUID) {
	b, ok := a.byID[id]
	if !ok {
		return
	}
	a.space.Remove(b.obj)
	delete(a.byID, id)
	delete(a.byObj, b.obj)
	for i, other := range a.bodies {
		if other == b {
			a.bodies = append(a.bodies[:i], a.bodies[i+1:]...)
			break
		}
	}
}

func (a *Arena) Position(id uuid.UUID) geom.Vec2 {
	if b, ok := a.byID[id]; ok {
		return b.pos
	}
	return geom.Vec2{}
}

func (a *Arena) Velocity(id uuid.UUID) geom.Vec2 {
	if b, ok := a.byID[id]; ok {
		return b.vel
	}
	return geom.Vec2{}
}

func (a *Arena) SetVelocity(id uuid.UUID, v geom.Vec2) {
	if b, ok := a.byID[id]; ok {
		b.vel = v
	}
}

// Nudge displaces a body directly, outside of velocity integration.
func (a *Arena) Nudge(id uuid.UUID, d geom.Vec2) {
	b, ok := a.byID[id]
	if !ok {
		return
	}
	b.pos = a.clamp(b.pos.Add(d), b.radius)
	a.sync(b)
}

// Step advances every body by dt milliseconds, then reports each pair of
// bodies whose circles overlap, once per pair, in insertion order.
func (a *Arena) Step(dt float64, overlap func(x, y uuid.UUID)) {
	secs := dt / 1000
	for _, b := range a.bodies {
		b.vel.X = applyDrag(b.vel.X, a.cfg.Drag*secs)
		b.vel.Y = applyDrag(b.vel.Y, a.cfg.Drag*secs)
		next := b.pos.Add(b.vel.Scale(secs))
		clamped := a.clamp(next, b.radius)
		if clamped.X != next.X {
			b.vel.X = 0
		}
		if clamped.Y != next.Y {
			b.vel.Y = 0
		}
		b.pos = clamped
		a.sync(b)
	}
	if overlap == nil {
		return
	}
	order := make(map[*body]int, len(a.bodies))
	for i, b := range a.bodies {
		order[b] = i
	}
	for i, b := range a.bodies {
		check := b.obj.Check(0, 0, tagBody)
		if check == nil {
			continue
		}
		seen := map[*body]bool{}
		for _, o := range check.ObjectsByTags(tagBody) {
			other, ok := a.byObj[o]
			if !ok || other == b || order[other] <= i || seen[other] {
				continue
			}
			seen[other] = true
			if geom.Distance(b.pos, other.pos) < b.radius+other.radius {
				overlap(b.id, other.id)
			}
		}
	}
}

func (a *Arena) sync(b *body) {
	b.obj.X = b.pos.X - b.radius
	b.obj.Y = b.pos.Y - b.radius
	b.obj.Update()
}

func (a *Arena) clamp(p geom.Vec2, r float64) geom.Vec2 {
	p.X = math.Max(r, math.Min(a.cfg.Width-r, p.X))
	p.Y = math.Max(r, math.Min(a.cfg.Height-r, p.Y))
	return p
}

func applyDrag(v, d float64) float64 {
	switch {
	case v-d > 0:
		return v - d
	case v+d < 0:
		return v + d
	default:
		return 0
	}
}
