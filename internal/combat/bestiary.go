package combat

import (
	"fmt"
	"math"

	"brawlsim/internal/config"
)

// CreatureSpec is the immutable stat line of one creature type.
type CreatureSpec struct {
	Name         string
	Hitpoints    int
	AttackDamage int
	Speed        float64
	FearFactor   int
	Price        int
	Size         int
	Sounds       []string
	AttackAnims  []string
}

// HitboxRadius shrinks small creatures so crowds can pack in.
func (cs CreatureSpec) HitboxRadius() float64 {
	return 4 * math.Max(0.3, math.Min(1.0, float64(cs.Size)/5))
}

func (cs CreatureSpec) Splashes() bool { return cs.Size >= 4 }

func (cs CreatureSpec) SplashTargets() int {
	if cs.Size-2 > 2 {
		return cs.Size - 2
	}
	return 2
}

func (cs CreatureSpec) SplashDamage() int { return cs.AttackDamage / 2 }

// ImpactCategory picks the impact sound family for a creature size.
func ImpactCategory(size int) string {
	switch {
	case size <= 2:
		return "small"
	case size <= 4:
		return "medium"
	}
	return "large"
}

// Bestiary is the read-only stat table, keyed by creature name.
type Bestiary struct {
	byName map[string]CreatureSpec
	order  []string
}

func NewBestiary(cfg *config.CreaturesConfig) (*Bestiary, error) {
	b := &Bestiary{byName: map[string]CreatureSpec{}}
	if cfg == nil {
		return b, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, c := range cfg.Creatures {
		spec := CreatureSpec{
			Name:         c.Name,
			Hitpoints:    c.Hitpoints,
			AttackDamage: c.AttackDamage,
			Speed:        c.Speed,
			FearFactor:   c.FearFactor,
			Price:        c.Price,
			Size:         c.Size,
			Sounds:       append([]string(nil), c.Sounds...),
			AttackAnims:  append([]string(nil), c.AttackAnims...),
		}
		if len(spec.AttackAnims) == 0 {
			spec.AttackAnims = []string{"attack1"}
		}
		b.byName[c.Name] = spec
		b.order = append(b.order, c.Name)
	}
	return b, nil
}

// Add registers a creature directly; later entries replace earlier ones.
func (b *Bestiary) Add(spec CreatureSpec) {
	if len(spec.AttackAnims) == 0 {
		spec.AttackAnims = []string{"attack1"}
	}
	if _, ok := b.byName[spec.Name]; !ok {
		b.order = append(b.order, spec.Name)
	}
	b.byName[spec.Name] = spec
}

func (b *Bestiary) Lookup(name string) (CreatureSpec, error) {
	spec, ok := b.byName[name]
	if !ok {
		return CreatureSpec{}, fmt.Errorf("%w: %q", ErrUnknownCreature, name)
	}
	return spec, nil
}

func (b *Bestiary) Names() []string { return append([]string(nil), b.order...) }
