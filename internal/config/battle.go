package config

import (
	"fmt"
	"strconv"
	"strings"
)

type BattleConfig struct {
	Note            string     `yaml:"note"`
	Seed            int64      `yaml:"seed"`
	TickMs          float64    `yaml:"tick_ms"`
	MaxTicks        int        `yaml:"max_ticks"`
	SpeedMultiplier float64    `yaml:"speed_multiplier"`
	Blood           bool       `yaml:"blood"`
	DeathGraceMs    float64    `yaml:"death_grace_ms"`
	FrameEvery      int        `yaml:"frame_every"`
	Arena           ArenaDef   `yaml:"arena"`
	TeamA           []SpawnDef `yaml:"team_a"`
	TeamB           []SpawnDef `yaml:"team_b"`
}

type ArenaDef struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Drag   float64 `yaml:"drag"`
	Cell   int     `yaml:"cell"`
}

type SpawnDef struct {
	Creature string `yaml:"creature"`
	Count    int    `yaml:"count"`
}

// DefaultBattle mirrors assets/battle.yaml; loaded files only override
// the fields they set.
func DefaultBattle() BattleConfig {
	return BattleConfig{
		Seed:            12345,
		TickMs:          1000.0 / 60.0,
		MaxTicks:        36000,
		SpeedMultiplier: 4,
		Blood:           true,
		DeathGraceMs:    1500,
		FrameEvery:      30,
		Arena:           ArenaDef{Width: 1280, Height: 720, Drag: 500, Cell: 16},
	}
}

func (b *BattleConfig) Validate() error {
	if b.TickMs <= 0 {
		return fmt.Errorf("battle: tick_ms must be positive, got %v", b.TickMs)
	}
	if b.MaxTicks <= 0 {
		return fmt.Errorf("battle: max_ticks must be positive, got %d", b.MaxTicks)
	}
	if b.Arena.Width <= 0 || b.Arena.Height <= 0 {
		return fmt.Errorf("battle: arena size %vx%v is not usable", b.Arena.Width, b.Arena.Height)
	}
	if b.Arena.Cell <= 0 {
		return fmt.Errorf("battle: arena cell must be positive, got %d", b.Arena.Cell)
	}
	return nil
}

// ParseRoster reads a CLI team list such as "Black Bear:2,Chicken:10".
// A bare name counts as one creature.
func ParseRoster(s string) ([]SpawnDef, error) {
	var out []SpawnDef
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, count := part, 1
		if i := strings.LastIndex(part, ":"); i >= 0 {
			n, err := strconv.Atoi(strings.TrimSpace(part[i+1:]))
			if err != nil {
				return nil, fmt.Errorf("roster entry %q: bad count: %w", part, err)
			}
			name, count = strings.TrimSpace(part[:i]), n
		}
		if name == "" {
			return nil, fmt.Errorf("roster entry %q: missing creature name", part)
		}
		out = append(out, SpawnDef{Creature: name, Count: count})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("roster %q is empty", s)
	}
	return out, nil
}
