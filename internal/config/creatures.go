package config

import "fmt"

type CreaturesConfig struct {
	Creatures []CreatureDef `yaml:"creatures"`
}

type CreatureDef struct {
	Name         string   `yaml:"name"`
	Hitpoints    int      `yaml:"hitpoints"`
	AttackDamage int      `yaml:"attack_damage"`
	Speed        float64  `yaml:"speed"`
	FearFactor   int      `yaml:"fear_factor"`
	Price        int      `yaml:"price"`
	Size         int      `yaml:"size"`
	Sounds       []string `yaml:"sounds"`
	AttackAnims  []string `yaml:"attack_anims"`
	Note         string   `yaml:"note"`
}

func (c *CreaturesConfig) Validate() error {
	seen := make(map[string]bool, len(c.Creatures))
	for i, cd := range c.Creatures {
		if cd.Name == "" {
			return fmt.Errorf("creature #%d: missing name", i)
		}
		if seen[cd.Name] {
			return fmt.Errorf("creature %q: duplicate entry", cd.Name)
		}
		seen[cd.Name] = true
		if cd.Hitpoints <= 0 {
			return fmt.Errorf("creature %q: hitpoints must be positive, got %d", cd.Name, cd.Hitpoints)
		}
		if cd.Size < 1 || cd.Size > 7 {
			return fmt.Errorf("creature %q: size must be in 1..7, got %d", cd.Name, cd.Size)
		}
		if cd.AttackDamage < 0 || cd.Speed < 0 {
			return fmt.Errorf("creature %q: negative attack_damage or speed", cd.Name)
		}
	}
	return nil
}
