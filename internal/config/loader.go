package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	CreaturesFile = "creatures.yaml"
	BattleFile    = "battle.yaml"
)

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

func LoadCreatures(path string) (*CreaturesConfig, error) {
	var cc CreaturesConfig
	if err := loadYAML(path, &cc); err != nil {
		return nil, fmt.Errorf("load creatures %s: %w", path, err)
	}
	if err := cc.Validate(); err != nil {
		return nil, err
	}
	return &cc, nil
}

func LoadBattle(path string) (*BattleConfig, error) {
	bc := DefaultBattle()
	if err := loadYAML(path, &bc); err != nil {
		return nil, fmt.Errorf("load battle %s: %w", path, err)
	}
	if err := bc.Validate(); err != nil {
		return nil, err
	}
	return &bc, nil
}

func LoadAll(dir string) (*CreaturesConfig, *BattleConfig, error) {
	cc, err := LoadCreatures(filepath.Join(dir, CreaturesFile))
	if err != nil {
		return nil, nil, err
	}
	bc, err := LoadBattle(filepath.Join(dir, BattleFile))
	if err != nil {
		return nil, nil, err
	}
	return cc, bc, nil
}
