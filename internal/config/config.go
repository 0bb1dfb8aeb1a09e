// Package config provides YAML-based game configuration loading and
// difficulty presets for the 2048 game.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

// T2048Config contains all configuration for the 2048 game.
type T2048Config struct {
	Board    BoardConfig    `yaml:"board"`
	Spawn    SpawnConfig    `yaml:"spawn"`
	Campaign CampaignConfig `yaml:"campaign"`
	Display  DisplayConfig  `yaml:"display"`
}

// BoardConfig defines the grid.
type BoardConfig struct {
	Size       int `yaml:"size"`        // Board dimension (N for an N×N grid)
	StartTiles int `yaml:"start_tiles"` // Tiles placed before the first move
}

// SpawnConfig defines random tile placement.
type SpawnConfig struct {
	FourProbability float64 `yaml:"four_probability"` // Chance a new tile is 4 rather than 2
	Progression     bool    `yaml:"progression"`      // Campaign levels override FourProbability
}

// CampaignConfig lists the campaign levels in order.
type CampaignConfig struct {
	Levels []LevelConfig `yaml:"levels"`
}

// LevelConfig defines a campaign level with a target tile.
type LevelConfig struct {
	Name   string  `yaml:"name"`
	Target int     `yaml:"target"` // Target tile value to reach
	Spawn4 float64 `yaml:"spawn4"` // Probability of spawning 4 instead of 2 (0.0-1.0)
}

// DisplayConfig holds platform settings.
type DisplayConfig struct {
	TickRate int `yaml:"tick_rate"` // Simulation ticks per second
}

// Validate checks that every field is usable.
func (c T2048Config) Validate() error {
	if c.Board.Size < 2 || c.Board.Size > 8 {
		return fmt.Errorf("%w: board.size %d out of range 2-8", ErrInvalidConfig, c.Board.Size)
	}
	if c.Board.StartTiles < 0 || c.Board.StartTiles > c.Board.Size*c.Board.Size {
		return fmt.Errorf("%w: board.start_tiles %d", ErrInvalidConfig, c.Board.StartTiles)
	}
	if c.Spawn.FourProbability < 0 || c.Spawn.FourProbability > 1 {
		return fmt.Errorf("%w: spawn.four_probability %v", ErrInvalidConfig, c.Spawn.FourProbability)
	}
	for i, lvl := range c.Campaign.Levels {
		if lvl.Target < 4 || lvl.Target&(lvl.Target-1) != 0 {
			return fmt.Errorf("%w: campaign level %d target %d is not a power of two >= 4", ErrInvalidConfig, i+1, lvl.Target)
		}
		if lvl.Spawn4 < 0 || lvl.Spawn4 > 1 {
			return fmt.Errorf("%w: campaign level %d spawn4 %v", ErrInvalidConfig, i+1, lvl.Spawn4)
		}
	}
	if c.Display.TickRate < 0 {
		return fmt.Errorf("%w: display.tick_rate %d", ErrInvalidConfig, c.Display.TickRate)
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// FourProbabilityForPreset returns the base spawn-4 probability for a preset.
func FourProbabilityForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.05
	case DifficultyHard:
		return 0.2
	default:
		return 0.1
	}
}

// ApplyT2048Preset modifies the config based on a difficulty preset.
// Fixed keeps the configured probability for every campaign level.
func ApplyT2048Preset(cfg *T2048Config, preset DifficultyPreset) {
	switch preset {
	case "":
		return
	case DifficultyFixed:
		cfg.Spawn.Progression = false
	default:
		cfg.Spawn.Progression = true
		cfg.Spawn.FourProbability = FourProbabilityForPreset(preset)
	}
}

// ParsePreset validates a preset name. Empty means no preset.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}
