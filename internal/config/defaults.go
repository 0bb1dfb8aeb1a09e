package config

import (
	_ "embed"
)

//go:embed defaults/t2048.yaml
var defaultT2048YAML []byte

// DefaultT2048Config returns the hardcoded default 2048 configuration.
// Used when the embedded YAML cannot be parsed.
func DefaultT2048Config() T2048Config {
	return T2048Config{
		Board: BoardConfig{
			Size:       4,
			StartTiles: 2,
		},
		Spawn: SpawnConfig{
			FourProbability: 0.10,
			Progression:     true,
		},
		Campaign: CampaignConfig{
			// Targets are realistic for a 4x4 grid (8192 is very hard but achievable).
			Levels: []LevelConfig{
				{Name: "Warm-up", Target: 128, Spawn4: 0.10},
				{Name: "Getting Started", Target: 256, Spawn4: 0.10},
				{Name: "Building Momentum", Target: 512, Spawn4: 0.10},
				{Name: "The Climb", Target: 1024, Spawn4: 0.10},
				{Name: "Classic 2048", Target: 2048, Spawn4: 0.10},
				{Name: "Beyond Limits", Target: 4096, Spawn4: 0.12},
				{Name: "Master Class", Target: 8192, Spawn4: 0.15},
				{Name: "Expert Challenge", Target: 8192, Spawn4: 0.18},
				{Name: "Grandmaster", Target: 8192, Spawn4: 0.20},
				{Name: "Ultimate Champion", Target: 8192, Spawn4: 0.25},
			},
		},
		Display: DisplayConfig{
			TickRate: 30,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultT2048YAML
}
