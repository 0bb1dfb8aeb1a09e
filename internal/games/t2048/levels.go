// Package t2048 runs a 2048 session on top of the move engine, with an
// endless mode (play until the board locks) and a target-based campaign.
package t2048

import "github.com/vovakirdan/tui-2048/internal/config"

// Level defines a campaign level with a target tile.
type Level struct {
	ID     int
	Name   string
	Target int     // Target tile value to reach
	Spawn4 float64 // Probability of spawning 4 instead of 2 (0.0-1.0)
}

// levelsFrom converts configured levels to 1-indexed Levels.
func levelsFrom(cfg config.T2048Config) []Level {
	levels := make([]Level, len(cfg.Campaign.Levels))
	for i, l := range cfg.Campaign.Levels {
		levels[i] = Level{ID: i + 1, Name: l.Name, Target: l.Target, Spawn4: l.Spawn4}
	}
	return levels
}

// Levels returns the campaign levels from the active configuration.
func Levels() []Level {
	return levelsFrom(activeConfig())
}

// LevelCount returns the number of campaign levels.
func LevelCount() int {
	return len(activeConfig().Campaign.Levels)
}

// LevelNames returns the names of all levels.
func LevelNames() []string {
	levels := Levels()
	names := make([]string, len(levels))
	for i, lvl := range levels {
		names[i] = lvl.Name
	}
	return names
}

// LevelTargets returns the targets of all levels.
func LevelTargets() []int {
	levels := Levels()
	targets := make([]int, len(levels))
	for i, lvl := range levels {
		targets[i] = lvl.Target
	}
	return targets
}
