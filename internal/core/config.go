package core

import "time"

// Tick rate bounds in ticks per second.
const (
	DefaultTickRate = 30
	MaxTickRate     = 120
)

// RuntimeConfig is what a game receives on Reset: the drawable area, the
// simulation rate and the seed for its tile spawner.
type RuntimeConfig struct {
	ScreenW  int
	ScreenH  int
	TickRate int
	Seed     int64 // 0 lets the platform pick one from the clock
}

// DefaultConfig returns an 80x24 area at the default tick rate.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: DefaultTickRate,
	}
}

// Normalize clamps the tick rate into 1..MaxTickRate (0 means default)
// and negative screen sizes to zero.
func (c RuntimeConfig) Normalize() RuntimeConfig {
	switch {
	case c.TickRate <= 0:
		c.TickRate = DefaultTickRate
	case c.TickRate > MaxTickRate:
		c.TickRate = MaxTickRate
	}
	c.ScreenW = max(c.ScreenW, 0)
	c.ScreenH = max(c.ScreenH, 0)
	return c
}

// TickInterval is the wall-clock time between ticks.
func (c RuntimeConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(c.Normalize().TickRate)
}

// GameState is what the platform needs to know about a running game.
type GameState struct {
	Score    int
	MaxTile  int
	GameOver bool // board locked, or the campaign is complete
	Paused   bool
}

// StepResult is returned by Game.Step after each tick.
type StepResult struct {
	State GameState
	Moved bool // an input was accepted and changed the board this tick
}
