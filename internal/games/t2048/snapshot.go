package t2048

import "github.com/vovakirdan/tui-2048/internal/board"

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying      GameStateType = "playing"
	StatePaused       GameStateType = "paused"
	StateLevelCleared GameStateType = "level_cleared"
	StateGameOver     GameStateType = "game_over"
	StateWin          GameStateType = "win"
	StatePausedSmall  GameStateType = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick    uint64
	Mode    string // "campaign" or "endless"
	Level   int    // Current level (1-indexed), 0 for endless
	Target  int    // Current target tile value, 0 for endless
	Score   int
	Moves   int
	Board   board.Grid
	MaxTile int
	State   GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.won:
		state = StateWin
	case g.gameOver:
		state = StateGameOver
	case g.levelCleared:
		state = StateLevelCleared
	case g.paused:
		state = StatePaused
	}

	level := 0
	if g.mode == ModeCampaign {
		level = g.levelIndex + 1
	}

	snap := Snapshot{
		Tick:   g.tick,
		Mode:   string(g.mode),
		Level:  level,
		Target: g.currentTarget,
		State:  state,
	}
	if g.view != nil {
		snap.Board = g.view.cells.Clone()
		snap.MaxTile = g.view.maxTile()
		snap.Score = g.engine.Score()
		snap.Moves = g.engine.Moves()
	}
	return snap
}
