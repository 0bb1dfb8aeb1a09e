package t2048

import "github.com/vovakirdan/tui-2048/internal/board"

// popDurationSeconds is how long a freshly spawned tile stays highlighted.
const popDurationSeconds = 0.4

// spawnPop highlights the tile placed after the last accepted move.
type spawnPop struct {
	row, col  int
	remaining int // ticks left
}

// startPop begins highlighting cell for the configured duration.
func (g *Game) startPop(cell *board.Cell) {
	if cell == nil {
		g.pop = nil
		return
	}
	ticks := int(popDurationSeconds * float64(g.tickRate))
	g.pop = &spawnPop{row: cell.Row, col: cell.Col, remaining: max(ticks, 1)}
}

// updatePop advances the highlight. Returns true while it is active.
func (g *Game) updatePop() bool {
	if g.pop == nil {
		return false
	}
	g.pop.remaining--
	if g.pop.remaining <= 0 {
		g.pop = nil
		return false
	}
	return true
}

// popping reports whether (row, col) is the highlighted tile.
func (g *Game) popping(row, col int) bool {
	return g.pop != nil && g.pop.row == row && g.pop.col == col
}
