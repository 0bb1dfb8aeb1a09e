package t2048

import "github.com/vovakirdan/tui-2048/internal/board"

// boardView is the game's copy of what the engine last reported.
// Rendering reads only from here, never from the engine's board.
type boardView struct {
	cells   board.Grid
	final   int // max tile reported at game over
	over    bool
	updates int
}

func newBoardView(size int) *boardView {
	return &boardView{cells: board.NewGrid(size)}
}

// BoardChanged implements engine.Renderer.
func (v *boardView) BoardChanged(cells []board.Cell) {
	for _, c := range cells {
		v.cells[c.Row][c.Col] = c.Value
	}
	v.updates++
}

// GameOver implements engine.Renderer.
func (v *boardView) GameOver(maxValue int) {
	v.over = true
	v.final = maxValue
}

func (v *boardView) size() int {
	return len(v.cells)
}

func (v *boardView) value(row, col int) int {
	return v.cells[row][col]
}

func (v *boardView) maxTile() int {
	m := 0
	for _, row := range v.cells {
		for _, val := range row {
			m = max(m, val)
		}
	}
	return m
}
