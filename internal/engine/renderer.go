package engine

import "github.com/vovakirdan/tui-2048/internal/board"

// Renderer observes the board after the engine finishes a move.
// It never receives write access to the board.
type Renderer interface {
	// BoardChanged receives every cell of the grid after an accepted move
	// or after the starting tiles are placed.
	BoardChanged(cells []board.Cell)

	// GameOver is called once when the board reaches its terminal state,
	// with the highest tile as the session score.
	GameOver(maxValue int)
}

// RendererFuncs adapts plain functions to Renderer. Nil fields are skipped.
type RendererFuncs struct {
	OnChange   func(cells []board.Cell)
	OnGameOver func(maxValue int)
}

// BoardChanged implements Renderer.
func (f RendererFuncs) BoardChanged(cells []board.Cell) {
	if f.OnChange != nil {
		f.OnChange(cells)
	}
}

// GameOver implements Renderer.
func (f RendererFuncs) GameOver(maxValue int) {
	if f.OnGameOver != nil {
		f.OnGameOver(maxValue)
	}
}
