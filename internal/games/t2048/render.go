package t2048

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/tui-2048/internal/core"
)

const (
	cellWidth  = 7 // Width of each cell (including left border)
	cellHeight = 2 // Height of each cell (including top border)
	hudHeight  = 3
)

// boardDimensions returns the drawn width and height of an n×n grid.
func boardDimensions(n int) (w, h int) {
	return n*cellWidth + 1, n*cellHeight + 1
}

// tileColor picks a color per tile magnitude; values past 2048 share one.
func tileColor(v int) core.Color {
	switch v {
	case 2:
		return core.ColorWhite
	case 4:
		return core.ColorBrightWhite
	case 8:
		return core.ColorOrange
	case 16:
		return core.ColorBrightRed
	case 32:
		return core.ColorRed
	case 64:
		return core.ColorMagenta
	case 128:
		return core.ColorBrightYellow
	case 256:
		return core.ColorYellow
	case 512:
		return core.ColorBrightGreen
	case 1024:
		return core.ColorGreen
	case 2048:
		return core.ColorBrightCyan
	default:
		return core.ColorBrightBlue
	}
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.view == nil {
		return
	}

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	boardW, boardH := boardDimensions(g.view.size())
	boardX := (g.screenW - boardW) / 2
	boardY := hudHeight + 1

	g.renderHUD(dst, boardX, boardW)
	g.renderBoard(dst, boardX, boardY)
	g.renderOverlays(dst, boardX, boardY, boardW, boardH)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

// renderHUD draws the score and level info.
func (g *Game) renderHUD(dst *core.Screen, boardX, boardW int) {
	title := "2048"
	dst.DrawTextColored(boardX+(boardW-len(title))/2, 0, title, core.ColorBrightYellow)

	dst.DrawText(boardX, 1, fmt.Sprintf("Score: %d", g.engine.Score()))

	var info string
	if g.mode == ModeCampaign {
		info = fmt.Sprintf("Level %d/%d  Target: %d", g.levelIndex+1, len(g.levels), g.currentTarget)
	} else {
		info = fmt.Sprintf("Max: %d", g.view.maxTile())
	}
	dst.DrawText(max(boardX+boardW-len(info), boardX), 1, info)

	modeStr := fmt.Sprintf("Campaign  Moves: %d", g.engine.Moves())
	if g.mode == ModeEndless {
		modeStr = fmt.Sprintf("Endless  Moves: %d", g.engine.Moves())
	}
	dst.DrawTextColored(boardX+(boardW-len(modeStr))/2, 2, modeStr, core.ColorGray)
}

// gridRune picks the box-drawing rune for grid intersection (x, y) of an n×n grid.
func gridRune(x, y, n int) rune {
	switch {
	case y == 0 && x == 0:
		return '┌'
	case y == 0 && x == n:
		return '┐'
	case y == n && x == 0:
		return '└'
	case y == n && x == n:
		return '┘'
	case y == 0:
		return '┬'
	case y == n:
		return '┴'
	case x == 0:
		return '├'
	case x == n:
		return '┤'
	default:
		return '┼'
	}
}

// renderBoard draws the grid with tiles from the cached view.
func (g *Game) renderBoard(dst *core.Screen, boardX, boardY int) {
	n := g.view.size()

	for y := range n + 1 {
		for x := range n + 1 {
			px := boardX + x*cellWidth
			py := boardY + y*cellHeight
			dst.SetColored(px, py, gridRune(x, y, n), core.ColorGray)

			if x < n {
				for i := 1; i < cellWidth; i++ {
					dst.SetColored(px+i, py, '─', core.ColorGray)
				}
			}
			if y < n {
				for i := 1; i < cellHeight; i++ {
					dst.SetColored(px, py+i, '│', core.ColorGray)
				}
			}
		}
	}

	for row := range n {
		for col := range n {
			val := g.view.value(row, col)
			if val == 0 {
				continue
			}

			cellX := boardX + col*cellWidth + 1
			cellY := boardY + row*cellHeight + 1

			valStr := strconv.Itoa(val)
			padLeft := max((cellWidth-1-len(valStr))/2, 0)

			color := tileColor(val)
			if g.popping(row, col) {
				color = core.ColorBrightGreen
				dst.SetColored(cellX, cellY, '+', color)
			}
			dst.DrawTextColored(cellX+padLeft, cellY, valStr, color)
		}
	}
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *core.Screen, boardX, boardY, boardW, boardH int) {
	area := core.NewRect(boardX, boardY, boardW, boardH)

	switch {
	case g.paused:
		g.drawOverlay(dst, area, "PAUSED", "Press P to resume")
	case g.levelCleared:
		targetStr := fmt.Sprintf("Target %d reached!", g.currentTarget)
		if g.levelIndex >= len(g.levels)-1 {
			g.drawOverlay(dst, area, targetStr, "Final level complete!")
		} else {
			g.drawOverlay(dst, area, targetStr, fmt.Sprintf("Next: Level %d", g.levelIndex+2))
		}
	case g.won:
		g.drawOverlay(dst, area, "CAMPAIGN COMPLETE!", fmt.Sprintf("Score: %d", g.engine.Score()), "Press R to restart")
	case g.gameOver:
		g.drawOverlay(dst, area, "GAME OVER", fmt.Sprintf("Max tile: %d", g.view.final), "Press R to restart")
	}
}

// drawOverlay draws a text box centered on area, shifted as needed to stay on screen.
func (g *Game) drawOverlay(dst *core.Screen, area core.Rect, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	screen := core.NewRect(0, 0, dst.Width(), dst.Height())
	cx, cy := area.Center()
	boxW := maxLen + 4
	boxH := len(lines) + 2
	box := core.NewRect(
		core.Clamp(cx-boxW/2, 0, max(screen.W-boxW, 0)),
		core.Clamp(cy-boxH/2, 0, max(screen.H-boxH, 0)),
		boxW, boxH,
	)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box)

	textX, _ := box.Center()
	for i, line := range lines {
		x := core.Clamp(textX-len(line)/2, 0, max(screen.W-len(line), 0))
		y := box.Y + 1 + i
		if !screen.Contains(x, y) {
			continue
		}
		dst.DrawTextColored(x, y, line, core.ColorBrightWhite)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows/WASD/HJKL: Move | P: Pause | R: Restart | Ctrl+S: Screenshot | Q: Quit"
}
