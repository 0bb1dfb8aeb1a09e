package engine

import "github.com/vovakirdan/tui-2048/internal/board"

// Stats summarises what a shift did to the grid.
type Stats struct {
	Changed bool
	Merges  int
	Gained  int // sum of tile values produced by merges
}

// mergeGuard holds positions whose tile already merged during the current move.
// It lives for exactly one Shift call.
type mergeGuard map[board.Position]struct{}

func (g mergeGuard) has(p board.Position) bool {
	_, ok := g[p]
	return ok
}

// orient maps dir onto the canonical rightward shift.
func orient(g board.Grid, dir board.Direction) board.Grid {
	if dir == board.DirUp || dir == board.DirDown {
		g = g.Transpose()
	}
	if dir == board.DirUp || dir == board.DirLeft {
		g = g.Flip()
	}
	return g
}

// restore undoes orient: flip first, then transpose.
func restore(g board.Grid, dir board.Direction) board.Grid {
	if dir == board.DirUp || dir == board.DirLeft {
		g = g.Flip()
	}
	if dir == board.DirUp || dir == board.DirDown {
		g = g.Transpose()
	}
	return g
}

// Shift returns the grid after sliding and merging every tile towards dir.
// The input grid is never modified. An invalid direction returns a copy of
// the input with zero Stats.
func Shift(g board.Grid, dir board.Direction) (board.Grid, Stats) {
	if !dir.Valid() {
		return g.Clone(), Stats{}
	}

	work := orient(g.Clone(), dir)
	guard := make(mergeGuard)

	var total Stats
	for {
		pass := mergePass(work, guard)
		if !pass.Changed {
			break
		}
		total.Changed = true
		total.Merges += pass.Merges
		total.Gained += pass.Gained
	}

	return restore(work, dir), total
}

// mergePass runs one rightward sweep over every row of work, in place.
// Pairs are visited from the right edge inward so the tiles nearest the
// destination settle first and pair up the way the player expects.
func mergePass(work board.Grid, guard mergeGuard) Stats {
	var st Stats
	for r, row := range work {
		for x := len(row) - 2; x >= 0; x-- {
			if row[x] == 0 {
				continue
			}

			cur := board.Position{Row: r, Col: x}
			next := board.Position{Row: r, Col: x + 1}

			switch {
			case row[x] == row[x+1] && !guard.has(cur) && !guard.has(next):
				row[x+1] *= 2
				row[x] = 0
				guard[cur] = struct{}{}
				guard[next] = struct{}{}
				st.Changed = true
				st.Merges++
				st.Gained += row[x+1]

			case row[x+1] == 0:
				row[x+1] = row[x]
				row[x] = 0
				// The guard follows the tile: the destination takes the
				// moving tile's status and the vacated cell is cleared.
				if guard.has(cur) {
					guard[next] = struct{}{}
				} else {
					delete(guard, next)
				}
				delete(guard, cur)
				st.Changed = true
			}
		}
	}
	return st
}
