package board

import (
	"strconv"
	"strings"
)

// Grid is a square matrix of tile values indexed [row][col].
// Transforms on Grid never modify the receiver.
type Grid [][]int

// NewGrid allocates an empty size×size grid.
func NewGrid(size int) Grid {
	g := make(Grid, size)
	for r := range g {
		g[r] = make([]int, size)
	}
	return g
}

// Clone returns a deep copy.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for r, row := range g {
		out[r] = append([]int(nil), row...)
	}
	return out
}

// Equal reports whether both grids hold the same values.
func (g Grid) Equal(other Grid) bool {
	if len(g) != len(other) {
		return false
	}
	for r := range g {
		if len(g[r]) != len(other[r]) {
			return false
		}
		for c := range g[r] {
			if g[r][c] != other[r][c] {
				return false
			}
		}
	}
	return true
}

// Transpose returns a new grid with rows and columns swapped.
func (g Grid) Transpose() Grid {
	out := NewGrid(len(g))
	for r := range g {
		for c := range g[r] {
			out[c][r] = g[r][c]
		}
	}
	return out
}

// Flip returns a new grid with every row reversed.
func (g Grid) Flip() Grid {
	n := len(g)
	out := NewGrid(n)
	for r := range g {
		for c := range g[r] {
			out[r][n-1-c] = g[r][c]
		}
	}
	return out
}

// String renders rows separated by newlines, cells by spaces.
func (g Grid) String() string {
	var sb strings.Builder
	for r, row := range g {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c, v := range row {
			if c > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.Itoa(v))
		}
	}
	return sb.String()
}
