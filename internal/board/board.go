// Package board holds the 2048 grid state: tile values, occupancy queries and
// random tile spawning. Mutation is silent; nothing here renders or logs.
package board

import (
	"errors"
	"fmt"
)

// DefaultSize is the classic 4x4 board dimension.
const DefaultSize = 4

// DefaultSpawnFour is the probability that a spawned tile is a 4 instead of a 2.
const DefaultSpawnFour = 0.1

var (
	// ErrInvalidSize is returned when a board dimension is below 2 or rows are not square.
	ErrInvalidSize = errors.New("board: invalid size")
	// ErrInvalidTile is returned when a cell value is neither 0 nor a power of two >= 2.
	ErrInvalidTile = errors.New("board: invalid tile value")
)

// Position addresses a single cell.
type Position struct {
	Row, Col int
}

// Cell is a position together with its value, as handed to renderers.
type Cell struct {
	Row, Col int
	Value    int
}

// RandomSource is the randomness a board needs to spawn tiles.
// *rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
	Float64() float64
}

// Board is an N×N grid of tile values. 0 means empty.
type Board struct {
	size  int
	cells Grid
}

// New creates an empty board of the given size.
func New(size int) (*Board, error) {
	if size < 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return &Board{size: size, cells: NewGrid(size)}, nil
}

// FromRows builds a board from explicit rows. Rows are copied.
func FromRows(rows [][]int) (*Board, error) {
	size := len(rows)
	if size < 2 {
		return nil, fmt.Errorf("%w: %d rows", ErrInvalidSize, size)
	}

	b := &Board{size: size, cells: NewGrid(size)}
	for r, row := range rows {
		if len(row) != size {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidSize, r, len(row), size)
		}
		for c, v := range row {
			if !ValidTile(v) {
				return nil, fmt.Errorf("%w: %d at (%d,%d)", ErrInvalidTile, v, r, c)
			}
			b.cells[r][c] = v
		}
	}
	return b, nil
}

// ValidTile reports whether v is 0 or a power of two >= 2.
func ValidTile(v int) bool {
	if v == 0 {
		return true
	}
	return v >= 2 && v&(v-1) == 0
}

// Size returns the board dimension.
func (b *Board) Size() int {
	return b.size
}

// Get returns the value at (row, col).
func (b *Board) Get(row, col int) int {
	return b.cells[row][col]
}

// Set writes a single cell. This is the only write path into the grid.
func (b *Board) Set(row, col, value int) {
	b.cells[row][col] = value
}

// Rows returns a copy of the grid.
func (b *Board) Rows() Grid {
	return b.cells.Clone()
}

// Load replaces the grid contents cell by cell through Set.
// g must have the board's dimensions.
func (b *Board) Load(g Grid) {
	for r := range b.size {
		for c := range b.size {
			if b.cells[r][c] != g[r][c] {
				b.Set(r, c, g[r][c])
			}
		}
	}
}

// Cells returns every cell in row-major order.
func (b *Board) Cells() []Cell {
	cells := make([]Cell, 0, b.size*b.size)
	for r := range b.size {
		for c := range b.size {
			cells = append(cells, Cell{Row: r, Col: c, Value: b.cells[r][c]})
		}
	}
	return cells
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	return &Board{size: b.size, cells: b.cells.Clone()}
}

// Equal reports whether two boards hold identical values.
func (b *Board) Equal(other *Board) bool {
	if other == nil || other.size != b.size {
		return false
	}
	return b.cells.Equal(other.cells)
}

// EmptyPositions returns all empty cells in row-major order.
func (b *Board) EmptyPositions() []Position {
	var empty []Position
	for r := range b.size {
		for c := range b.size {
			if b.cells[r][c] == 0 {
				empty = append(empty, Position{Row: r, Col: c})
			}
		}
	}
	return empty
}

// Full returns true if no cell is empty.
func (b *Board) Full() bool {
	for r := range b.size {
		for c := range b.size {
			if b.cells[r][c] == 0 {
				return false
			}
		}
	}
	return true
}

// HasMerge returns true if any two horizontally or vertically adjacent
// cells hold the same non-zero value.
func (b *Board) HasMerge() bool {
	for r := range b.size {
		for c := range b.size {
			v := b.cells[r][c]
			if v == 0 {
				continue
			}
			if c < b.size-1 && b.cells[r][c+1] == v {
				return true
			}
			if r < b.size-1 && b.cells[r+1][c] == v {
				return true
			}
		}
	}
	return false
}

// Stuck returns true when the board is full and nothing can merge.
func (b *Board) Stuck() bool {
	return b.Full() && !b.HasMerge()
}

// MaxValue returns the highest tile on the board.
func (b *Board) MaxValue() int {
	maxVal := 0
	for r := range b.size {
		for c := range b.size {
			if b.cells[r][c] > maxVal {
				maxVal = b.cells[r][c]
			}
		}
	}
	return maxVal
}

// SpawnRandomTile places a 2 (or a 4 with probability spawnFour) on a
// uniformly chosen empty cell. On a full board it does nothing and ok is false.
func (b *Board) SpawnRandomTile(src RandomSource, spawnFour float64) (cell Cell, ok bool) {
	empty := b.EmptyPositions()
	if len(empty) == 0 {
		return Cell{}, false
	}

	pos := empty[src.Intn(len(empty))]
	value := 2
	if src.Float64() < spawnFour {
		value = 4
	}

	b.Set(pos.Row, pos.Col, value)
	return Cell{Row: pos.Row, Col: pos.Col, Value: value}, true
}

// String renders the board as space-separated rows.
func (b *Board) String() string {
	return b.cells.String()
}
