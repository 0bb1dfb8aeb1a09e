package engine

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-2048/internal/board"
)

func rowGrid(row ...int) board.Grid {
	g := board.NewGrid(len(row))
	copy(g[0], row)
	return g
}

func TestShiftRightRow(t *testing.T) {
	tests := []struct {
		name   string
		input  []int
		want   []int
		gained int
	}{
		{
			name:   "simple merge",
			input:  []int{2, 2, 0, 0},
			want:   []int{0, 0, 0, 4},
			gained: 4,
		},
		{
			name:   "one merge per tile",
			input:  []int{2, 2, 2, 2},
			want:   []int{0, 0, 4, 4},
			gained: 8,
		},
		{
			name:   "lone tile slides beside merged pair",
			input:  []int{2, 0, 2, 2},
			want:   []int{0, 0, 2, 4},
			gained: 4,
		},
		{
			name:   "merge with trailing tile",
			input:  []int{2, 2, 2, 0},
			want:   []int{0, 0, 2, 4},
			gained: 4,
		},
		{
			name:   "merged tile not reused",
			input:  []int{4, 4, 8, 0},
			want:   []int{0, 0, 8, 8},
			gained: 8,
		},
		{
			name:   "slide into merged neighbour",
			input:  []int{8, 4, 0, 4},
			want:   []int{0, 0, 8, 8},
			gained: 8,
		},
		{
			name:   "gap merge",
			input:  []int{2, 0, 0, 2},
			want:   []int{0, 0, 0, 4},
			gained: 4,
		},
		{
			name:  "no merge possible",
			input: []int{2, 4, 8, 16},
			want:  []int{2, 4, 8, 16},
		},
		{
			name:  "single tile",
			input: []int{0, 4, 0, 0},
			want:  []int{0, 0, 0, 4},
		},
		{
			name:  "empty row",
			input: []int{0, 0, 0, 0},
			want:  []int{0, 0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, st := Shift(rowGrid(tt.input...), board.DirRight)
			for c := range tt.want {
				if got[0][c] != tt.want[c] {
					t.Fatalf("Shift(%v, right) row = %v, want %v", tt.input, got[0], tt.want)
				}
			}
			if st.Gained != tt.gained {
				t.Errorf("Shift(%v, right) gained = %d, want %d", tt.input, st.Gained, tt.gained)
			}
		})
	}
}

func TestShiftLeft(t *testing.T) {
	g := board.Grid{
		{2, 2, 0, 0},
		{4, 0, 4, 0},
		{2, 2, 2, 2},
		{0, 0, 0, 2},
	}
	want := board.Grid{
		{4, 0, 0, 0},
		{8, 0, 0, 0},
		{4, 4, 0, 0},
		{2, 0, 0, 0},
	}

	got, st := Shift(g, board.DirLeft)
	if !got.Equal(want) {
		t.Errorf("Shift left:\n%v\nwant\n%v", got, want)
	}
	if !st.Changed {
		t.Error("Shift left should report a change")
	}
	if st.Gained != 20 {
		t.Errorf("Shift left gained = %d, want 20", st.Gained)
	}
	if st.Merges != 4 {
		t.Errorf("Shift left merges = %d, want 4", st.Merges)
	}
}

func TestShiftUp(t *testing.T) {
	g := board.Grid{
		{2, 4, 2, 0},
		{2, 0, 2, 0},
		{0, 4, 2, 0},
		{0, 0, 2, 2},
	}
	want := board.Grid{
		{4, 8, 4, 2},
		{0, 0, 4, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}

	got, _ := Shift(g, board.DirUp)
	if !got.Equal(want) {
		t.Errorf("Shift up:\n%v\nwant\n%v", got, want)
	}
}

func TestShiftDown(t *testing.T) {
	g := board.Grid{
		{2, 4, 2, 2},
		{2, 0, 2, 0},
		{0, 4, 2, 0},
		{0, 0, 2, 0},
	}
	want := board.Grid{
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 4, 0},
		{4, 8, 4, 2},
	}

	got, _ := Shift(g, board.DirDown)
	if !got.Equal(want) {
		t.Errorf("Shift down:\n%v\nwant\n%v", got, want)
	}
}

func TestShiftDoesNotModifyInput(t *testing.T) {
	g := board.Grid{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	before := g.Clone()

	for _, d := range board.Directions {
		Shift(g, d)
	}
	if !g.Equal(before) {
		t.Errorf("Shift modified its input:\n%v", g)
	}
}

func TestShiftRepeatedOnSameGrid(t *testing.T) {
	tests := []struct {
		name string
		dir  board.Direction
		want board.Grid
	}{
		{"right", board.DirRight, board.Grid{{0, 0, 0, 4}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}}},
		{"left", board.DirLeft, board.Grid{{4, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}}},
		{"down", board.DirDown, board.Grid{{0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {2, 2, 0, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := board.Grid{{2, 2, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}}
			for i := 0; i < 2; i++ {
				got, st := Shift(g, tt.dir)
				if !st.Changed {
					t.Fatalf("call %d: Shift reported no change", i+1)
				}
				if !got.Equal(tt.want) {
					t.Fatalf("call %d: got\n%v\nwant\n%v", i+1, got, tt.want)
				}
			}
		})
	}
}

func TestShiftInvalidDirection(t *testing.T) {
	g := board.Grid{{2, 2}, {0, 0}}
	got, st := Shift(g, board.DirNone)
	if st.Changed || !got.Equal(g) {
		t.Errorf("Shift(DirNone) = %v changed=%v, want unchanged", got, st.Changed)
	}
}

func TestShiftRoundTripWithoutMerges(t *testing.T) {
	// Columns are packed at the bottom with distinct values, so up and
	// down only relocate tiles.
	bottom := board.Grid{
		{0, 0, 0, 0},
		{0, 0, 2, 0},
		{4, 0, 8, 0},
		{16, 2, 32, 64},
	}

	up, _ := Shift(bottom, board.DirUp)
	back, _ := Shift(up, board.DirDown)
	if !back.Equal(bottom) {
		t.Errorf("up then down:\n%v\nwant\n%v", back, bottom)
	}

	// Rows packed left with distinct values: right then left.
	left := board.Grid{
		{2, 4, 0, 0},
		{8, 0, 0, 0},
		{16, 32, 64, 0},
		{0, 0, 0, 0},
	}
	right, _ := Shift(left, board.DirRight)
	back, _ = Shift(right, board.DirLeft)
	if !back.Equal(left) {
		t.Errorf("right then left:\n%v\nwant\n%v", back, left)
	}
}

func TestShiftNeverInventsValues(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	values := []int{0, 0, 0, 2, 4, 8, 16}

	for range 500 {
		g := board.NewGrid(4)
		present := map[int]bool{}
		for r := range g {
			for c := range g[r] {
				v := values[rng.Intn(len(values))]
				g[r][c] = v
				present[v] = true
			}
		}

		for _, d := range board.Directions {
			got, _ := Shift(g, d)
			for r := range got {
				for _, v := range got[r] {
					if v == 0 {
						continue
					}
					if !board.ValidTile(v) {
						t.Fatalf("Shift(%v) produced %d from\n%v", d, v, g)
					}
					if !present[v] && !present[v/2] {
						t.Fatalf("Shift(%v) produced %d not derivable from\n%v", d, v, g)
					}
				}
			}
		}
	}
}

func TestShiftConservesSum(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for range 200 {
		g := board.NewGrid(5)
		sum := 0
		for r := range g {
			for c := range g[r] {
				if rng.Intn(2) == 0 {
					g[r][c] = 2 << rng.Intn(3)
					sum += g[r][c]
				}
			}
		}

		for _, d := range board.Directions {
			got, _ := Shift(g, d)
			after := 0
			for r := range got {
				for _, v := range got[r] {
					after += v
				}
			}
			if after != sum {
				t.Fatalf("Shift(%v) sum %d -> %d", d, sum, after)
			}
		}
	}
}

func TestMergePassGuardTransfersOnSlide(t *testing.T) {
	work := rowGrid(0, 4, 0, 0)
	guard := mergeGuard{{Row: 0, Col: 1}: {}}

	mergePass(work, guard)

	if work[0][2] != 4 {
		t.Fatalf("tile did not slide: %v", work[0])
	}
	if guard.has(board.Position{Row: 0, Col: 1}) {
		t.Error("vacated position still guarded")
	}
	if !guard.has(board.Position{Row: 0, Col: 2}) {
		t.Error("guard did not follow the sliding tile")
	}
}
