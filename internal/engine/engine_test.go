package engine

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/board"
)

// scriptedSource returns scripted values, then zeros / 0.5.
type scriptedSource struct {
	ints   []int
	floats []float64
}

func (s *scriptedSource) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0] % n
	s.ints = s.ints[1:]
	return v
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.5
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

// recorder captures renderer notifications.
type recorder struct {
	changes  int
	last     []board.Cell
	gameOver []int
}

func (r *recorder) BoardChanged(cells []board.Cell) {
	r.changes++
	r.last = cells
}

func (r *recorder) GameOver(maxValue int) {
	r.gameOver = append(r.gameOver, maxValue)
}

func newTestEngine(t *testing.T, rows [][]int, src board.RandomSource, opts ...Option) (*Engine, *recorder) {
	t.Helper()
	b, err := board.FromRows(rows)
	if err != nil {
		t.Fatalf("FromRows() failed: %v", err)
	}
	rec := &recorder{}
	opts = append([]Option{WithRenderer(rec)}, opts...)
	return New(b, src, opts...), rec
}

func TestApplyMoveEndToEnd(t *testing.T) {
	e, rec := newTestEngine(t, [][]int{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}, rand.New(rand.NewSource(1)))

	res := e.ApplyMove(board.DirRight)

	if !res.Changed {
		t.Fatal("ApplyMove(right) changed = false, want true")
	}
	b := e.Board()
	if b.Get(0, 3) != 4 {
		t.Errorf("cell (0,3) = %d, want 4", b.Get(0, 3))
	}

	// Exactly one new tile, somewhere other than the merged 4.
	if res.Spawned == nil {
		t.Fatal("no tile spawned after accepted move")
	}
	if res.Spawned.Value != 2 && res.Spawned.Value != 4 {
		t.Errorf("spawned value %d, want 2 or 4", res.Spawned.Value)
	}
	if res.Spawned.Row == 0 && res.Spawned.Col == 3 {
		t.Error("spawned on top of the merged tile")
	}

	nonZero := 0
	for _, c := range b.Cells() {
		if c.Value != 0 {
			nonZero++
		}
	}
	if nonZero != 2 {
		t.Errorf("non-empty cells = %d, want 2", nonZero)
	}

	if res.Gained != 4 || e.Score() != 4 {
		t.Errorf("gained=%d score=%d, want 4/4", res.Gained, e.Score())
	}
	if rec.changes != 1 {
		t.Errorf("renderer notified %d times, want 1", rec.changes)
	}
	if len(rec.last) != 16 {
		t.Errorf("renderer received %d cells, want 16", len(rec.last))
	}
}

func TestSpawnAddsExactlyOneTile(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	b, _ := board.New(4)
	e := New(b, rng)
	e.Start(2)

	for i := 0; i < 200 && !e.Terminal(); i++ {
		dir := board.Directions[rng.Intn(len(board.Directions))]
		shifted, st := Shift(e.Board().Rows(), dir)
		res := e.ApplyMove(dir)

		if res.Changed != st.Changed {
			t.Fatalf("Shift/ApplyMove disagree on change for %v", dir)
		}
		if !res.Changed {
			continue
		}

		after := e.Board().Rows()
		diffs := 0
		for r := range after {
			for c := range after[r] {
				if after[r][c] == shifted[r][c] {
					continue
				}
				diffs++
				if shifted[r][c] != 0 {
					t.Fatalf("spawn overwrote a tile at (%d,%d)", r, c)
				}
				if v := after[r][c]; v != 2 && v != 4 {
					t.Fatalf("spawned value %d", v)
				}
			}
		}
		if diffs != 1 {
			t.Fatalf("move %d: %d cells differ from shifted grid, want 1", i, diffs)
		}
	}
}

func TestRejectedMoveLeavesBoardUntouched(t *testing.T) {
	rows := [][]int{
		{4, 2, 0, 0},
		{8, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	e, rec := newTestEngine(t, rows, rand.New(rand.NewSource(3)))
	before := e.Board().Rows()

	for _, dir := range []board.Direction{board.DirLeft, board.DirUp, board.DirNone, board.Direction(99)} {
		res := e.ApplyMove(dir)
		if res.Changed {
			t.Errorf("ApplyMove(%v) changed = true, want false", dir)
		}
		if res.Spawned != nil {
			t.Errorf("ApplyMove(%v) spawned a tile", dir)
		}
		if !e.Board().Rows().Equal(before) {
			t.Fatalf("ApplyMove(%v) modified the board:\n%v", dir, e.Board())
		}
	}

	if rec.changes != 0 {
		t.Errorf("renderer notified %d times for rejected moves", rec.changes)
	}
	if e.Moves() != 0 {
		t.Errorf("Moves() = %d, want 0", e.Moves())
	}
}

func TestStuckBoardAcceptsNoMoves(t *testing.T) {
	e, rec := newTestEngine(t, [][]int{
		{2, 4, 8, 16},
		{32, 64, 128, 256},
		{512, 1024, 2048, 4096},
		{8192, 16384, 32768, 65536},
	}, rand.New(rand.NewSource(5)))

	if !e.Terminal() {
		t.Error("Terminal() = false for a stuck board")
	}

	for _, dir := range board.Directions {
		res := e.ApplyMove(dir)
		if res.Changed {
			t.Errorf("ApplyMove(%v) changed a stuck board", dir)
		}
		if !res.Terminal {
			t.Errorf("ApplyMove(%v) Terminal = false", dir)
		}
		if res.MaxValue != 65536 {
			t.Errorf("MaxValue = %d, want 65536", res.MaxValue)
		}
	}
	if rec.changes != 0 || len(rec.gameOver) != 0 {
		t.Errorf("renderer notified on stuck board: changes=%d gameOver=%v", rec.changes, rec.gameOver)
	}
}

func TestMoveIntoTerminalState(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	// Right leaves (0,0) as the only hole; a 2 lands there and nothing can merge.
	src := &scriptedSource{ints: []int{0}, floats: []float64{0.5}}
	e, rec := newTestEngine(t, [][]int{
		{4, 0},
		{8, 2},
	}, src, WithLogger(logger))

	res := e.ApplyMove(board.DirRight)

	if !res.Changed {
		t.Fatal("ApplyMove(right) changed = false")
	}
	if !res.Terminal || !e.Terminal() {
		t.Fatal("board should be terminal after the move")
	}
	want := board.Grid{{2, 4}, {8, 2}}
	if !e.Board().Rows().Equal(want) {
		t.Errorf("board =\n%v\nwant\n%v", e.Board(), want)
	}
	if len(rec.gameOver) != 1 || rec.gameOver[0] != 8 {
		t.Errorf("GameOver calls = %v, want [8]", rec.gameOver)
	}
	if !strings.Contains(buf.String(), "board stuck") {
		t.Errorf("expected terminal log line, got %q", buf.String())
	}
}

func TestFullBoardWithMergeIsNotTerminal(t *testing.T) {
	// Left merges both rows; the spawn fills one of the two freed cells.
	src := &scriptedSource{ints: []int{0}, floats: []float64{0.5}}
	e, rec := newTestEngine(t, [][]int{
		{2, 2},
		{4, 4},
	}, src)

	res := e.ApplyMove(board.DirLeft)
	if !res.Changed {
		t.Fatal("ApplyMove(left) changed = false")
	}
	if res.Terminal {
		t.Errorf("board %v reported terminal", e.Board())
	}
	if len(rec.gameOver) != 0 {
		t.Errorf("GameOver called: %v", rec.gameOver)
	}
}

func TestSpawnFourOption(t *testing.T) {
	src := &scriptedSource{floats: []float64{0.5}}
	e, _ := newTestEngine(t, [][]int{
		{2, 0},
		{0, 0},
	}, src, WithSpawnFour(0.9))

	res := e.ApplyMove(board.DirRight)
	if res.Spawned == nil || res.Spawned.Value != 4 {
		t.Errorf("spawned %+v, want a 4 with spawn-four probability 0.9", res.Spawned)
	}
}

func TestStartNotifiesRenderer(t *testing.T) {
	b, _ := board.New(4)
	rec := &recorder{}
	e := New(b, rand.New(rand.NewSource(8)), WithRenderer(rec))
	e.Start(2)

	if got := 16 - len(b.EmptyPositions()); got != 2 {
		t.Errorf("Start(2) placed %d tiles, want 2", got)
	}
	if rec.changes != 1 {
		t.Errorf("renderer notified %d times, want 1", rec.changes)
	}
}

func TestDeterministicWithSameSeed(t *testing.T) {
	play := func() board.Grid {
		b, _ := board.New(4)
		rng := rand.New(rand.NewSource(12345))
		e := New(b, rng)
		e.Start(2)
		for _, d := range []board.Direction{board.DirLeft, board.DirUp, board.DirRight, board.DirDown, board.DirLeft} {
			e.ApplyMove(d)
		}
		return b.Rows()
	}

	a, b := play(), play()
	if !a.Equal(b) {
		t.Errorf("same seed produced different boards:\n%v\nvs\n%v", a, b)
	}
}
