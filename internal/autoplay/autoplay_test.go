package autoplay

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-2048/internal/board"
	"github.com/vovakirdan/tui-2048/internal/engine"
)

var stuckGrid = board.Grid{
	{2, 4},
	{4, 2},
}

func TestNewStrategy(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for _, name := range Names() {
		s, err := New(name, rng)
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		if s.Name() != name {
			t.Errorf("New(%q).Name() = %q", name, s.Name())
		}
	}

	if _, err := New("minimax", rng); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("New(minimax) error = %v, want ErrUnknownStrategy", err)
	}
}

func TestStrategiesPickLegalMoves(t *testing.T) {
	grids := []board.Grid{
		{
			{2, 0, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 4, 0},
			{0, 0, 0, 0},
		},
		{
			{2, 4, 8, 16},
			{4, 8, 16, 32},
			{8, 16, 32, 64},
			{16, 32, 64, 64},
		},
		{
			{0, 2, 2, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
		},
	}

	strategies := []Strategy{
		&RandomStrategy{rng: rand.New(rand.NewSource(7))},
		CornerStrategy{},
		GreedyStrategy{},
	}

	for _, s := range strategies {
		for i, g := range grids {
			dir, err := s.NextMove(g)
			if err != nil {
				t.Fatalf("%s grid %d: %v", s.Name(), i, err)
			}
			if _, st := engine.Shift(g, dir); !st.Changed {
				t.Errorf("%s grid %d: picked %v, which changes nothing", s.Name(), i, dir)
			}
		}
	}
}

func TestStrategiesOnStuckGrid(t *testing.T) {
	strategies := []Strategy{
		&RandomStrategy{rng: rand.New(rand.NewSource(7))},
		CornerStrategy{},
		GreedyStrategy{},
	}
	for _, s := range strategies {
		dir, err := s.NextMove(stuckGrid)
		if err != nil {
			t.Fatalf("%s: %v", s.Name(), err)
		}
		if dir != board.DirNone {
			t.Errorf("%s on stuck grid = %v, want none", s.Name(), dir)
		}
	}
}

func TestStrategiesLeaveGridUntouched(t *testing.T) {
	lua, err := NewLuaStrategy("testdata/top_left.lua")
	if err != nil {
		t.Fatalf("NewLuaStrategy: %v", err)
	}
	defer lua.Close()

	strategies := []Strategy{
		&RandomStrategy{rng: rand.New(rand.NewSource(7))},
		CornerStrategy{},
		GreedyStrategy{},
		lua,
	}

	for _, s := range strategies {
		g := board.Grid{
			{2, 2, 0, 0},
			{4, 0, 4, 0},
			{0, 0, 0, 0},
			{0, 0, 0, 0},
		}
		before := g.Clone()
		for i := 0; i < 3; i++ {
			if _, err := s.NextMove(g); err != nil {
				t.Fatalf("%s: %v", s.Name(), err)
			}
		}
		if !g.Equal(before) {
			t.Errorf("%s modified the grid it was shown:\n%v", s.Name(), g)
		}
	}
}

func TestCornerStrategyOrder(t *testing.T) {
	tests := []struct {
		name string
		grid board.Grid
		want board.Direction
	}{
		{
			name: "down first",
			grid: board.Grid{
				{2, 0},
				{0, 0},
			},
			want: board.DirDown,
		},
		{
			name: "left when down is blocked",
			grid: board.Grid{
				{0, 0},
				{0, 2},
			},
			want: board.DirLeft,
		},
		{
			name: "right when down and left are blocked",
			grid: board.Grid{
				{0, 0},
				{2, 0},
			},
			want: board.DirRight,
		},
		{
			name: "up only when forced",
			grid: board.Grid{
				{0, 0},
				{2, 4},
			},
			want: board.DirUp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := CornerStrategy{}.NextMove(tt.grid)
			if got != tt.want {
				t.Errorf("NextMove = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGreedyPrefersMerges(t *testing.T) {
	g := board.Grid{
		{2, 2, 4, 8},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	// Down keeps all four tiles; left or right merges the pair of 2s.
	got, _ := GreedyStrategy{}.NextMove(g)
	if got != board.DirLeft && got != board.DirRight {
		t.Errorf("NextMove = %v, want a horizontal merge", got)
	}
}

func TestLuaStrategy(t *testing.T) {
	tests := []struct {
		name   string
		script string
		grid   board.Grid
		want   board.Direction
	}{
		{
			name:   "symbol from board table",
			script: "testdata/top_left.lua",
			grid: board.Grid{
				{0, 0, 0, 0},
				{0, 2, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			},
			want: board.DirUp,
		},
		{
			name:   "second symbol",
			script: "testdata/top_left.lua",
			grid: board.Grid{
				{2, 0, 0, 0},
				{0, 0, 0, 4},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			},
			want: board.DirLeft,
		},
		{
			name:   "no-op symbol falls back to corner order",
			script: "testdata/top_left.lua",
			grid: board.Grid{
				{0, 2, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			},
			want: board.DirDown,
		},
		{
			name:   "preview builtin",
			script: "testdata/left_first.lua",
			grid: board.Grid{
				{0, 0, 0, 2},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			},
			want: board.DirLeft,
		},
		{
			name:   "preview when left is blocked",
			script: "testdata/left_first.lua",
			grid: board.Grid{
				{2, 0, 0, 0},
				{4, 0, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 0, 0},
			},
			want: board.DirDown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewLuaStrategy(tt.script)
			if err != nil {
				t.Fatalf("NewLuaStrategy: %v", err)
			}
			defer s.Close()

			got, err := s.NextMove(tt.grid)
			if err != nil {
				t.Fatalf("NextMove: %v", err)
			}
			if got != tt.want {
				t.Errorf("NextMove = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLuaStrategyName(t *testing.T) {
	s, err := New("lua:testdata/top_left.lua", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.(*LuaStrategy).Close()

	if s.Name() != "lua:top_left" {
		t.Errorf("Name() = %q, want lua:top_left", s.Name())
	}
}

func TestLuaStrategyLoadErrors(t *testing.T) {
	for _, path := range []string{"testdata/no_entry.lua", "testdata/missing.lua"} {
		if _, err := NewLuaStrategy(path); err == nil {
			t.Errorf("NewLuaStrategy(%s) succeeded, want error", path)
		}
	}
}

func TestPlayReachesLockedBoard(t *testing.T) {
	out, err := Play(context.Background(), CornerStrategy{}, rand.New(rand.NewSource(1)), DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if !out.Terminal {
		t.Error("game did not end on a locked board")
	}
	if out.Moves == 0 {
		t.Error("no moves were played")
	}
	if out.MaxTile < 4 {
		t.Errorf("MaxTile = %d, want at least 4", out.MaxTile)
	}

	b, err := board.FromRows(out.Board)
	if err != nil {
		t.Fatalf("final board: %v", err)
	}
	if !b.Stuck() {
		t.Errorf("final board is not stuck:\n%s", b)
	}
}

func TestPlayDeterministic(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			play := func() Outcome {
				rng := rand.New(rand.NewSource(42))
				s, err := New(name, rng)
				if err != nil {
					t.Fatal(err)
				}
				out, err := Play(context.Background(), s, rng, DefaultConfig(), nil)
				if err != nil {
					t.Fatal(err)
				}
				return out
			}

			a, b := play(), play()
			if a.Score != b.Score || a.Moves != b.Moves || !a.Board.Equal(b.Board) {
				t.Errorf("same seed gave different games: %d/%d moves, %d/%d score", a.Moves, b.Moves, a.Score, b.Score)
			}
		})
	}
}

func TestPlayMaxMoves(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxMoves = 5

	out, err := Play(context.Background(), GreedyStrategy{}, rand.New(rand.NewSource(3)), cfg, nil)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if out.Moves != 5 {
		t.Errorf("Moves = %d, want 5", out.Moves)
	}
	if out.Terminal {
		t.Error("Terminal = true after five moves")
	}
}

type fixedStrategy struct {
	err error
}

func (fixedStrategy) Name() string { return "fixed" }

// NextMove returns a direction that does not change g whenever one exists.
func (s fixedStrategy) NextMove(g board.Grid) (board.Direction, error) {
	if s.err != nil {
		return board.DirNone, s.err
	}
	for _, d := range board.Directions {
		if _, st := engine.Shift(g, d); !st.Changed {
			return d, nil
		}
	}
	return board.DirUp, nil
}

func TestPlayStalled(t *testing.T) {
	_, err := Play(context.Background(), fixedStrategy{}, rand.New(rand.NewSource(5)), DefaultConfig(), nil)
	if !errors.Is(err, ErrStalled) {
		t.Errorf("Play error = %v, want ErrStalled", err)
	}
}

func TestPlayStrategyError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Play(context.Background(), fixedStrategy{err: boom}, rand.New(rand.NewSource(5)), DefaultConfig(), nil)
	if !errors.Is(err, boom) {
		t.Errorf("Play error = %v, want boom", err)
	}
}

func TestPlayCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Play(ctx, CornerStrategy{}, rand.New(rand.NewSource(5)), DefaultConfig(), nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Play error = %v, want context.Canceled", err)
	}
}

func TestRunMany(t *testing.T) {
	opts := RunOptions{
		Games:   6,
		Workers: 3,
		Seed:    100,
		Config:  DefaultConfig(),
	}

	outcomes, err := RunMany(context.Background(), Named("corner"), opts)
	if err != nil {
		t.Fatalf("RunMany: %v", err)
	}
	if len(outcomes) != opts.Games {
		t.Fatalf("len(outcomes) = %d, want %d", len(outcomes), opts.Games)
	}

	for i, out := range outcomes {
		if out.Game != i+1 {
			t.Errorf("outcomes[%d].Game = %d", i, out.Game)
		}
		if out.Seed != opts.Seed+int64(i) {
			t.Errorf("outcomes[%d].Seed = %d", i, out.Seed)
		}
		if !out.Terminal {
			t.Errorf("game %d did not finish", out.Game)
		}
	}

	// The pool must not change what a seed produces.
	single, err := Play(context.Background(), CornerStrategy{}, rand.New(rand.NewSource(102)), opts.Config, nil)
	if err != nil {
		t.Fatal(err)
	}
	if single.Score != outcomes[2].Score || single.Moves != outcomes[2].Moves {
		t.Errorf("game 3 = %d/%d, sequential = %d/%d", outcomes[2].Score, outcomes[2].Moves, single.Score, single.Moves)
	}
}

func TestRunManyErrors(t *testing.T) {
	boom := errors.New("boom")
	failing := func(*rand.Rand) (Strategy, error) { return nil, boom }

	_, err := RunMany(context.Background(), failing, RunOptions{Games: 4, Workers: 2, Config: DefaultConfig()})
	if !errors.Is(err, boom) {
		t.Errorf("RunMany error = %v, want boom", err)
	}

	_, err = RunMany(context.Background(), Named("nope"), RunOptions{Games: 2, Config: DefaultConfig()})
	if !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("RunMany error = %v, want ErrUnknownStrategy", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = RunMany(ctx, Named("corner"), RunOptions{Games: 3, Config: DefaultConfig()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RunMany error = %v, want context.Canceled", err)
	}
}

func TestSummarize(t *testing.T) {
	sum := Summarize([]Outcome{
		{Score: 100, MaxTile: 64},
		{Score: 300, MaxTile: 128},
		{Score: 200, MaxTile: 128},
	})

	if sum.Games != 3 {
		t.Errorf("Games = %d", sum.Games)
	}
	if sum.BestScore != 300 {
		t.Errorf("BestScore = %d", sum.BestScore)
	}
	if sum.MeanScore != 200 {
		t.Errorf("MeanScore = %v", sum.MeanScore)
	}
	if sum.MaxTile != 128 {
		t.Errorf("MaxTile = %d", sum.MaxTile)
	}

	counts := sum.TileCounts()
	want := [][2]int{{128, 2}, {64, 1}}
	if len(counts) != len(want) {
		t.Fatalf("TileCounts = %v, want %v", counts, want)
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("TileCounts[%d] = %v, want %v", i, counts[i], want[i])
		}
	}

	if empty := Summarize(nil); empty.Games != 0 || empty.MeanScore != 0 {
		t.Errorf("Summarize(nil) = %+v", empty)
	}
}
