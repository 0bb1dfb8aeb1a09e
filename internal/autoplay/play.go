package autoplay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/board"
	"github.com/vovakirdan/tui-2048/internal/engine"
)

// ErrStalled is returned when a strategy keeps choosing moves that change nothing.
var ErrStalled = errors.New("autoplay: strategy stalled")

// maxRejected is how many consecutive no-op moves Play tolerates.
const maxRejected = 8

// Config controls a headless game.
type Config struct {
	Size       int
	StartTiles int
	SpawnFour  float64
	MaxMoves   int // 0 means play until the board locks
}

// DefaultConfig returns the classic 4x4 setup.
func DefaultConfig() Config {
	return Config{
		Size:       board.DefaultSize,
		StartTiles: 2,
		SpawnFour:  board.DefaultSpawnFour,
	}
}

// Outcome summarises one finished game.
type Outcome struct {
	Game     int
	Seed     int64
	Strategy string
	Score    int
	Moves    int
	MaxTile  int
	Terminal bool // board locked (false when MaxMoves cut the game short)
	Board    board.Grid
}

// tracker is the renderer used for headless games; it only keeps counts.
type tracker struct {
	updates int
	over    bool
	final   int
}

func (t *tracker) BoardChanged([]board.Cell) { t.updates++ }

func (t *tracker) GameOver(maxValue int) {
	t.over = true
	t.final = maxValue
}

// Play runs one game with s until the board locks, MaxMoves is reached or ctx ends.
func Play(ctx context.Context, s Strategy, rng *rand.Rand, cfg Config, logger *log.Logger) (Outcome, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	b, err := board.New(cfg.Size)
	if err != nil {
		return Outcome{}, fmt.Errorf("autoplay: %w", err)
	}

	tr := &tracker{}
	e := engine.New(b, rng,
		engine.WithRenderer(tr),
		engine.WithLogger(logger),
		engine.WithSpawnFour(cfg.SpawnFour),
	)
	e.Start(cfg.StartTiles)

	rejected := 0
	for !e.Terminal() {
		if cfg.MaxMoves > 0 && e.Moves() >= cfg.MaxMoves {
			break
		}
		if err := ctx.Err(); err != nil {
			return outcome(s, e, tr), err
		}

		dir, err := s.NextMove(b.Rows())
		if err != nil {
			return outcome(s, e, tr), err
		}
		if dir == board.DirNone {
			// Only possible on a locked board, which Terminal already covers.
			break
		}

		if res := e.ApplyMove(dir); res.Changed {
			rejected = 0
			continue
		}
		rejected++
		if rejected >= maxRejected {
			return outcome(s, e, tr), fmt.Errorf("%w: %s after %d moves", ErrStalled, s.Name(), e.Moves())
		}
	}

	out := outcome(s, e, tr)
	logger.Debug("game finished",
		"strategy", out.Strategy,
		"score", out.Score,
		"moves", out.Moves,
		"max_tile", out.MaxTile,
	)
	return out, nil
}

func outcome(s Strategy, e *engine.Engine, tr *tracker) Outcome {
	maxTile := e.Board().MaxValue()
	if tr.over {
		maxTile = tr.final
	}
	return Outcome{
		Strategy: s.Name(),
		Score:    e.Score(),
		Moves:    e.Moves(),
		MaxTile:  maxTile,
		Terminal: e.Terminal(),
		Board:    e.Board().Rows(),
	}
}

// Factory builds a fresh strategy for one game.
type Factory func(rng *rand.Rand) (Strategy, error)

// Named returns a Factory for a strategy name accepted by New.
func Named(name string) Factory {
	return func(rng *rand.Rand) (Strategy, error) {
		return New(name, rng)
	}
}

// RunOptions controls RunMany.
type RunOptions struct {
	Games   int
	Workers int
	Seed    int64 // game i uses Seed+i
	Config  Config
	Logger  *log.Logger
}

// RunMany plays opts.Games games across opts.Workers goroutines.
// Outcomes are returned in game order. The first error cancels the rest.
func RunMany(ctx context.Context, newStrategy Factory, opts RunOptions) ([]Outcome, error) {
	if opts.Games <= 0 {
		return nil, nil
	}
	workers := min(max(opts.Workers, 1), opts.Games)
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	outcomes := make([]Outcome, opts.Games)
	jobs := make(chan int)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				seed := opts.Seed + int64(i)
				rng := rand.New(rand.NewSource(seed))

				s, err := newStrategy(rng)
				if err != nil {
					fail(err)
					continue
				}
				out, err := Play(ctx, s, rng, opts.Config, logger.With("game", i+1))
				if c, ok := s.(interface{ Close() }); ok {
					c.Close()
				}
				if err != nil {
					fail(fmt.Errorf("game %d: %w", i+1, err))
					continue
				}

				out.Game = i + 1
				out.Seed = seed
				outcomes[i] = out
				logger.Info("game over", "game", out.Game, "score", out.Score, "max_tile", out.MaxTile, "moves", out.Moves)
			}
		}()
	}

feed:
	for i := range opts.Games {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// Summary aggregates outcomes.
type Summary struct {
	Games     int
	BestScore int
	MeanScore float64
	MaxTile   int
	Tiles     map[int]int // max tile -> number of games that reached it
}

// Summarize aggregates outcomes into a Summary.
func Summarize(outcomes []Outcome) Summary {
	sum := Summary{Games: len(outcomes), Tiles: make(map[int]int)}
	if len(outcomes) == 0 {
		return sum
	}

	total := 0
	for _, o := range outcomes {
		total += o.Score
		sum.BestScore = max(sum.BestScore, o.Score)
		sum.MaxTile = max(sum.MaxTile, o.MaxTile)
		sum.Tiles[o.MaxTile]++
	}
	sum.MeanScore = float64(total) / float64(len(outcomes))
	return sum
}

// TileCounts returns the Tiles histogram sorted by tile value, descending.
func (s Summary) TileCounts() [][2]int {
	out := make([][2]int, 0, len(s.Tiles))
	for tile, n := range s.Tiles {
		out = append(out, [2]int{tile, n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] > out[j][0] })
	return out
}
