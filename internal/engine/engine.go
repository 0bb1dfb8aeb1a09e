// Package engine applies directional moves to a board: orientation
// normalisation, repeated shift-and-merge passes, tile spawning and
// terminal-state detection. Renderers are notified only after a move resolves.
package engine

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/board"
)

// Result describes the outcome of one ApplyMove call.
type Result struct {
	Changed  bool        // board changed; a tile was spawned and renderers notified
	Terminal bool        // board is full with no legal merges
	Spawned  *board.Cell // tile placed after the move, nil if none
	Merges   int
	Gained   int // score gained from merges this move
	MaxValue int
}

// Engine owns move resolution for a single board.
// It is not safe for concurrent use; one session drives one engine.
type Engine struct {
	board     *board.Board
	rng       board.RandomSource
	renderer  Renderer
	logger    *log.Logger
	spawnFour float64

	score    int
	moves    int
	terminal bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithRenderer sets the collaborator notified after accepted moves.
func WithRenderer(r Renderer) Option {
	return func(e *Engine) {
		if r != nil {
			e.renderer = r
		}
	}
}

// WithLogger sets the logger used for move tracing.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithSpawnFour sets the probability (0.0-1.0) of spawning a 4 instead of a 2.
func WithSpawnFour(p float64) Option {
	return func(e *Engine) {
		if p >= 0 && p <= 1 {
			e.spawnFour = p
		}
	}
}

// New creates an engine for b using rng for tile spawning.
func New(b *board.Board, rng board.RandomSource, opts ...Option) *Engine {
	e := &Engine{
		board:     b,
		rng:       rng,
		renderer:  RendererFuncs{},
		logger:    log.New(io.Discard),
		spawnFour: board.DefaultSpawnFour,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.terminal = b.Stuck()
	return e
}

// Board returns the engine's board. Callers must treat it as read-only.
func (e *Engine) Board() *board.Board {
	return e.board
}

// Score returns the sum of all merge results so far.
func (e *Engine) Score() int {
	return e.score
}

// Moves returns the number of accepted moves.
func (e *Engine) Moves() int {
	return e.moves
}

// Terminal reports whether the board is full with no legal merges.
func (e *Engine) Terminal() bool {
	return e.terminal
}

// SetSpawnFour changes the spawn-4 probability for subsequent spawns.
func (e *Engine) SetSpawnFour(p float64) {
	if p >= 0 && p <= 1 {
		e.spawnFour = p
	}
}

// Start places n random tiles and notifies the renderer of the starting board.
func (e *Engine) Start(n int) {
	for range n {
		if _, ok := e.board.SpawnRandomTile(e.rng, e.spawnFour); !ok {
			break
		}
	}
	e.terminal = e.board.Stuck()
	e.renderer.BoardChanged(e.board.Cells())
	if e.terminal {
		e.renderer.GameOver(e.board.MaxValue())
	}
}

// ApplyMove resolves one directional input.
// Invalid directions and moves that change nothing leave the board untouched
// and report Changed=false.
func (e *Engine) ApplyMove(dir board.Direction) Result {
	if !dir.Valid() {
		return Result{Terminal: e.terminal, MaxValue: e.board.MaxValue()}
	}

	grid, st := Shift(e.board.Rows(), dir)
	if !st.Changed {
		return Result{Terminal: e.terminal, MaxValue: e.board.MaxValue()}
	}

	e.board.Load(grid)
	e.score += st.Gained
	e.moves++

	res := Result{
		Changed: true,
		Merges:  st.Merges,
		Gained:  st.Gained,
	}

	if cell, ok := e.board.SpawnRandomTile(e.rng, e.spawnFour); ok {
		res.Spawned = &cell
	}
	res.MaxValue = e.board.MaxValue()

	e.renderer.BoardChanged(e.board.Cells())

	e.logger.Debug("move accepted",
		"dir", dir,
		"merges", st.Merges,
		"gained", st.Gained,
		"max", res.MaxValue,
	)

	if len(e.board.EmptyPositions()) == 0 && !e.board.HasMerge() {
		e.terminal = true
		res.Terminal = true
		e.logger.Info("board stuck", "max", res.MaxValue, "score", e.score, "moves", e.moves)
		e.renderer.GameOver(res.MaxValue)
	}

	return res
}
