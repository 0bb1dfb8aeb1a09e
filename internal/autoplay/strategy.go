// Package autoplay drives the move engine without a terminal: a Strategy
// picks directions from the current grid and Play feeds them to an Engine
// until the board locks.
package autoplay

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/vovakirdan/tui-2048/internal/board"
	"github.com/vovakirdan/tui-2048/internal/engine"
)

// ErrUnknownStrategy is returned by New for unrecognised names.
var ErrUnknownStrategy = errors.New("autoplay: unknown strategy")

// Strategy chooses the next direction for a grid.
// It returns board.DirNone only when no direction changes the grid.
// Implementations are not shared between concurrent games.
type Strategy interface {
	Name() string
	NextMove(g board.Grid) (board.Direction, error)
}

// Names lists the built-in strategies.
func Names() []string {
	return []string{"random", "corner", "greedy"}
}

// New builds a strategy by name. "lua:PATH" loads a scripted strategy.
func New(name string, rng *rand.Rand) (Strategy, error) {
	if path, ok := strings.CutPrefix(name, "lua:"); ok {
		return NewLuaStrategy(path)
	}

	switch name {
	case "random":
		return &RandomStrategy{rng: rng}, nil
	case "corner":
		return CornerStrategy{}, nil
	case "greedy":
		return GreedyStrategy{}, nil
	}
	return nil, fmt.Errorf("%w %q (want one of %s or lua:PATH)", ErrUnknownStrategy, name, strings.Join(Names(), ", "))
}

// firstLegal returns the first direction in order that changes g.
func firstLegal(g board.Grid, order []board.Direction) board.Direction {
	for _, d := range order {
		if _, st := engine.Shift(g, d); st.Changed {
			return d
		}
	}
	return board.DirNone
}

// RandomStrategy tries directions in a random order and takes the first legal one.
type RandomStrategy struct {
	rng *rand.Rand
}

func (*RandomStrategy) Name() string { return "random" }

func (s *RandomStrategy) NextMove(g board.Grid) (board.Direction, error) {
	order := make([]board.Direction, 0, len(board.Directions))
	for _, i := range s.rng.Perm(len(board.Directions)) {
		order = append(order, board.Directions[i])
	}
	return firstLegal(g, order), nil
}

// cornerOrder keeps large tiles packed into the bottom-left corner.
var cornerOrder = []board.Direction{board.DirDown, board.DirLeft, board.DirRight, board.DirUp}

// CornerStrategy prefers down, then left, then right, and moves up only when forced.
type CornerStrategy struct{}

func (CornerStrategy) Name() string { return "corner" }

func (CornerStrategy) NextMove(g board.Grid) (board.Direction, error) {
	return firstLegal(g, cornerOrder), nil
}

// GreedyStrategy picks the move that leaves the most empty cells,
// breaking ties by merge score and then by corner order.
type GreedyStrategy struct{}

func (GreedyStrategy) Name() string { return "greedy" }

func (GreedyStrategy) NextMove(g board.Grid) (board.Direction, error) {
	best := board.DirNone
	bestEmpty, bestGain := -1, -1

	for _, d := range cornerOrder {
		next, st := engine.Shift(g, d)
		if !st.Changed {
			continue
		}
		empty := countEmpty(next)
		if empty > bestEmpty || (empty == bestEmpty && st.Gained > bestGain) {
			best, bestEmpty, bestGain = d, empty, st.Gained
		}
	}
	return best, nil
}

func countEmpty(g board.Grid) int {
	n := 0
	for _, row := range g {
		for _, v := range row {
			if v == 0 {
				n++
			}
		}
	}
	return n
}
