package ws

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-2048/internal/board"
	"github.com/vovakirdan/tui-2048/internal/engine"
)

// Message types.
const (
	TypeMove     = "move"
	TypeRestart  = "restart"
	TypeState    = "state"
	TypeGameOver = "game_over"
	TypeError    = "error"
)

// Error codes sent in error messages.
const (
	CodeBadMessage   = "BAD_MESSAGE"
	CodeBadDirection = "BAD_DIRECTION"
	CodeUnknownType  = "UNKNOWN_TYPE"
)

// Command is a client message. A bare text frame such as "left" or "w" is
// read as a move; "restart" as a restart.
type Command struct {
	T   string `json:"t"`
	Dir string `json:"dir,omitempty"`
}

// TileMsg is a single placed tile.
type TileMsg struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Value int `json:"value"`
}

// StateMsg is sent after every command.
type StateMsg struct {
	T        string     `json:"t"`
	Session  string     `json:"session"`
	Board    board.Grid `json:"board"`
	Score    int        `json:"score"`
	Moves    int        `json:"moves"`
	MaxTile  int        `json:"max_tile"`
	Changed  bool       `json:"changed"`
	GameOver bool       `json:"game_over"`
	Spawned  *TileMsg   `json:"spawned,omitempty"`
}

// GameOverMsg follows the state message of the move that locked the board.
type GameOverMsg struct {
	T       string `json:"t"`
	MaxTile int    `json:"max_tile"`
	Score   int    `json:"score"`
}

// ErrorMsg reports a rejected command. The board is unchanged.
type ErrorMsg struct {
	T      string `json:"t"`
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
}

// session is one connection's game. It doubles as the engine's renderer:
// state messages are built from the cells the engine last reported.
type session struct {
	id     uuid.UUID
	cfg    Config
	rng    *rand.Rand
	engine *engine.Engine
	logger *log.Logger

	grid  board.Grid
	over  bool
	final int
}

func newSession(cfg Config, seed int64, logger *log.Logger) (*session, error) {
	id := uuid.New()
	s := &session{
		id:     id,
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger.With("session", id.String()),
	}
	if err := s.reset(); err != nil {
		return nil, err
	}
	s.logger.Debug("session created", "seed", seed)
	return s, nil
}

func (s *session) reset() error {
	b, err := board.New(s.cfg.Size)
	if err != nil {
		return fmt.Errorf("ws: %w", err)
	}
	s.grid = board.NewGrid(s.cfg.Size)
	s.over = false
	s.final = 0
	s.engine = engine.New(b, s.rng,
		engine.WithRenderer(s),
		engine.WithLogger(s.logger),
		engine.WithSpawnFour(s.cfg.SpawnFour),
	)
	s.engine.Start(s.cfg.StartTiles)
	return nil
}

func (s *session) BoardChanged(cells []board.Cell) {
	for _, c := range cells {
		s.grid[c.Row][c.Col] = c.Value
	}
}

func (s *session) GameOver(maxValue int) {
	s.over = true
	s.final = maxValue
}

// handle runs one client frame and returns the replies to send, in order.
func (s *session) handle(data []byte) []any {
	cmd, err := ParseCommand(data)
	if err != nil {
		return []any{ErrorMsg{T: TypeError, Code: CodeBadMessage, Detail: err.Error()}}
	}

	switch cmd.T {
	case TypeMove:
		dir := board.ParseDirection(cmd.Dir)
		if !dir.Valid() {
			return []any{ErrorMsg{T: TypeError, Code: CodeBadDirection, Detail: cmd.Dir}}
		}
		wasOver := s.over
		res := s.engine.ApplyMove(dir)
		var spawned *TileMsg
		if res.Spawned != nil {
			spawned = &TileMsg{Row: res.Spawned.Row, Col: res.Spawned.Col, Value: res.Spawned.Value}
		}
		replies := []any{s.state(res.Changed, spawned)}
		if s.over && !wasOver {
			s.logger.Info("game over", "max_tile", s.final, "score", s.engine.Score())
			replies = append(replies, GameOverMsg{T: TypeGameOver, MaxTile: s.final, Score: s.engine.Score()})
		}
		return replies

	case TypeRestart:
		if err := s.reset(); err != nil {
			return []any{ErrorMsg{T: TypeError, Code: CodeBadMessage, Detail: err.Error()}}
		}
		return []any{s.state(false, nil)}

	case TypeState:
		return []any{s.state(false, nil)}
	}

	return []any{ErrorMsg{T: TypeError, Code: CodeUnknownType, Detail: cmd.T}}
}

func (s *session) state(changed bool, spawned *TileMsg) StateMsg {
	maxTile := 0
	for _, row := range s.grid {
		for _, v := range row {
			maxTile = max(maxTile, v)
		}
	}
	return StateMsg{
		T:        TypeState,
		Session:  s.id.String(),
		Board:    s.grid.Clone(),
		Score:    s.engine.Score(),
		Moves:    s.engine.Moves(),
		MaxTile:  maxTile,
		Changed:  changed,
		GameOver: s.over,
		Spawned:  spawned,
	}
}

// ParseCommand decodes a client frame: either a JSON Command or a bare word.
func ParseCommand(data []byte) (Command, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Command{}, fmt.Errorf("empty message")
	}

	if data[0] == '{' {
		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			return Command{}, fmt.Errorf("decode: %w", err)
		}
		if cmd.T == "" && cmd.Dir != "" {
			cmd.T = TypeMove
		}
		return cmd, nil
	}

	word := strings.Trim(string(data), `"`)
	switch strings.ToLower(word) {
	case TypeRestart, "new":
		return Command{T: TypeRestart}, nil
	case TypeState:
		return Command{T: TypeState}, nil
	}
	return Command{T: TypeMove, Dir: word}, nil
}
