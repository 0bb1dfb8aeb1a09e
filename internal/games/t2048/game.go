package t2048

import (
	"io"
	"math/rand"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/board"
	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeEndless  Mode = "endless"
	ModeCampaign Mode = "campaign"
)

// Registered game IDs.
const (
	IDEndless  = "2048"
	IDCampaign = "2048_campaign"
)

// Game implements the 2048 puzzle for the platform tick loop.
type Game struct {
	mode   Mode
	cfg    config.T2048Config
	rng    *rand.Rand
	engine *engine.Engine
	view   *boardView
	pop    *spawnPop
	tick   uint64

	levels        []Level
	startLevel    int // 1-based campaign level Reset starts from, 0 = first
	levelIndex    int // Current level (0-indexed)
	currentTarget int // Current tile target
	tickRate      int

	// Screen dimensions
	screenW int
	screenH int

	// Game state flags
	gameOver        bool
	levelCleared    bool
	won             bool
	paused          bool
	tooSmall        bool
	levelClearTicks int
	lastDir         board.Direction
}

// Package-level variables for config
var (
	configPath       string
	difficultyPreset config.DifficultyPreset
	logger           = log.New(io.Discard)

	cfgMu     sync.Mutex
	cachedCfg *config.T2048Config
)

// SetConfigPath sets a custom YAML config path for new games.
func SetConfigPath(path string) {
	cfgMu.Lock()
	defer cfgMu.Unlock()
	configPath = path
	cachedCfg = nil
}

// SetDifficultyPreset sets the difficulty preset applied on top of the config.
func SetDifficultyPreset(preset string) {
	cfgMu.Lock()
	defer cfgMu.Unlock()
	difficultyPreset = config.DifficultyPreset(preset)
	cachedCfg = nil
}

// SetLogger sets the logger handed to every new game's engine.
func SetLogger(l *log.Logger) {
	if l == nil {
		return
	}
	cfgMu.Lock()
	defer cfgMu.Unlock()
	logger = l
}

func currentLogger() *log.Logger {
	cfgMu.Lock()
	defer cfgMu.Unlock()
	return logger
}

// activeConfig loads the configuration once per path/preset change.
// A broken config file is logged and replaced by the defaults.
func activeConfig() config.T2048Config {
	cfgMu.Lock()
	defer cfgMu.Unlock()

	if cachedCfg != nil {
		return *cachedCfg
	}

	cfg, err := config.LoadT2048(configPath)
	if err != nil {
		logger.Warn("using default 2048 config", "error", err)
		cfg = config.DefaultT2048Config()
	}
	config.ApplyT2048Preset(&cfg, difficultyPreset)
	cachedCfg = &cfg
	return cfg
}

// NewEndless creates a game that runs until the board locks.
func NewEndless() *Game {
	return &Game{mode: ModeEndless}
}

// NewCampaign creates a campaign game with level targets.
func NewCampaign() *Game {
	return &Game{mode: ModeCampaign}
}

func init() {
	registry.Register(IDEndless, func() registry.Game {
		return NewEndless()
	})
	registry.Register(IDCampaign, func() registry.Game {
		return NewCampaign()
	})
}

// StartAt sets the campaign level (1-based) used by the next Reset and
// every restart after it. 0 means start from the beginning.
func (g *Game) StartAt(level int) {
	g.startLevel = max(level, 0)
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeCampaign {
		return IDCampaign
	}
	return IDEndless
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeCampaign {
		return "2048 (Campaign)"
	}
	return "2048"
}

// Reset initializes/restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.cfg = activeConfig()
	g.levels = levelsFrom(g.cfg)
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.tick = 0
	g.tickRate = cfg.Normalize().TickRate
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.gameOver = false
	g.levelCleared = false
	g.won = false
	g.paused = false
	g.levelClearTicks = 0
	g.lastDir = board.DirNone
	g.pop = nil

	// Apply selected start level (campaign only)
	g.levelIndex = 0
	if g.mode == ModeCampaign && g.startLevel > 0 && g.startLevel <= len(g.levels) {
		g.levelIndex = g.startLevel - 1
	}

	b, err := board.New(g.cfg.Board.Size)
	if err != nil {
		// Validated config never gets here; fall back to the classic grid.
		b, _ = board.New(board.DefaultSize)
	}
	g.view = newBoardView(b.Size())
	g.engine = engine.New(b, g.rng,
		engine.WithRenderer(g.view),
		engine.WithLogger(currentLogger().With("game", g.ID())),
	)

	g.loadLevel()
	g.engine.Start(g.cfg.Board.StartTiles)
	if g.view.over {
		g.gameOver = true
	}

	g.checkScreenSize()
}

// loadLevel sets up the current level parameters.
func (g *Game) loadLevel() {
	spawn4 := g.cfg.Spawn.FourProbability

	if g.mode == ModeEndless || len(g.levels) == 0 {
		g.currentTarget = 0 // No target in endless
		g.engine.SetSpawnFour(spawn4)
		return
	}

	if g.levelIndex >= len(g.levels) {
		g.levelIndex = len(g.levels) - 1
	}
	level := g.levels[g.levelIndex]

	g.currentTarget = level.Target
	if g.cfg.Spawn.Progression {
		spawn4 = level.Spawn4
	}
	g.engine.SetSpawnFour(spawn4)
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	boardW, boardH := boardDimensions(g.view.size())
	minW := boardW + 4
	minH := boardH + hudHeight + 2
	g.tooSmall = g.screenW < minW || g.screenH < minH
}

// Resize updates the screen dimensions without restarting the game.
func (g *Game) Resize(width, height int) {
	g.screenW = width
	g.screenH = height
	if g.view != nil {
		g.checkScreenSize()
	}
}

// actionDirection maps the first movement action in the frame to a direction.
func actionDirection(in core.InputFrame) board.Direction {
	switch {
	case in.Has(core.ActionUp):
		return board.DirUp
	case in.Has(core.ActionDown):
		return board.DirDown
	case in.Has(core.ActionLeft):
		return board.DirLeft
	case in.Has(core.ActionRight):
		return board.DirRight
	default:
		return board.DirNone
	}
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++
	g.updatePop()

	// Handle window size check
	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	// Handle pause
	if in.Has(core.ActionPause) && !g.gameOver && !g.won {
		g.paused = !g.paused
	}

	if g.paused {
		return core.StepResult{State: g.State()}
	}

	// Handle level cleared animation
	if g.levelCleared {
		g.levelClearTicks++
		// Auto-advance after 2 seconds
		if g.levelClearTicks >= 2*g.tickRate {
			g.advanceLevel()
		}
		return core.StepResult{State: g.State()}
	}

	// Don't process moves if game over or won; restart is handled by the platform
	if g.gameOver || g.won {
		return core.StepResult{State: g.State()}
	}

	dir := actionDirection(in)
	if dir == board.DirNone {
		return core.StepResult{State: g.State()}
	}

	moved := g.processMove(dir)
	return core.StepResult{State: g.State(), Moved: moved}
}

// processMove hands a direction to the engine and reacts to the result.
// Returns true if the board changed.
func (g *Game) processMove(dir board.Direction) bool {
	res := g.engine.ApplyMove(dir)
	if !res.Changed {
		return false
	}

	g.lastDir = dir
	g.startPop(res.Spawned)

	// Check for level target (campaign only)
	if g.mode == ModeCampaign && g.currentTarget > 0 && res.MaxValue >= g.currentTarget {
		g.levelCleared = true
		g.levelClearTicks = 0
		currentLogger().Info("level cleared", "level", g.levelIndex+1, "target", g.currentTarget, "score", g.engine.Score())
		return true
	}

	if res.Terminal {
		g.gameOver = true
	}
	return true
}

// advanceLevel moves to the next level.
func (g *Game) advanceLevel() {
	g.levelCleared = false
	g.levelClearTicks = 0

	if g.levelIndex >= len(g.levels)-1 {
		// Completed all levels
		g.won = true
		return
	}

	g.levelIndex++
	g.loadLevel()
	// Keep current board and score - just update target

	// The clearing move may also have locked the board.
	if g.engine.Terminal() {
		g.gameOver = true
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	st := core.GameState{
		GameOver: g.gameOver || g.won,
		Paused:   g.paused || g.tooSmall || g.levelCleared,
	}
	if g.engine != nil {
		st.Score = g.engine.Score()
		st.MaxTile = g.view.maxTile()
	}
	return st
}
