// Package tui provides the Bubble Tea front end for 2048: the fixed-tick game
// model, key bindings, the mode selector and the SSH server.
package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

// helpHeight is the number of rows reserved below the game for the help bar.
const helpHeight = 1

// resizer is implemented by games that can adapt to a new screen size in place.
type resizer interface {
	Resize(width, height int)
}

// GameModel is the Bubble Tea model running one game at a fixed tick rate.
// It is used both for local play and inside SSH sessions.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	help       help.Model
	logger     *log.Logger
	shotDir    string // screenshot directory; empty disables ctrl+s
	lastShot   string
	standalone bool // own tea.Program; back-to-menu ends it
	quitting   bool
	backToMenu bool
}

// NewGameModel creates a new game model.
func NewGameModel(game registry.Game, cfg core.RuntimeConfig, logger *log.Logger) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	cfg = gameArea(cfg.Normalize())

	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		help:       help.New(),
		logger:     logger,
		shotDir:    defaultScreenshotDir(),
	}
}

// gameArea shrinks the runtime config to the rows left above the help bar.
func gameArea(cfg core.RuntimeConfig) core.RuntimeConfig {
	cfg.ScreenH = max(cfg.ScreenH-helpHeight, 0)
	return cfg
}

// defaultScreenshotDir returns ~/.t2048/screenshots, or empty if home is unknown.
func defaultScreenshotDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".t2048", "screenshots")
}

// Init initializes the model and starts the game.
func (m GameModel) Init() tea.Cmd {
	// Note: gameState will be set on first tick (value receiver limitation)
	m.game.Reset(m.config)
	m.logger.Debug("game started", "game", m.game.ID(), "seed", m.config.Seed)
	return tickCmd(m.config)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keyMapper.Keys()

	switch {
	case key.Matches(msg, keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	// Back to menu only when the game is not mid-move
	if m.inputFrame.Has(core.ActionBack) && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
		if m.standalone {
			return m, tea.Quit
		}
	}

	return m, nil
}

// handleResize processes window resize events.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.config = gameArea(m.config)
	m.screen.Resize(m.config.ScreenW, m.config.ScreenH)
	m.help.Width = msg.Width

	if r, ok := m.game.(resizer); ok {
		r.Resize(m.config.ScreenW, m.config.ScreenH)
	} else if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.logger.Debug("game restarted", "game", m.game.ID(), "seed", m.config.Seed)
		m.inputFrame.Clear()
		return m, tickCmd(m.config)
	}

	wasOver := m.gameState.GameOver
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if m.gameState.GameOver && !wasOver {
		m.logger.Info("game over",
			"game", m.game.ID(),
			"score", m.gameState.Score,
			"max_tile", m.gameState.MaxTile,
		)
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config)
}

// TickMsg is sent to trigger a game simulation tick.
type TickMsg time.Time

func tickCmd(cfg core.RuntimeConfig) tea.Cmd {
	return tea.Tick(cfg.TickInterval(), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// saveScreenshot writes the current screen buffer as plain text.
func (m *GameModel) saveScreenshot() {
	if m.shotDir == "" {
		return
	}
	path, err := writeScreenshot(m.shotDir, m.game, m.screen, time.Now())
	if err != nil {
		m.logger.Warn("screenshot failed", "error", err)
		return
	}
	m.lastShot = path
	m.logger.Info("screenshot saved", "path", path)
}

// writeScreenshot renders game into scr and saves it under dir.
func writeScreenshot(dir string, game registry.Game, scr *core.Screen, now time.Time) (string, error) {
	game.Render(scr)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create screenshot dir: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.txt", game.ID(), now.Format("20060102_150405"))
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(scr.String()), 0o600); err != nil {
		return "", fmt.Errorf("write screenshot: %w", err)
	}
	return path, nil
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + hintStyle.Render(m.help.View(m.keyMapper.Keys()))
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// LastScreenshot returns the path of the most recent screenshot, if any.
func (m GameModel) LastScreenshot() string {
	return m.lastShot
}

// State returns the game state observed on the last tick.
func (m GameModel) State() core.GameState {
	return m.gameState
}

// PlayResult reports how a local game ended.
type PlayResult struct {
	State      core.GameState
	BackToMenu bool
}

// Run starts the Bubble Tea program for game and blocks until it exits.
func Run(game registry.Game, cfg core.RuntimeConfig, logger *log.Logger) (PlayResult, error) {
	model := NewGameModel(game, cfg, logger)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return PlayResult{}, err
	}

	m, ok := final.(GameModel)
	if !ok {
		return PlayResult{}, nil
	}
	return PlayResult{State: m.State(), BackToMenu: m.BackToMenu()}, nil
}
