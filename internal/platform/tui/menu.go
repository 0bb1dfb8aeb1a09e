package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

// MenuItem represents a selectable entry in the mode menu.
type MenuItem struct {
	GameID      string
	Title       string
	levelPicker bool // opens the campaign level table instead of starting
}

// MenuChoice is what the player picked.
type MenuChoice struct {
	GameID     string
	StartLevel int // 1-based campaign level, 0 = from the beginning
}

// levelStarter is implemented by modes that can start mid-campaign.
type levelStarter interface {
	StartAt(level int)
}

// NewGame creates the chosen mode, positioned at the chosen level.
func (c MenuChoice) NewGame() (registry.Game, error) {
	game, err := registry.Create(c.GameID)
	if err != nil {
		return nil, err
	}
	if ls, ok := game.(levelStarter); ok && c.StartLevel > 0 {
		ls.StartAt(c.StartLevel)
	}
	return game, nil
}

// MenuModel is the Bubble Tea model for the mode selector.
type MenuModel struct {
	items         []MenuItem
	cursor        int
	levels        table.Model
	inLevelSelect bool
	width         int
	height        int
	config        core.RuntimeConfig
	keyMapper     *KeyMapper
	quitting      bool
	selected      *MenuChoice
}

// NewMenuModel creates a new menu model listing every registered mode.
func NewMenuModel(cfg core.RuntimeConfig) MenuModel {
	games := registry.List()
	items := make([]MenuItem, 0, len(games)+1)
	for _, g := range games {
		items = append(items, MenuItem{GameID: g.ID, Title: g.Title})
	}
	if registry.Exists(t2048.IDCampaign) {
		items = append(items, MenuItem{
			GameID:      t2048.IDCampaign,
			Title:       "Select Level...",
			levelPicker: true,
		})
	}

	return MenuModel{
		items:     items,
		levels:    newLevelTable(),
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

// newLevelTable builds the campaign level picker.
func newLevelTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Level", Width: 20},
		{Title: "Target", Width: 7},
		{Title: "Spawn 4", Width: 8},
	}

	levels := t2048.Levels()
	rows := make([]table.Row, len(levels))
	for i, lvl := range levels {
		rows[i] = table.Row{
			strconv.Itoa(lvl.ID),
			lvl.Name,
			strconv.Itoa(lvl.Target),
			fmt.Sprintf("%.0f%%", lvl.Spawn4*100),
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows), 12)+1),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true)
	styles.Selected = selectedStyle
	t.SetStyles(styles)
	return t
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.inLevelSelect {
			return m.handleLevelKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for mode navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) == 0 {
			return m, nil
		}
		item := m.items[m.cursor]
		if item.levelPicker {
			m.inLevelSelect = true
			m.levels.GotoTop()
			return m, nil
		}
		m.selected = &MenuChoice{GameID: item.GameID}
		return m, tea.Quit
	}

	return m, nil
}

// handleLevelKey processes input while the level table is open.
// Navigation keys go to the table itself.
func (m MenuModel) handleLevelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionBack:
		m.inLevelSelect = false
		return m, nil
	case MenuActionSelect:
		m.selected = &MenuChoice{
			GameID:     t2048.IDCampaign,
			StartLevel: m.levels.Cursor() + 1,
		}
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.levels, cmd = m.levels.Update(msg)
	return m, cmd
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}
	if m.inLevelSelect {
		return m.viewLevelSelect()
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("2 0 4 8"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select game mode:", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := "  " + item.Title
		if i == m.cursor {
			line = selectedStyle.Render("> " + item.Title)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(hintStyle.Render("Up/Down: Navigate  |  Enter: Select  |  Q: Quit"), m.width))
	b.WriteString("\n")

	return b.String()
}

func (m MenuModel) viewLevelSelect() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("SELECT LEVEL"), m.width))
	b.WriteString("\n\n")

	for _, line := range strings.Split(m.levels.View(), "\n") {
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(hintStyle.Render("Enter: Select  |  Esc: Back  |  Q: Quit"), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the chosen mode, or nil if none selected.
func (m MenuModel) Selected() *MenuChoice {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Choice MenuChoice
	Config core.RuntimeConfig
	Quit   bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(cfg),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok || m.IsQuitting() || m.Selected() == nil {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	return MenuResult{Choice: *m.Selected(), Config: m.Config()}, nil
}
