package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-heist/internal/core"
)

// MenuChoice is what the player picked.
type MenuChoice int

const (
	ChoiceNone MenuChoice = iota
	ChoiceCampaign
	ChoiceEndless
	ChoiceHost
	ChoiceJoin
	ChoiceScores
)

// MenuItem represents a selectable entry in the menu.
type MenuItem struct {
	Choice MenuChoice
	Title  string
}

// MenuModel is the Bubble Tea model for the title menu.
type MenuModel struct {
	items    []MenuItem
	cursor   int
	levels   []string // Level names, for the start level picker
	level    int      // Selected start level, 1-based
	width    int
	height   int
	config   core.RuntimeConfig
	keys     MenuKeyMap
	help     help.Model
	quitting bool
	selected MenuChoice
}

// NewMenuModel creates a new menu model. Co-op entries are offered only
// when a relay is configured.
func NewMenuModel(cfg core.RuntimeConfig, levelNames []string, coop bool) MenuModel {
	items := []MenuItem{
		{ChoiceCampaign, "Campaign"},
		{ChoiceEndless, "Endless"},
	}
	if coop {
		items = append(items,
			MenuItem{ChoiceHost, "Host co-op"},
			MenuItem{ChoiceJoin, "Join co-op"},
		)
	}
	items = append(items, MenuItem{ChoiceScores, "High scores"})

	level := cfg.Level
	if level < 1 || level > len(levelNames) {
		level = 1
	}

	h := help.New()
	h.Width = cfg.ScreenW
	return MenuModel{
		items:  items,
		levels: levelNames,
		level:  level,
		width:  cfg.ScreenW,
		height: cfg.ScreenH,
		config: cfg,
		keys:   DefaultMenuKeyMap(),
		help:   h,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Left):
		if m.level > 1 {
			m.level--
		}

	case key.Matches(msg, m.keys.Right):
		if m.level < len(m.levels) {
			m.level++
		}

	case key.Matches(msg, m.keys.Scores):
		m.selected = ChoiceScores

	case key.Matches(msg, m.keys.Select):
		if len(m.items) > 0 {
			m.selected = m.items[m.cursor].Choice
		}
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("H E I S T"), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(mutedStyle.Render("Grab the loot. Reach the exit. Stay out of sight."), m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := "  " + item.Title
		if item.Choice == ChoiceCampaign && len(m.levels) > 0 {
			line += fmt.Sprintf("  < %d. %s >", m.level, m.levels[m.level-1])
		}
		if i == m.cursor {
			line = accentStyle.Render("> " + strings.TrimPrefix(line, "  "))
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(mutedStyle.Render(m.help.View(m.keys)), m.width))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the chosen entry, or ChoiceNone while browsing.
func (m MenuModel) Selected() MenuChoice {
	return m.selected
}

// Level returns the selected start level.
func (m MenuModel) Level() int {
	return m.level
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}
