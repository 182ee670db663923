package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-heist/internal/core"
)

// GameKeyMap defines the in-game key bindings.
type GameKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	SneakUp    key.Binding
	SneakDown  key.Binding
	SneakLeft  key.Binding
	SneakRight key.Binding
	Sneak      key.Binding
	Confirm    key.Binding
	Restart    key.Binding
	Pause      key.Binding
	Back       key.Binding
	Screenshot key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
// Up stands in for all four directions.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Sneak, k.Confirm, k.Restart, k.Pause, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.SneakUp, k.Sneak},
		{k.Confirm, k.Restart, k.Pause},
		{k.Back, k.Screenshot, k.Quit},
	}
}

// DefaultGameKeyMap returns default key bindings.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w", "k"),
			key.WithHelp("←↑↓→/wasd", "move"),
		),
		Down:  key.NewBinding(key.WithKeys("down", "s", "j")),
		Left:  key.NewBinding(key.WithKeys("left", "a", "h")),
		Right: key.NewBinding(key.WithKeys("right", "d", "l")),
		SneakUp: key.NewBinding(
			key.WithKeys("shift+up", "W", "K"),
			key.WithHelp("shift+move", "sneak step"),
		),
		SneakDown:  key.NewBinding(key.WithKeys("shift+down", "S", "J")),
		SneakLeft:  key.NewBinding(key.WithKeys("shift+left", "A", "H")),
		SneakRight: key.NewBinding(key.WithKeys("shift+right", "D", "L")),
		Sneak: key.NewBinding(
			key.WithKeys(" ", "c"),
			key.WithHelp("space", "toggle sneak"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "continue"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc", "menu"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Move translates a key into a direction. sneaking is set for the
// shifted variants.
func (k GameKeyMap) Move(msg tea.KeyMsg) (action core.Action, sneaking, ok bool) {
	switch {
	case key.Matches(msg, k.Up):
		return core.ActionUp, false, true
	case key.Matches(msg, k.Down):
		return core.ActionDown, false, true
	case key.Matches(msg, k.Left):
		return core.ActionLeft, false, true
	case key.Matches(msg, k.Right):
		return core.ActionRight, false, true
	case key.Matches(msg, k.SneakUp):
		return core.ActionUp, true, true
	case key.Matches(msg, k.SneakDown):
		return core.ActionDown, true, true
	case key.Matches(msg, k.SneakLeft):
		return core.ActionLeft, true, true
	case key.Matches(msg, k.SneakRight):
		return core.ActionRight, true, true
	}
	return core.ActionNone, false, false
}

// Trigger translates a key into a one-shot action for the next frame.
func (k GameKeyMap) Trigger(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Confirm):
		return core.ActionConfirm
	case key.Matches(msg, k.Restart):
		return core.ActionRestart
	case key.Matches(msg, k.Pause):
		return core.ActionPause
	}
	return core.ActionNone
}

// MenuKeyMap defines the key bindings shared by the menu and lobby screens.
type MenuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Select key.Binding
	Scores key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k MenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Select, k.Scores, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k MenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Select, k.Scores, k.Back, k.Quit},
	}
}

// DefaultMenuKeyMap returns default key bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h", "a"),
			key.WithHelp("←/→", "level"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l", "d"),
			key.WithHelp("→/l", "next level"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select"),
		),
		Scores: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "scores"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
