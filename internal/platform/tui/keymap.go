package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tavern/internal/core"
)

// KeyMap defines the key bindings of a running scene.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	A       key.Binding
	B       key.Binding
	Start   key.Binding
	Select  key.Binding
	L       key.Binding
	R       key.Binding
	Capture key.Binding
	Help    key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.A, k.Up, k.Down, k.Left, k.Right, k.Capture, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.A, k.B, k.Start, k.Select, k.L, k.R},
		{k.Capture, k.Help, k.Back, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w"),
			key.WithHelp("↑/w", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s"),
			key.WithHelp("↓/s", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "a"),
			key.WithHelp("←/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d"),
			key.WithHelp("→/d", "right"),
		),
		A: key.NewBinding(
			key.WithKeys("enter", " ", "z"),
			key.WithHelp("enter/z", "talk"),
		),
		B: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "B"),
		),
		Start: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "start"),
		),
		Select: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "select"),
		),
		L: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "L"),
		),
		R: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "R"),
		),
		Capture: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "capture"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "leave"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// Button translates a key message to a handheld button.
// Returns core.ButtonNone for keys that are not buttons.
func (k KeyMap) Button(msg tea.KeyMsg) core.Button {
	bindings := []struct {
		binding key.Binding
		button  core.Button
	}{
		{k.Up, core.ButtonUp},
		{k.Down, core.ButtonDown},
		{k.Left, core.ButtonLeft},
		{k.Right, core.ButtonRight},
		{k.A, core.ButtonA},
		{k.B, core.ButtonB},
		{k.Start, core.ButtonStart},
		{k.Select, core.ButtonSelect},
		{k.L, core.ButtonL},
		{k.R, core.ButtonR},
	}
	for _, b := range bindings {
		if key.Matches(msg, b.binding) {
			return b.button
		}
	}
	return core.ButtonNone
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionHistory
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "tab", "h":
		return MenuActionHistory
	}

	return MenuActionNone
}
