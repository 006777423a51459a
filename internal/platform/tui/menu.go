package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tavern/internal/core"
	"github.com/vovakirdan/tui-tavern/internal/frame"
	"github.com/vovakirdan/tui-tavern/internal/loop"
	"github.com/vovakirdan/tui-tavern/internal/registry"
)

var (
	menuTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	menuItemStyle  = lipgloss.NewStyle().PaddingLeft(2)
	menuPickStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).SetString("> ")
	menuInfoStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	menuHintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// MenuModel is the Bubble Tea model for the scene picker.
type MenuModel struct {
	items    []registry.SceneInfo
	previews map[string]string // Rendered opening frame per scene id
	cursor   int
	width    int
	height   int

	quitting    bool
	selected    *registry.SceneInfo
	openHistory bool
}

// NewMenuModel creates a menu listing every registered scene.
func NewMenuModel(width, height int) MenuModel {
	return newMenuModel(nil, width, height)
}

// newMenuModel renders scene previews with lg, which may be nil.
func newMenuModel(lg *lipgloss.Renderer, width, height int) MenuModel {
	items := registry.List()
	previews := make(map[string]string, len(items))
	for _, item := range items {
		if p, err := previewScene(lg, item.ID); err == nil {
			previews[item.ID] = p
		}
	}
	return MenuModel{
		items:    items,
		previews: previews,
		width:    width,
		height:   height,
	}
}

// previewScene runs one frame of a scene with no input and renders it.
func previewScene(lg *lipgloss.Renderer, id string) (string, error) {
	scene, err := registry.Create(id, "")
	if err != nil {
		return "", err
	}

	ctrl, err := loop.New(scene, loop.Options{
		Clock: &frame.Immediate{},
		Keys:  core.NewScriptSource(nil),
	})
	if err != nil {
		return "", err
	}
	if err := ctrl.Tick(context.Background()); err != nil {
		return "", err
	}
	f := ctrl.Display().Compose(ctrl.State().Frame)
	return newRenderer(lg, f.Palette).Render(f.Screen), nil
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
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		m.cursor = max(m.cursor-1, 0)

	case MenuActionDown:
		m.cursor = min(m.cursor+1, max(len(m.items)-1, 0))

	case MenuActionSelect:
		if len(m.items) == 0 {
			return m, nil
		}
		picked := m.items[m.cursor]
		m.selected = &picked
		return m, tea.Quit

	case MenuActionHistory:
		m.openHistory = true
		return m, tea.Quit
	}
	return m, nil
}

// View renders the scene list, the highlighted scene's description and,
// when the terminal has room, its opening frame.
func (m MenuModel) View() string {
	if m.quitting || m.selected != nil || m.openHistory {
		return ""
	}

	var list strings.Builder
	list.WriteString(menuTitleStyle.Render("T A V E R N"))
	list.WriteString("\n\n")

	if len(m.items) == 0 {
		list.WriteString("No scenes registered.\n")
	}
	for i, item := range m.items {
		line := fmt.Sprintf("%s  (%d lines)", item.Title, item.Entries)
		if i == m.cursor {
			list.WriteString(menuPickStyle.Render(line))
		} else {
			list.WriteString(menuItemStyle.Render(line))
		}
		list.WriteString("\n")
	}

	parts := []string{list.String()}
	if len(m.items) > 0 {
		item := m.items[m.cursor]
		if item.Description != "" {
			parts = append(parts, menuInfoStyle.Width(min(60, max(m.width-4, 20))).Render(item.Description))
		}
		if p, ok := m.previews[item.ID]; ok && m.fits(p, len(parts)) {
			parts = append(parts, p)
		}
	}
	parts = append(parts, menuHintStyle.Render("↑/↓ choose • enter sit down • tab history • q quit"))

	body := lipgloss.JoinVertical(lipgloss.Left, parts...)
	if m.width <= 0 || m.height <= 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

// fits reports whether a preview still fits below the other parts.
func (m MenuModel) fits(preview string, above int) bool {
	w, h := lipgloss.Size(preview)
	return m.width >= w && m.height >= h+len(m.items)+above+6
}

// Selected returns the selected scene, or nil if none selected.
func (m MenuModel) Selected() *registry.SceneInfo {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsHistory returns true if user requested the history screen.
func (m MenuModel) WantsHistory() bool {
	return m.openHistory
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	SceneID      string
	WantsHistory bool
	Quit         bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(width, height int) (MenuResult, error) {
	p := tea.NewProgram(NewMenuModel(width, height), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{}, err
	}

	m, ok := finalModel.(MenuModel)
	switch {
	case !ok:
		return MenuResult{Quit: true}, nil
	case m.WantsHistory():
		return MenuResult{WantsHistory: true}, nil
	case m.Selected() != nil:
		return MenuResult{SceneID: m.Selected().ID}, nil
	}
	return MenuResult{Quit: true}, nil
}
