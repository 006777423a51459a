package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tavern/internal/storage"
)

// History layout constants
const (
	historyRows     = 100 // Max rows to load per view
	minPreviewWidth = 100 // Minimum width to show the capture preview
)

// historyView selects what the history table lists.
type historyView int

const (
	viewSessions historyView = iota
	viewCaptures
)

// HistoryKeyMap defines the key bindings for the history screen.
type HistoryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Switch key.Binding
	Delete key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Switch, k.Delete, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Switch, k.Delete},
		{k.Back, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Switch: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "sessions/captures"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "delete capture"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model for the session and capture history.
type HistoryModel struct {
	store     *storage.Store
	view      historyView
	sessions  []storage.Session
	captures  []storage.Capture
	table     table.Model
	help      help.Model
	keys      HistoryKeyMap
	width     int
	height    int
	status    string
	quitting  bool
	goingBack bool
}

// NewHistoryModel creates a new history model.
func NewHistoryModel(store *storage.Store, width, height int) HistoryModel {
	m := HistoryModel{
		store:  store,
		keys:   DefaultHistoryKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.load()
	m.table = m.createTable()
	m.updateTableRows()
	return m
}

// load reads both views from the store.
func (m *HistoryModel) load() {
	if m.store == nil {
		return
	}
	if sessions, err := m.store.RecentSessions(historyRows); err == nil {
		m.sessions = sessions
	}
	if captures, err := m.store.Captures("", historyRows); err == nil {
		m.captures = captures
	}
}

// createTable creates a table with the columns of the current view.
func (m *HistoryModel) createTable() table.Model {
	var columns []table.Column
	switch m.view {
	case viewSessions:
		columns = []table.Column{
			{Title: "Scene", Width: 10},
			{Title: "User", Width: 10},
			{Title: "Frames", Width: 8},
			{Title: "Lines", Width: 6},
			{Title: "End", Width: 10},
			{Title: "Date", Width: 14},
		}
	case viewCaptures:
		columns = []table.Column{
			{Title: "#", Width: 5},
			{Title: "Scene", Width: 10},
			{Title: "Frame", Width: 8},
			{Title: "Line", Width: 5},
			{Title: "Date", Width: 14},
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// updateTableRows fills the table from the current view.
func (m *HistoryModel) updateTableRows() {
	var rows []table.Row
	switch m.view {
	case viewSessions:
		rows = make([]table.Row, len(m.sessions))
		for i, s := range m.sessions {
			rows[i] = table.Row{
				s.SceneID,
				s.User,
				fmt.Sprintf("%d", s.Frames),
				fmt.Sprintf("%d", s.Entries),
				s.EndReason,
				s.CreatedAt.Format("Jan 02 15:04"),
			}
		}
	case viewCaptures:
		rows = make([]table.Row, len(m.captures))
		for i, c := range m.captures {
			rows[i] = table.Row{
				fmt.Sprintf("%d", c.ID),
				c.SceneID,
				fmt.Sprintf("%d", c.Frame),
				fmt.Sprintf("%d", c.Entry),
				c.CreatedAt.Format("Jan 02 15:04"),
			}
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history screen.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Switch):
			m.view = (m.view + 1) % 2
			m.status = ""
			m.table = m.createTable()
			m.updateTableRows()
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			m.status = m.deleteSelected()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// deleteSelected removes the highlighted capture and returns a status line.
func (m *HistoryModel) deleteSelected() string {
	i := m.table.Cursor()
	if m.view != viewCaptures || m.store == nil || i < 0 || i >= len(m.captures) {
		return ""
	}
	id := m.captures[i].ID
	if err := m.store.DeleteCapture(id); err != nil {
		return fmt.Sprintf("delete failed: %v", err)
	}

	m.captures = append(m.captures[:i:i], m.captures[i+1:]...)
	m.updateTableRows()
	m.table.SetCursor(min(i, max(len(m.captures)-1, 0)))
	return fmt.Sprintf("deleted capture #%d", id)
}

// sceneSummary describes every session of the highlighted session's scene.
func (m HistoryModel) sceneSummary() string {
	i := m.table.Cursor()
	if m.view != viewSessions || m.store == nil || i < 0 || i >= len(m.sessions) {
		return ""
	}
	stats, err := m.store.GetSceneStats(m.sessions[i].SceneID)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s: %d sessions, %d frames, at most %d lines read",
		stats.SceneID, stats.Sessions, stats.Frames, stats.MaxEntries)
}

// View renders the history screen.
func (m HistoryModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := "SESSIONS"
	if m.view == viewCaptures {
		title = "CAPTURES"
	}
	b.WriteString(titleStyle.Render(lipgloss.PlaceHorizontal(max(m.width, len(title)), lipgloss.Center, title)))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	content := boxStyle.Render(m.renderTableContent())
	if preview := m.preview(); preview != "" && m.width >= minPreviewWidth {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, "  ", boxStyle.Render(preview))
	}
	b.WriteString(content)

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	for _, line := range []string{m.status, m.sceneSummary()} {
		if line != "" {
			b.WriteString(helpStyle.Render(line))
			b.WriteString("\n")
		}
	}
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or an empty message.
func (m HistoryModel) renderTableContent() string {
	empty := ""
	switch {
	case m.view == viewSessions && len(m.sessions) == 0:
		empty = "No sessions recorded yet.\nSit down at a table to start one!"
	case m.view == viewCaptures && len(m.captures) == 0:
		empty = "No captures yet.\nPress ctrl+s while playing."
	}
	if empty != "" {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render(empty)
	}

	return m.table.View()
}

// preview returns the selected capture's picture.
func (m HistoryModel) preview() string {
	if m.view != viewCaptures || len(m.captures) == 0 {
		return ""
	}
	i := m.table.Cursor()
	if i < 0 || i >= len(m.captures) {
		return ""
	}
	return m.captures[i].Screen
}

// IsGoingBack returns true if user wants to go back to menu.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}

// RunHistory runs the history screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunHistory(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(
		NewHistoryModel(store, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(HistoryModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
