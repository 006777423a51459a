package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tavern/internal/storage"
)

// Model is the Bubble Tea model for a running scene. It paces the loop
// with tick messages and shows the frames the loop presents.
type Model struct {
	session  *Session
	store    *storage.Store
	renderer *Renderer
	keys     KeyMap
	help     help.Model
	tickRate int

	latest     *FrameMsg
	width      int
	height     int
	status     string
	embedded   bool // Leaving returns to a menu instead of quitting
	backToMenu bool
	quitting   bool
	err        error
}

// NewModel creates a model for a started session.
func NewModel(session *Session, store *storage.Store, tickRate int) Model {
	if tickRate <= 0 {
		tickRate = 60
	}
	return Model{
		session:  session,
		store:    store,
		renderer: NewRenderer(session.Palette()),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		tickRate: tickRate,
	}
}

// Init starts the frame clock and waits for the first frame.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.session, m.tickRate), waitForFrame(m.session))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if msg.session != m.session {
			return m, nil
		}
		m.session.Tick()
		return m, tickCmd(m.session, m.tickRate)

	case FrameMsg:
		if msg.session != m.session {
			return m, nil
		}
		m.latest = &msg
		return m, waitForFrame(m.session)

	case sessionEndedMsg:
		if msg.session != m.session || m.backToMenu {
			return m, nil
		}
		m.err = msg.err
		return m.leave()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		return m.leave()
	case key.Matches(msg, m.keys.Capture):
		m.status = m.capture()
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	m.session.Press(m.keys.Button(msg))
	return m, nil
}

// leave ends the scene: back to the menu when embedded, quit otherwise.
func (m Model) leave() (tea.Model, tea.Cmd) {
	if m.embedded {
		m.backToMenu = true
		return m, nil
	}
	m.quitting = true
	return m, tea.Quit
}

// capture stores the latest frame and returns a status line.
func (m Model) capture() string {
	if m.latest == nil {
		return "nothing to capture yet"
	}
	if m.store == nil {
		return "capture unavailable: no database"
	}

	id, err := m.store.SaveCapture(storage.Capture{
		SceneID: m.session.SceneID(),
		Frame:   m.latest.Frame.Number,
		Entry:   m.latest.Entry,
		Screen:  m.latest.Frame.Screen.String(),
	})
	if err != nil {
		return fmt.Sprintf("capture failed: %v", err)
	}
	return fmt.Sprintf("saved capture #%d (frame %d)", id, m.latest.Frame.Number)
}

// View renders the latest frame with a help line below it.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	needW, needH := m.session.ScreenSize()
	if m.width > 0 && (m.width < needW || m.height < needH+1) {
		return fmt.Sprintf("Terminal too small: need %dx%d, have %dx%d", needW, needH+1, m.width, m.height)
	}
	if m.latest == nil {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderer.Render(m.latest.Frame.Screen))
	b.WriteString("\n")

	footer := m.help.View(m.keys)
	if m.status != "" {
		footer = m.status
	}
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(footer))

	return b.String()
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the scene was left for the menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Err returns the error the loop stopped with, if it stopped on its own.
func (m Model) Err() error {
	return m.err
}

// Run plays a scene in the local terminal until the user quits.
func Run(cfg SessionConfig, store *storage.Store) error {
	session, err := NewSession(cfg)
	if err != nil {
		return err
	}
	session.Start(context.Background())

	p := tea.NewProgram(
		NewModel(session, store, cfg.TickRate),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, runErr := p.Run()
	loopErr := session.Stop()

	reason := "quit"
	if loopErr != nil {
		reason = "error"
	}
	session.Record(store, reason)

	return errors.Join(runErr, loopErr)
}
