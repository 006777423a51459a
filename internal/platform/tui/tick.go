// Package tui provides the Bubble Tea integration for the tavern.
// It drives the frame clock, maps keys to buttons and draws composed frames.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tavern/internal/display"
)

// Messages carry the session they belong to so a model never acts on
// messages left over from a scene it already left.

// TickMsg is sent at every frame boundary.
type TickMsg struct {
	Time    time.Time
	session *Session
}

// FrameMsg carries a frame presented by the loop.
type FrameMsg struct {
	Frame   display.Frame
	Entry   int // Dialogue entries read when the frame was presented
	session *Session
}

// sessionEndedMsg is sent once the loop has stopped.
type sessionEndedMsg struct {
	err     error
	session *Session
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(s *Session, tickRate int) tea.Cmd {
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t, session: s}
	})
}

// waitForFrame blocks until the session publishes a frame or stops.
func waitForFrame(s *Session) tea.Cmd {
	return func() tea.Msg {
		select {
		case f := <-s.frames:
			return f
		case <-s.done:
			return sessionEndedMsg{err: s.Err(), session: s}
		}
	}
}
