package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tavern/internal/config"
	"github.com/vovakirdan/tui-tavern/internal/core"
	"github.com/vovakirdan/tui-tavern/internal/storage"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(SessionConfig{Scene: config.DefaultScene(), TickRate: 60, User: "tester"})
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	return s
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "tavern.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// nextFrame raises one frame boundary and waits for the presented frame.
func nextFrame(t *testing.T, s *Session) FrameMsg {
	t.Helper()
	s.Tick()
	select {
	case f := <-s.frames:
		return f
	case <-time.After(2 * time.Second):
		t.Fatal("no frame presented")
		return FrameMsg{}
	}
}

func TestSessionAdvancesDialogue(t *testing.T) {
	s := newTestSession(t)
	s.Start(context.Background())
	defer s.Stop()

	s.Press(core.ButtonA)

	var f FrameMsg
	for i := 0; i < 20 && f.Entry == 0; i++ {
		f = nextFrame(t, s)
	}
	if f.Entry != 1 {
		t.Fatalf("Entry = %d, expected 1", f.Entry)
	}
	if f.session != s {
		t.Error("frame is not tagged with its session")
	}

	// The press may take a frame to reach the screen.
	f = nextFrame(t, s)
	if row := f.Frame.Screen.Row(1); !strings.Contains(row, "To be fair,") {
		t.Errorf("Row(1) = %q, expected dialogue", row)
	}
}

func TestSessionStopAndRecord(t *testing.T) {
	store := openStore(t)
	s := newTestSession(t)
	s.Start(context.Background())

	nextFrame(t, s)
	nextFrame(t, s)

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() = %v, expected nil", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("second Stop() = %v, expected nil", err)
	}

	s.Record(store, "quit")
	sessions, err := store.RecentSessions(10)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("Expected 1 session, got %d", len(sessions))
	}
	got := sessions[0]
	if got.SceneID != "tavern" || got.User != "tester" || got.EndReason != "quit" || got.Frames < 2 {
		t.Errorf("session = %+v", got)
	}
}

func TestSessionStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newTestSession(t)
	s.Start(ctx)
	cancel()

	select {
	case <-s.done:
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop when its context was cancelled")
	}
	if err := s.Err(); err != nil {
		t.Errorf("Err() = %v, expected nil for a cancelled session", err)
	}
}

func TestModelIgnoresOtherSessions(t *testing.T) {
	s := newTestSession(t)
	other := newTestSession(t)
	m := NewModel(s, nil, 60)

	updated, cmd := m.Update(TickMsg{Time: time.Now(), session: other})
	if cmd != nil {
		t.Error("a stale tick should not schedule another tick")
	}
	if _, cmd = updated.Update(sessionEndedMsg{session: other}); cmd != nil {
		t.Error("a stale end message should be ignored")
	}

	if _, cmd = m.Update(TickMsg{Time: time.Now(), session: s}); cmd == nil {
		t.Error("a tick of the model's own session should schedule the next one")
	}
}

func TestModelViewAndCapture(t *testing.T) {
	store := openStore(t)
	s := newTestSession(t)
	m := NewModel(s, store, 60)

	if got := m.View(); got != "Loading..." {
		t.Errorf("View() = %q before the first frame", got)
	}

	small, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 5})
	if got := small.View(); !strings.Contains(got, "Terminal too small") {
		t.Errorf("View() = %q, expected a size warning", got)
	}

	if status := m.capture(); status != "nothing to capture yet" {
		t.Errorf("capture() = %q", status)
	}

	screen := core.NewScreen(4, 1)
	screen.DrawText(0, 0, "abcd", 1, 2)
	updated, _ := m.Update(FrameMsg{Entry: 3, session: s})
	m = updated.(Model)
	m.latest.Frame.Screen = screen
	m.latest.Frame.Number = 99

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = updated.(Model)
	if !strings.Contains(m.status, "saved capture") {
		t.Errorf("status = %q, expected a saved capture", m.status)
	}

	captures, err := store.Captures("tavern", 10)
	if err != nil || len(captures) != 1 {
		t.Fatalf("Captures() = %v, %v", captures, err)
	}
	if c := captures[0]; c.Screen != "abcd" || c.Frame != 99 || c.Entry != 3 {
		t.Errorf("capture = %+v", c)
	}
}

func TestModelLeave(t *testing.T) {
	s := newTestSession(t)

	standalone := NewModel(s, nil, 60)
	updated, cmd := standalone.Update(runeKey("q"))
	if !updated.(Model).IsQuitting() || cmd == nil {
		t.Error("q should quit a standalone scene")
	}

	embedded := NewModel(s, nil, 60)
	embedded.embedded = true
	updated, cmd = embedded.Update(runeKey("q"))
	if !updated.(Model).BackToMenu() || cmd != nil {
		t.Error("q should return an embedded scene to the menu")
	}

	updated, _ = embedded.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !updated.(Model).IsQuitting() {
		t.Error("ctrl+c should always quit")
	}
}
