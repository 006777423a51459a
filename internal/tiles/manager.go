package tiles

import (
	"fmt"

	"github.com/vovakirdan/tui-tavern/internal/core"
)

// Manager clears the background by writing one scratch fill tile into every
// visible cell. The scratch tile never outlives a Redraw call.
type Manager struct {
	vram    *VRAM
	bg      *Background
	redraws int
}

// NewManager creates a manager for bg backed by vram.
func NewManager(vram *VRAM, bg *Background) *Manager {
	return &Manager{vram: vram, bg: bg}
}

// Background returns the managed layer.
func (m *Manager) Background() *Background {
	return m.bg
}

// Redraw fills the top-left w x h cells with a fresh tile of the given
// pattern. The writes are staged; Commit makes them visible. An area larger
// than the map is rejected before anything is written.
func (m *Manager) Redraw(w, h int, pattern core.Color) error {
	if !m.bg.Covers(w, h) {
		return fmt.Errorf("tiles: redraw %dx%d: %w", w, h, ErrOutOfBounds)
	}

	err := m.vram.WithDynamicTile(pattern, func(t *DynamicTile) error {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if err := m.bg.SetTile(x, y, t, TileSetting{}); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tiles: redraw: %w", err)
	}
	m.redraws++
	return nil
}

// Redraws returns how many redraws completed.
func (m *Manager) Redraws() int {
	return m.redraws
}

// Commit makes the staged background visible.
func (m *Manager) Commit(sink BackgroundSink) {
	m.bg.Commit(sink)
}
