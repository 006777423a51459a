// Package loop drives one scene: it samples input, advances the player
// and the dialogue, waits for the frame boundary and commits every layer.
package loop

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tavern/internal/config"
	"github.com/vovakirdan/tui-tavern/internal/core"
	"github.com/vovakirdan/tui-tavern/internal/display"
	"github.com/vovakirdan/tui-tavern/internal/frame"
	"github.com/vovakirdan/tui-tavern/internal/sprite"
	"github.com/vovakirdan/tui-tavern/internal/text"
	"github.com/vovakirdan/tui-tavern/internal/tiles"
)

// AdvanceButton moves the dialogue to its next entry.
const AdvanceButton = core.ButtonA

// LoopState is the state carried from one iteration to the next.
type LoopState struct {
	X, Y   int // Player position in pixels
	VX, VY int // Velocity sampled last iteration
	Cursor text.Cursor
	Frame  uint64 // Frames presented
}

// Controller owns all grid, sprite and text state of a scene. It is not
// safe for concurrent use; the only shared objects are the clock and the
// key source.
type Controller struct {
	scene config.Scene
	rc    core.RuntimeConfig
	clock frame.Clock
	input *core.ButtonController

	tiles  *tiles.Manager
	writer *text.Writer
	layout text.Layout
	stage  *sprite.Stage
	player *sprite.Object
	fb     *display.Framebuffer

	publish func(display.Frame)
	logger  *log.Logger

	state      LoopState
	maxX, maxY int
}

// Step runs the update half of an iteration: move, sample velocity, stage
// the player and, on a fresh press of the advance button, lay out the next
// dialogue entry. Nothing staged here is visible until Present.
func (c *Controller) Step() error {
	s := &c.state

	s.X = core.Clamp(s.X+s.VX, 0, c.maxX)
	s.Y = core.Clamp(s.Y+s.VY, 0, c.maxY)

	// Velocity applies next iteration.
	speed := c.scene.Player.Speed
	s.VX = c.input.XTri() * speed
	s.VY = c.input.YTri() * speed

	c.player.SetPosition(uint16(s.X), uint16(s.Y))

	if c.input.IsJustPressed(AdvanceButton) {
		return c.advance()
	}
	return nil
}

// advance redraws the background and stages the next dialogue entry.
// With the script exhausted it does nothing.
func (c *Controller) advance() error {
	entry := c.state.Cursor.Entry
	if entry >= len(c.scene.Dialogue) {
		return nil
	}

	if err := c.redraw(); err != nil {
		return fmt.Errorf("loop: advance dialogue: %w", err)
	}

	lines := c.layout.Wrap(c.scene.Dialogue[entry])
	cur := c.writer.Stage(c.state.Cursor, lines)
	cur.Entry = entry + 1
	c.state.Cursor = cur

	c.logger.Debug("dialogue advanced", "entry", entry, "lines", len(lines), "frame", c.state.Frame)
	return nil
}

// redraw clears the visible grid with the scene's fill pattern.
func (c *Controller) redraw() error {
	if err := c.tiles.Redraw(c.rc.Cols(), c.rc.Rows(), c.scene.Background.Fill); err != nil {
		return err
	}
	c.tiles.Background().Show()
	c.logger.Debug("background redrawn", "fill", c.scene.Background.Fill, "redraws", c.tiles.Redraws())
	return nil
}

// Present commits the background, then the text, then the sprites, and
// publishes the composed frame.
func (c *Controller) Present() {
	c.tiles.Commit(c.fb)
	c.writer.Commit(c.fb)
	c.stage.Commit(c.fb)

	c.state.Frame++
	if c.publish != nil {
		c.publish(c.fb.Compose(c.state.Frame))
	}
}

// Poll samples the key source. It must run once per frame.
func (c *Controller) Poll() {
	c.input.Update()
}

// Tick runs one full iteration. The frame wait is its only blocking call;
// when it fails nothing is committed.
func (c *Controller) Tick(ctx context.Context) error {
	if err := c.Step(); err != nil {
		return err
	}
	if err := c.clock.Wait(ctx); err != nil {
		return err
	}
	c.Present()
	c.Poll()
	return nil
}

// Run ticks until the clock fails or a resource runs out.
func (c *Controller) Run(ctx context.Context) error {
	c.logger.Info("scene started", "scene", c.scene.ID, "dialogue", len(c.scene.Dialogue))
	for {
		if err := c.Tick(ctx); err != nil {
			c.logger.Info("scene stopped", "scene", c.scene.ID, "frames", c.state.Frame,
				"entries", c.state.Cursor.Entry, "reason", err)
			return err
		}
	}
}

// State returns a copy of the loop state.
func (c *Controller) State() LoopState {
	return c.state
}

// Scene returns the scene being played.
func (c *Controller) Scene() config.Scene {
	return c.scene
}

// Tiles returns the background manager.
func (c *Controller) Tiles() *tiles.Manager {
	return c.tiles
}

// Stage returns the sprite stage.
func (c *Controller) Stage() *sprite.Stage {
	return c.stage
}

// Player returns the player's sprite.
func (c *Controller) Player() *sprite.Object {
	return c.player
}

// Writer returns the dialogue writer.
func (c *Controller) Writer() *text.Writer {
	return c.writer
}

// Display returns the framebuffer the controller commits to.
func (c *Controller) Display() *display.Framebuffer {
	return c.fb
}
