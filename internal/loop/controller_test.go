package loop

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-tavern/internal/assets"
	"github.com/vovakirdan/tui-tavern/internal/config"
	"github.com/vovakirdan/tui-tavern/internal/core"
	"github.com/vovakirdan/tui-tavern/internal/display"
	"github.com/vovakirdan/tui-tavern/internal/frame"
	"github.com/vovakirdan/tui-tavern/internal/sprite"
	"github.com/vovakirdan/tui-tavern/internal/text"
	"github.com/vovakirdan/tui-tavern/internal/tiles"
)

func press(buttons ...core.Button) core.InputFrame {
	var f core.InputFrame
	for _, b := range buttons {
		f.Set(b)
	}
	return f
}

func newTestController(t *testing.T, scene config.Scene, script ...core.InputFrame) *Controller {
	t.Helper()
	c, err := New(scene, Options{
		Clock: &frame.Immediate{},
		Keys:  core.NewScriptSource(script),
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return c
}

func tick(t *testing.T, c *Controller, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := c.Tick(context.Background()); err != nil {
			t.Fatalf("Tick() %d failed: %v", i, err)
		}
	}
}

func TestNewPlacesScene(t *testing.T) {
	c := newTestController(t, config.DefaultScene())

	if got := c.Stage().Len(); got != 15 {
		t.Errorf("Stage().Len() = %d, expected 15", got)
	}

	player := c.Stage().Attr(c.Player().Handle())
	if int(c.Player().Handle()) != c.Stage().Len()-1 {
		t.Errorf("player slot = %d, expected the last slot", c.Player().Handle())
	}
	if player.Tag != "Player" || player.X != 50 || player.Y != 50 || !player.Visible {
		t.Errorf("player attr = %+v", player)
	}

	hidden := 0
	for h := 0; h < c.Stage().Len(); h++ {
		if !c.Stage().Attr(sprite.Handle(h)).Visible {
			hidden++
		}
	}
	if hidden != 1 {
		t.Errorf("%d hidden sprites, expected 1", hidden)
	}

	if got := c.Tiles().Redraws(); got != 1 {
		t.Errorf("Redraws() = %d, expected the initial clear", got)
	}
	if s := c.State(); s.X != 50 || s.Y != 50 || s.Frame != 0 {
		t.Errorf("State() = %+v", s)
	}
}

func TestNewRejectsBadScenes(t *testing.T) {
	unknown := config.DefaultScene()
	unknown.Sprites = append(unknown.Sprites, config.Placement{Tag: "dragon"})
	if _, err := New(unknown, Options{Clock: &frame.Immediate{}, Keys: core.NewScriptSource(nil)}); !errors.Is(err, assets.ErrUnknownTag) {
		t.Errorf("New() with an unknown tag = %v, expected ErrUnknownTag", err)
	}

	crowded := config.DefaultScene()
	crowded.Objects.Slots = 3
	if _, err := New(crowded, Options{Clock: &frame.Immediate{}, Keys: core.NewScriptSource(nil)}); !errors.Is(err, sprite.ErrNoFreeSlots) {
		t.Errorf("New() with too few slots = %v, expected ErrNoFreeSlots", err)
	}

	if _, err := New(config.DefaultScene(), Options{}); err == nil {
		t.Error("New() without a clock should fail")
	}

	invalid := config.DefaultScene()
	invalid.Text.MaxChars = 0
	if _, err := New(invalid, Options{Clock: &frame.Immediate{}, Keys: core.NewScriptSource(nil)}); err == nil {
		t.Error("New() with an invalid scene should fail")
	}
}

func TestAdvanceDialogue(t *testing.T) {
	c := newTestController(t, config.DefaultScene(), press(AdvanceButton))

	// The press is polled at the end of the first tick and acted on in the second.
	tick(t, c, 1)
	if got := c.State().Cursor.Entry; got != 0 {
		t.Fatalf("Cursor.Entry after one tick = %d, expected 0", got)
	}
	tick(t, c, 1)

	cur := c.State().Cursor
	if cur.Entry != 1 || cur.Line != 3 || cur.Column != len("Rick and Morty. ") {
		t.Errorf("Cursor = %+v, expected entry 1 on line 3", cur)
	}
	if got := c.Tiles().Redraws(); got != 2 {
		t.Errorf("Redraws() = %d, expected 2", got)
	}

	spans := c.Writer().Staged()
	expected := []string{"To be fair, you have ", "to have a very high ", "IQ to understand ", "Rick and Morty. "}
	if len(spans) != len(expected) {
		t.Fatalf("Staged() = %+v, expected %d lines", spans, len(expected))
	}
	for i, s := range spans {
		if s.Text != expected[i] || s.X != 2 || s.Y != 1+i {
			t.Errorf("span %d = %+v, expected %q at (2, %d)", i, s, expected[i], 1+i)
		}
	}
}

func TestHeldButtonAdvancesOnce(t *testing.T) {
	a := press(AdvanceButton)
	c := newTestController(t, config.DefaultScene(), a, a, a, a, a)

	tick(t, c, 6)
	if got := c.State().Cursor.Entry; got != 1 {
		t.Errorf("Cursor.Entry = %d, expected 1", got)
	}
}

func TestExhaustedDialogueIsNoOp(t *testing.T) {
	scene := config.DefaultScene()
	scene.Dialogue = []string{"hi"}
	a := press(AdvanceButton)
	c := newTestController(t, scene, a, core.InputFrame{}, a)

	tick(t, c, 2)
	before := c.State().Cursor
	redraws := c.Tiles().Redraws()
	if before.Entry != 1 {
		t.Fatalf("Cursor.Entry = %d, expected 1", before.Entry)
	}

	tick(t, c, 2)
	if got := c.State().Cursor; got != before {
		t.Errorf("Cursor = %+v, expected %+v", got, before)
	}
	if got := c.Tiles().Redraws(); got != redraws {
		t.Errorf("Redraws() = %d, expected %d", got, redraws)
	}
}

func TestVelocityLagsInputByOneFrame(t *testing.T) {
	right := press(core.ButtonRight)
	c := newTestController(t, config.DefaultScene(), right, right, right)

	tests := []struct {
		x, vx int
	}{
		{50, 0}, // tick 1 polls the press
		{50, 1}, // tick 2 samples it into velocity
		{51, 1}, // tick 3 moves
		{52, 1},
	}
	for i, tc := range tests {
		tick(t, c, 1)
		if s := c.State(); s.X != tc.x || s.VX != tc.vx {
			t.Errorf("tick %d: X, VX = %d, %d, expected %d, %d", i+1, s.X, s.VX, tc.x, tc.vx)
		}
	}
}

func TestPositionClampsAtEdge(t *testing.T) {
	scene := config.DefaultScene()
	scene.Player.X = 0
	right := press(core.ButtonRight)
	script := make([]core.InputFrame, scene.Display.Width)
	for i := range script {
		script[i] = right
	}
	c := newTestController(t, scene, script...)

	maxX := scene.Display.Width - scene.Player.Width
	for i := 0; i < scene.Display.Width; i++ {
		tick(t, c, 1)
		if x := c.State().X; x > maxX || x < 0 {
			t.Fatalf("tick %d: X = %d, outside [0, %d]", i, x, maxX)
		}
	}
	if x := c.State().X; x != maxX {
		t.Errorf("X = %d, expected %d", x, maxX)
	}
	if attr := c.Stage().Attr(c.Player().Handle()); int(attr.X) != maxX {
		t.Errorf("staged player X = %d, expected %d", attr.X, maxX)
	}
}

func TestStagedWritesAppearOnlyOnPresent(t *testing.T) {
	var frames []display.Frame
	c, err := New(config.DefaultScene(), Options{
		Clock:   &frame.Immediate{},
		Keys:    core.NewScriptSource([]core.InputFrame{press(AdvanceButton)}),
		Publish: func(f display.Frame) { frames = append(frames, f) },
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	tick(t, c, 1)
	if err := c.Step(); err != nil {
		t.Fatalf("Step() failed: %v", err)
	}
	if len(c.Writer().Staged()) == 0 {
		t.Fatal("Step() did not stage the dialogue")
	}
	if strings.Contains(frames[0].Screen.Row(1), "To be fair,") {
		t.Error("text visible before it was staged")
	}
	if c.Display().Commits() != 3 {
		t.Errorf("Commits() = %d after Step, expected 3", c.Display().Commits())
	}

	c.Present()
	if len(frames) != 2 || frames[1].Number != 2 {
		t.Fatalf("published %d frames", len(frames))
	}
	if row := frames[1].Screen.Row(1); !strings.Contains(row, "To be fair,") {
		t.Errorf("Row(1) = %q, expected the first line of dialogue", row)
	}
	if c.Display().Commits() != 6 {
		t.Errorf("Commits() = %d, expected 6", c.Display().Commits())
	}
}

func TestBackgroundUsesFillPattern(t *testing.T) {
	c := newTestController(t, config.DefaultScene(), press(AdvanceButton))
	tick(t, c, 2)

	bg := c.Tiles().Background()
	cols, rows := 30, 20
	first := bg.CellAt(0, 0).Tile
	if first == tiles.BlankTile {
		t.Fatal("grid still on the blank tile")
	}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if got := bg.CellAt(x, y).Tile; got != first {
				t.Fatalf("cell (%d,%d) = tile %d, expected %d", x, y, got, first)
			}
		}
	}
}

type cancelAfter struct {
	n      int
	cancel context.CancelFunc
}

func (c *cancelAfter) Wait(ctx context.Context) error {
	c.n--
	if c.n < 0 {
		c.cancel()
	}
	return ctx.Err()
}

func TestRunStopsWhenClockFails(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := New(config.DefaultScene(), Options{
		Clock: &cancelAfter{n: 3, cancel: cancel},
		Keys:  core.NewScriptSource(nil),
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if err := c.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, expected context.Canceled", err)
	}
	if got := c.State().Frame; got != 3 {
		t.Errorf("Frame = %d, expected 3", got)
	}
}

func TestDefaultDialogueFitsTotalLines(t *testing.T) {
	scene := config.DefaultScene()
	layout := text.Layout{Width: scene.Text.MaxChars, Marker: scene.Text.Marker}
	for i, entry := range scene.Dialogue {
		if n := len(layout.Wrap(entry)); n > scene.Text.TotalLines {
			t.Errorf("entry %d wraps to %d lines, only %d are shown", i, n, scene.Text.TotalLines)
		}
	}
}
