package loop

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tavern/internal/assets"
	"github.com/vovakirdan/tui-tavern/internal/config"
	"github.com/vovakirdan/tui-tavern/internal/core"
	"github.com/vovakirdan/tui-tavern/internal/display"
	"github.com/vovakirdan/tui-tavern/internal/frame"
	"github.com/vovakirdan/tui-tavern/internal/sprite"
	"github.com/vovakirdan/tui-tavern/internal/text"
	"github.com/vovakirdan/tui-tavern/internal/tiles"
)

// tileSlots is the size of the tile pool: the blank tile, the fill the
// grid currently shows and the scratch tile of the next redraw.
const tileSlots = 4

// Options wires a controller to its collaborators.
type Options struct {
	Clock    frame.Clock           // Required
	Keys     core.KeySource        // Required
	Catalog  *assets.Catalog       // Defaults to the embedded sheet
	TickRate int                   // Defaults to 60
	Logger   *log.Logger           // Defaults to a discarding logger
	Publish  func(f display.Frame) // Receives every composed frame, optional
}

// New builds the scene: it allocates every sprite slot up front, clears the
// background once and places the player last so it is drawn on top.
func New(scene config.Scene, opts Options) (*Controller, error) {
	if err := scene.Validate(); err != nil {
		return nil, err
	}
	if opts.Clock == nil || opts.Keys == nil {
		return nil, fmt.Errorf("loop: scene %s: clock and key source are required", scene.ID)
	}

	catalog := opts.Catalog
	if catalog == nil {
		var err error
		if catalog, err = assets.Default(); err != nil {
			return nil, err
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	rc := scene.Runtime(opts.TickRate)
	maxX, maxY := core.Bounds(rc.Width, rc.Height, scene.Player.Width, scene.Player.Height)

	vram := tiles.NewVRAM(tileSlots)
	bg := tiles.NewBackground(vram, scene.Background.MapSize, rc.Cols(), rc.Rows())

	c := &Controller{
		scene: scene,
		rc:    rc,
		clock: opts.Clock,
		input: core.NewButtonController(opts.Keys),
		tiles: tiles.NewManager(vram, bg),
		writer: text.NewWriter(
			scene.Text.X*rc.CellWidth, scene.Text.Y, scene.Text.TotalLines,
			scene.Text.FG, scene.Text.BG,
		),
		layout:  text.Layout{Width: scene.Text.MaxChars, Marker: scene.Text.Marker},
		stage:   sprite.NewStage(scene.Objects.Slots),
		fb:      display.New(rc, catalog, scene.Palette()),
		publish: opts.Publish,
		logger:  logger,
		state:   LoopState{X: scene.Player.X, Y: scene.Player.Y},
		maxX:    maxX,
		maxY:    maxY,
	}

	if err := c.placeSprites(catalog); err != nil {
		return nil, err
	}
	if err := c.redraw(); err != nil {
		return nil, fmt.Errorf("loop: scene %s: initial background: %w", scene.ID, err)
	}
	return c, nil
}

func (c *Controller) placeSprites(catalog *assets.Catalog) error {
	for _, p := range c.scene.Sprites {
		if _, err := catalog.Tag(p.Tag); err != nil {
			return fmt.Errorf("loop: scene %s: %w", c.scene.ID, err)
		}
		obj, err := c.stage.Alloc(p.Tag)
		if err != nil {
			return fmt.Errorf("loop: scene %s: place %s: %w", c.scene.ID, p.Tag, err)
		}
		obj.SetPosition(uint16(p.X), uint16(p.Y)).SetHFlip(p.HFlip).SetFrame(p.Frame)
		if !p.Hidden {
			obj.Show()
		}
	}

	pc := c.scene.Player
	if _, err := catalog.Tag(pc.Tag); err != nil {
		return fmt.Errorf("loop: scene %s: %w", c.scene.ID, err)
	}
	player, err := c.stage.Alloc(pc.Tag)
	if err != nil {
		return fmt.Errorf("loop: scene %s: place player: %w", c.scene.ID, err)
	}
	c.player = player.SetPosition(uint16(pc.X), uint16(pc.Y)).Show()
	return nil
}
