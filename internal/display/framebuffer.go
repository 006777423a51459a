// Package display is the commit boundary of the loop. It receives the
// background, text and sprite commits and composes them into a terminal
// screen in that order.
package display

import (
	"github.com/vovakirdan/tui-tavern/internal/assets"
	"github.com/vovakirdan/tui-tavern/internal/core"
	"github.com/vovakirdan/tui-tavern/internal/sprite"
	"github.com/vovakirdan/tui-tavern/internal/text"
	"github.com/vovakirdan/tui-tavern/internal/tiles"
)

// Frame is one composed picture ready to be shown.
type Frame struct {
	Number  uint64
	Screen  *core.Screen
	Palette core.Palette
}

// Framebuffer holds the last committed state of each layer.
type Framebuffer struct {
	rc      core.RuntimeConfig
	catalog *assets.Catalog
	palette core.Palette

	bg      tiles.Snapshot
	text    []text.Span
	sprites []sprite.Attr

	commits uint64
}

// New creates a framebuffer for the display described by rc.
func New(rc core.RuntimeConfig, catalog *assets.Catalog, palette core.Palette) *Framebuffer {
	return &Framebuffer{rc: rc, catalog: catalog, palette: palette}
}

// CommitBackground implements tiles.BackgroundSink.
func (f *Framebuffer) CommitBackground(s tiles.Snapshot) {
	f.bg = s
	f.commits++
}

// CommitText implements text.Sink.
func (f *Framebuffer) CommitText(spans []text.Span) {
	f.text = spans
	f.commits++
}

// CommitSprites implements sprite.Sink.
func (f *Framebuffer) CommitSprites(attrs []sprite.Attr) {
	f.sprites = attrs
	f.commits++
}

// Commits returns the number of layer commits received.
func (f *Framebuffer) Commits() uint64 {
	return f.commits
}

// Palette returns the merged palette used to colour frames.
func (f *Framebuffer) Palette() core.Palette {
	return f.palette
}

// Compose draws the committed layers into a new screen. The result shares
// nothing with the framebuffer and may be handed to another goroutine.
func (f *Framebuffer) Compose(number uint64) Frame {
	w, h := f.rc.ScreenSize()
	scr := core.NewScreen(w, h)

	f.drawBackground(scr)
	for _, s := range f.text {
		scr.DrawText(s.X, s.Y, s.Text, s.FG, s.BG)
	}
	for _, a := range f.sprites {
		f.drawSprite(scr, a)
	}

	return Frame{Number: number, Screen: scr, Palette: f.palette}
}

func (f *Framebuffer) drawBackground(scr *core.Screen) {
	if !f.bg.Visible {
		return
	}
	cw := f.rc.CellWidth
	for y := 0; y < f.bg.Rows; y++ {
		for x := 0; x < f.bg.Cols; x++ {
			scr.FillRect(core.NewRect(x*cw, y, cw, 1), core.Cell{Rune: ' ', BG: f.bg.At(x, y)})
		}
	}
}

// drawSprite draws one slot. Transparent art cells keep the layer below.
func (f *Framebuffer) drawSprite(scr *core.Screen, a sprite.Attr) {
	if !a.Visible {
		return
	}
	tag, err := f.catalog.Tag(a.Tag)
	if err != nil {
		return
	}

	ts, cw := f.rc.TileSize, f.rc.CellWidth
	box := core.NewRect(int(a.X)*cw/ts, int(a.Y)/ts, tag.Width*cw/ts, tag.Height/ts)
	view := core.NewRect(0, 0, scr.Width(), scr.Height())

	for row := 0; row < box.H; row++ {
		for col := 0; col < box.W; col++ {
			x, y := box.X+col, box.Y+row
			if !view.Contains(x, y) {
				continue
			}
			r, opaque := tag.Glyph(a.Frame, col, row, box.W, box.H, a.HFlip)
			if !opaque {
				continue
			}
			under := scr.GetCell(x, y)
			cell := core.Cell{Rune: r, FG: core.ObjectBank + tag.FG, BG: under.BG}
			if tag.BG != core.ColorTransparent {
				cell.BG = core.ObjectBank + tag.BG
			}
			scr.SetCell(x, y, cell)
		}
	}
}
