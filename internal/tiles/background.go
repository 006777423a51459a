package tiles

import (
	"fmt"

	"github.com/vovakirdan/tui-tavern/internal/core"
)

// Map sizes supported by the background hardware.
const (
	MapSize32 = 32
	MapSize64 = 64
)

// ValidMapSize reports whether n is a supported map size.
func ValidMapSize(n int) bool {
	return n == MapSize32 || n == MapSize64
}

// TileSetting holds the per-cell display attributes.
type TileSetting struct {
	HFlip   bool
	Palette uint8 // 16-colour bank
}

// Cell is one entry of the background map.
type Cell struct {
	Tile TileIndex
	TileSetting
}

// Snapshot is the visible part of the map, resolved to colours.
type Snapshot struct {
	Cols, Rows int
	Visible    bool
	Colors     []core.Color // Row-major, Cols*Rows entries
}

// At returns the colour of visible cell (x, y).
func (s Snapshot) At(x, y int) core.Color {
	return s.Colors[y*s.Cols+x]
}

// BackgroundSink receives committed background state. The display implements it.
type BackgroundSink interface {
	CommitBackground(s Snapshot)
}

// Background is the single regular background layer. Writes are staged in
// the map and become visible on Commit.
type Background struct {
	vram       *VRAM
	size       int
	cols, rows int
	cells      []Cell
	visible    bool
}

// NewBackground creates a size x size map showing cols x rows cells.
// Every cell starts on the blank tile.
func NewBackground(vram *VRAM, size, cols, rows int) *Background {
	b := &Background{
		vram:  vram,
		size:  size,
		cols:  min(cols, size),
		rows:  min(rows, size),
		cells: make([]Cell, size*size),
	}
	vram.refs[BlankTile] += len(b.cells)
	return b
}

// Size returns the visible dimensions in cells.
func (b *Background) Size() (cols, rows int) {
	return b.cols, b.rows
}

// Covers reports whether a w x h area anchored at the origin fits the map.
func (b *Background) Covers(w, h int) bool {
	return w >= 0 && h >= 0 && w <= b.size && h <= b.size
}

// SetTile stages t with the given settings at (x, y).
func (b *Background) SetTile(x, y int, t *DynamicTile, s TileSetting) error {
	idx, err := t.TileIndex()
	if err != nil {
		return err
	}
	return b.setIndex(x, y, idx, s)
}

func (b *Background) setIndex(x, y int, idx TileIndex, s TileSetting) error {
	if x < 0 || x >= b.size || y < 0 || y >= b.size {
		return fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, x, y)
	}
	i := y*b.size + x
	b.vram.ref(idx)
	b.vram.unref(b.cells[i].Tile)
	b.cells[i] = Cell{Tile: idx, TileSetting: s}
	return nil
}

// CellAt returns the staged cell at (x, y).
func (b *Background) CellAt(x, y int) Cell {
	if x < 0 || x >= b.size || y < 0 || y >= b.size {
		return Cell{}
	}
	return b.cells[y*b.size+x]
}

// Show makes the layer visible from the next commit.
func (b *Background) Show() {
	b.visible = true
}

// Hide hides the layer from the next commit.
func (b *Background) Hide() {
	b.visible = false
}

// Commit resolves the visible cells and hands them to the sink.
func (b *Background) Commit(sink BackgroundSink) {
	snap := Snapshot{
		Cols:    b.cols,
		Rows:    b.rows,
		Visible: b.visible,
		Colors:  make([]core.Color, b.cols*b.rows),
	}
	for y := 0; y < b.rows; y++ {
		for x := 0; x < b.cols; x++ {
			c := b.cells[y*b.size+x]
			tile, _ := b.vram.Tile(c.Tile)
			snap.Colors[y*b.cols+x] = core.Color(c.Palette)*16 + tile.Fill
		}
	}
	sink.CommitBackground(snap)
}
