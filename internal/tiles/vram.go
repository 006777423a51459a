// Package tiles manages the tile memory and the single background layer.
//
// Tiles live in a fixed pool of slots with reference counts. Slot 0 is a
// permanent blank tile so every map cell always references a valid tile.
// A scratch fill tile is handed out as a DynamicTile handle; releasing the
// handle drops only the handle's own reference, so cells written with it
// stay valid until they are overwritten.
package tiles

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-tavern/internal/core"
)

var (
	// ErrPoolExhausted is returned when every tile slot is referenced.
	ErrPoolExhausted = errors.New("tiles: no free tile slot")

	// ErrHandleLive is returned when a scratch tile is requested while
	// another one has not been released.
	ErrHandleLive = errors.New("tiles: a scratch tile is already live")

	// ErrTileReleased is returned when a released handle is used.
	ErrTileReleased = errors.New("tiles: scratch tile used after release")

	// ErrOutOfBounds is returned for map writes outside the map.
	ErrOutOfBounds = errors.New("tiles: cell out of bounds")
)

// TileIndex addresses one slot of the tile pool.
type TileIndex uint16

// BlankTile is the permanent tile every cell starts out referencing.
const BlankTile TileIndex = 0

// Tile is an 8x8 tile filled with one palette entry.
type Tile struct {
	Fill core.Color
}

// VRAM is the fixed tile pool.
type VRAM struct {
	tiles      []Tile
	refs       []int
	generation uint64
	live       *DynamicTile
}

// NewVRAM creates a pool with the given number of slots, including the
// blank tile. At least two slots are always allocated.
func NewVRAM(slots int) *VRAM {
	if slots < 2 {
		slots = 2
	}
	v := &VRAM{
		tiles: make([]Tile, slots),
		refs:  make([]int, slots),
	}
	v.refs[BlankTile] = 1 // pinned
	return v
}

// DynamicTile is the handle of a scratch tile.
type DynamicTile struct {
	index      TileIndex
	generation uint64
	released   bool
}

// TileIndex returns the slot the handle refers to.
func (t *DynamicTile) TileIndex() (TileIndex, error) {
	if t.released {
		return 0, ErrTileReleased
	}
	return t.index, nil
}

// Generation identifies this handle; every allocation gets a new one.
func (t *DynamicTile) Generation() uint64 {
	return t.generation
}

// Released reports whether the handle has been given back.
func (t *DynamicTile) Released() bool {
	return t.released
}

// NewDynamicTile allocates a scratch tile filled with fill.
func (v *VRAM) NewDynamicTile(fill core.Color) (*DynamicTile, error) {
	if v.live != nil {
		return nil, ErrHandleLive
	}
	for i := range v.refs {
		if v.refs[i] != 0 {
			continue
		}
		v.generation++
		v.tiles[i] = Tile{Fill: fill}
		v.refs[i] = 1
		v.live = &DynamicTile{index: TileIndex(i), generation: v.generation}
		return v.live, nil
	}
	return nil, ErrPoolExhausted
}

// RemoveDynamicTile releases a scratch tile handle.
func (v *VRAM) RemoveDynamicTile(t *DynamicTile) error {
	if t.released {
		return ErrTileReleased
	}
	t.released = true
	if v.live == t {
		v.live = nil
	}
	v.unref(t.index)
	return nil
}

// WithDynamicTile allocates a scratch tile, runs fn with it and releases it
// on every return path.
func (v *VRAM) WithDynamicTile(fill core.Color, fn func(t *DynamicTile) error) (err error) {
	t, err := v.NewDynamicTile(fill)
	if err != nil {
		return fmt.Errorf("tiles: allocate scratch tile: %w", err)
	}
	defer func() {
		if rerr := v.RemoveDynamicTile(t); rerr != nil && err == nil {
			err = rerr
		}
	}()
	return fn(t)
}

// Tile returns the tile in slot i and whether the slot is referenced.
func (v *VRAM) Tile(i TileIndex) (Tile, bool) {
	if int(i) >= len(v.tiles) || v.refs[i] == 0 {
		return Tile{}, false
	}
	return v.tiles[i], true
}

// Refs returns the reference count of slot i.
func (v *VRAM) Refs(i TileIndex) int {
	if int(i) >= len(v.refs) {
		return 0
	}
	return v.refs[i]
}

// InUse returns how many slots are referenced, the blank tile included.
func (v *VRAM) InUse() int {
	n := 0
	for _, r := range v.refs {
		if r > 0 {
			n++
		}
	}
	return n
}

// Live reports whether a scratch tile handle is outstanding.
func (v *VRAM) Live() bool {
	return v.live != nil
}

func (v *VRAM) ref(i TileIndex) {
	v.refs[i]++
}

func (v *VRAM) unref(i TileIndex) {
	if v.refs[i] > 0 {
		v.refs[i]--
	}
}
