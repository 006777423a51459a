package core

// Display geometry of the handheld, in pixels.
const (
	DisplayWidth  = 240
	DisplayHeight = 160
	TileSize      = 8
)

// RuntimeConfig contains the settings shared by the loop and the platform.
type RuntimeConfig struct {
	Width     int // Display width in pixels
	Height    int // Display height in pixels
	TileSize  int // Tile edge in pixels
	CellWidth int // Terminal columns used per tile (2 keeps tiles roughly square)
	TickRate  int // Frame boundaries per second (default 60)
}

// DefaultConfig returns a RuntimeConfig for the 240x160 display at 60Hz.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		Width:     DisplayWidth,
		Height:    DisplayHeight,
		TileSize:  TileSize,
		CellWidth: 2,
		TickRate:  60,
	}
}

// Cols returns the number of visible tile columns.
func (c RuntimeConfig) Cols() int {
	return c.Width / c.TileSize
}

// Rows returns the number of visible tile rows.
func (c RuntimeConfig) Rows() int {
	return c.Height / c.TileSize
}

// ScreenSize returns the terminal size, in characters, needed to show the display.
func (c RuntimeConfig) ScreenSize() (w, h int) {
	return c.Cols() * c.CellWidth, c.Rows()
}
