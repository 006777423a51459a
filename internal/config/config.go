// Package config provides YAML-based scene configuration loading for the
// tavern.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-tavern/internal/core"
	"github.com/vovakirdan/tui-tavern/internal/tiles"
)

// Scene contains everything needed to build one dialogue scene.
type Scene struct {
	ID          string           `yaml:"id"`
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Display     DisplayConfig    `yaml:"display"`
	Player      PlayerConfig     `yaml:"player"`
	Background  BackgroundConfig `yaml:"background"`
	Objects     ObjectConfig     `yaml:"objects"`
	Text        TextConfig       `yaml:"text"`
	Dialogue    []string         `yaml:"dialogue"`
	Sprites     []Placement      `yaml:"sprites"`
}

// DisplayConfig defines the emulated display, in pixels.
type DisplayConfig struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	TileSize int `yaml:"tile_size"`
}

// PlayerConfig defines the movable sprite.
type PlayerConfig struct {
	Tag    string `yaml:"tag"`
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Speed  int    `yaml:"speed"` // Pixels per frame while a direction is held
}

// BackgroundConfig defines the tile background layer.
type BackgroundConfig struct {
	MapSize int          `yaml:"map_size"` // 32 or 64
	Fill    core.Color   `yaml:"fill"`     // Palette index of the scratch fill tile
	Palette core.Palette `yaml:"palette"`  // Raw BGR555 entries
}

// ObjectConfig defines the sprite palette bank.
type ObjectConfig struct {
	Palette core.Palette `yaml:"palette"`
	Slots   int          `yaml:"slots"`
}

// TextConfig defines the dialogue text box.
type TextConfig struct {
	X          int        `yaml:"x"` // Origin tile column
	Y          int        `yaml:"y"` // Origin tile row
	FG         core.Color `yaml:"fg"`
	BG         core.Color `yaml:"bg"`
	MaxChars   int        `yaml:"max_chars"`   // Wrap width
	TotalLines int        `yaml:"total_lines"` // Lines shown at once, 0 shows all
	Marker     string     `yaml:"marker"`      // Restarts the line count
}

// Placement positions one static sprite.
type Placement struct {
	Tag    string `yaml:"tag"`
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	HFlip  bool   `yaml:"hflip"`
	Hidden bool   `yaml:"hidden"`
	Frame  int    `yaml:"frame"`
}

// Validate reports the first setting that cannot drive a scene.
func (s Scene) Validate() error {
	d := s.Display
	switch {
	case s.ID == "":
		return errors.New("config: scene id is empty")
	case d.Width <= 0 || d.Height <= 0 || d.TileSize <= 0:
		return fmt.Errorf("config: scene %s: display %dx%d/%d is invalid", s.ID, d.Width, d.Height, d.TileSize)
	case d.Width%d.TileSize != 0 || d.Height%d.TileSize != 0:
		return fmt.Errorf("config: scene %s: display is not a whole number of tiles", s.ID)
	case s.Player.Tag == "":
		return fmt.Errorf("config: scene %s: player tag is empty", s.ID)
	case s.Player.Width <= 0 || s.Player.Height <= 0:
		return fmt.Errorf("config: scene %s: player size is invalid", s.ID)
	case s.Player.Width > d.Width || s.Player.Height > d.Height:
		return fmt.Errorf("config: scene %s: player is larger than the display", s.ID)
	case !tiles.ValidMapSize(s.Background.MapSize):
		return fmt.Errorf("config: scene %s: map size %d is not %d or %d", s.ID, s.Background.MapSize, tiles.MapSize32, tiles.MapSize64)
	case s.Background.MapSize*d.TileSize < d.Width || s.Background.MapSize*d.TileSize < d.Height:
		return fmt.Errorf("config: scene %s: map size %d does not cover the display", s.ID, s.Background.MapSize)
	case int(s.Background.Fill) >= int(core.ObjectBank):
		return fmt.Errorf("config: scene %s: fill %d is outside the background bank", s.ID, s.Background.Fill)
	case len(s.Background.Palette) > int(core.ObjectBank):
		return fmt.Errorf("config: scene %s: background palette has %d entries", s.ID, len(s.Background.Palette))
	case s.Text.MaxChars <= 0:
		return fmt.Errorf("config: scene %s: text max_chars must be positive", s.ID)
	case s.Text.TotalLines < 0:
		return fmt.Errorf("config: scene %s: text total_lines is negative", s.ID)
	}

	for i, p := range s.Sprites {
		if p.Tag == "" {
			return fmt.Errorf("config: scene %s: sprite %d has no tag", s.ID, i)
		}
		if p.X < 0 || p.Y < 0 || p.X > 0xffff || p.Y > 0xffff {
			return fmt.Errorf("config: scene %s: sprite %d (%s) position out of range", s.ID, i, p.Tag)
		}
	}
	return nil
}

// Runtime returns the shared runtime settings for this scene at tickRate.
func (s Scene) Runtime(tickRate int) core.RuntimeConfig {
	rc := core.DefaultConfig()
	rc.Width = s.Display.Width
	rc.Height = s.Display.Height
	rc.TileSize = s.Display.TileSize
	if tickRate > 0 {
		rc.TickRate = tickRate
	}
	return rc
}

// Palette returns the background and object banks merged into one palette.
func (s Scene) Palette() core.Palette {
	return core.Merge(s.Background.Palette, s.Objects.Palette)
}
