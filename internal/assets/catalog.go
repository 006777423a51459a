// Package assets resolves sprite tags to their pixel size and glyph art.
// The sheet is pre-baked data; nothing here decodes images.
package assets

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-tavern/internal/core"
)

//go:embed sprites.yaml
var defaultSheetYAML []byte

// ErrUnknownTag is returned for tags that are not in the sheet.
var ErrUnknownTag = errors.New("assets: unknown tag")

// Tag is one named sprite of the sheet.
type Tag struct {
	Name   string     `yaml:"name"`
	Width  int        `yaml:"width"`  // Pixels
	Height int        `yaml:"height"` // Pixels
	FG     core.Color `yaml:"fg"`     // Object palette index
	BG     core.Color `yaml:"bg"`     // Object palette index, 0 is transparent
	Fill   string     `yaml:"fill"`   // Used when the tag has no frames
	Frames [][]string `yaml:"frames"`
}

type sheet struct {
	Tags []Tag `yaml:"tags"`
}

// Catalog is a loaded sprite sheet.
type Catalog struct {
	tags map[string]Tag
}

// Default returns the embedded sheet.
func Default() (*Catalog, error) {
	return Load(defaultSheetYAML)
}

// LoadFile reads a sheet from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("assets: read %s: %w", path, err)
	}
	return Load(data)
}

// Load parses a YAML sheet.
func Load(data []byte) (*Catalog, error) {
	var s sheet
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("assets: parse sheet: %w", err)
	}

	c := &Catalog{tags: make(map[string]Tag, len(s.Tags))}
	for _, t := range s.Tags {
		if t.Name == "" {
			return nil, errors.New("assets: tag without a name")
		}
		if t.Width <= 0 || t.Height <= 0 || t.Width%core.TileSize != 0 || t.Height%core.TileSize != 0 {
			return nil, fmt.Errorf("assets: tag %q: size %dx%d is not a positive multiple of %d",
				t.Name, t.Width, t.Height, core.TileSize)
		}
		if _, dup := c.tags[t.Name]; dup {
			return nil, fmt.Errorf("assets: duplicate tag %q", t.Name)
		}
		c.tags[t.Name] = t
	}
	return c, nil
}

// Tag looks a tag up by name.
func (c *Catalog) Tag(name string) (Tag, error) {
	t, ok := c.tags[name]
	if !ok {
		return Tag{}, fmt.Errorf("%w: %q", ErrUnknownTag, name)
	}
	return t, nil
}

// Names returns every tag name, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.tags))
	for n := range c.tags {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// FrameCount returns the number of frames; a fill-only tag has one.
func (t Tag) FrameCount() int {
	return max(1, len(t.Frames))
}

// Glyph returns the character of frame at terminal cell (col, row) of a
// sprite drawn cols x rows cells large, and whether that cell is opaque.
func (t Tag) Glyph(frame, col, row, cols, rows int, flip bool) (rune, bool) {
	if col < 0 || col >= cols || row < 0 || row >= rows {
		return ' ', false
	}
	if flip {
		col = cols - 1 - col
	}

	if len(t.Frames) == 0 {
		for _, r := range t.Fill {
			return r, true
		}
		return ' ', t.BG != core.ColorTransparent
	}

	art := t.Frames[frame%len(t.Frames)]
	if len(art) == 0 {
		return ' ', false
	}
	line := []rune(art[row*len(art)/rows])
	if len(line) == 0 {
		return ' ', false
	}
	r := line[col*len(line)/cols]
	if r == ' ' {
		return ' ', false
	}
	if flip {
		r = mirror(r)
	}
	return r, true
}

var mirrored = map[rune]rune{
	'/': '\\', '\\': '/',
	'(': ')', ')': '(',
	'{': '}', '}': '{',
	'<': '>', '>': '<',
	'[': ']', ']': '[',
	'╭': '╮', '╮': '╭',
	'╰': '╯', '╯': '╰',
	'▌': '▐', '▐': '▌',
}

// mirror returns the horizontally flipped form of r.
func mirror(r rune) rune {
	if m, ok := mirrored[r]; ok {
		return m
	}
	return r
}
