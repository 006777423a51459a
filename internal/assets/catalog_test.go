package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultSheet(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() failed: %v", err)
	}

	for _, name := range []string{
		"Player", "npc player", "Table Corner", "Table Top",
		"Text", "Text Mid", "Boden", "wood I think",
	} {
		if _, err := c.Tag(name); err != nil {
			t.Errorf("Tag(%q) failed: %v", name, err)
		}
	}

	player, _ := c.Tag("Player")
	if player.Width != 16 || player.Height != 16 {
		t.Errorf("Player size = %dx%d, expected 16x16", player.Width, player.Height)
	}
	if player.FrameCount() != 2 {
		t.Errorf("Player FrameCount() = %d, expected 2", player.FrameCount())
	}
}

func TestUnknownTag(t *testing.T) {
	c, _ := Default()
	if _, err := c.Tag("dragon"); !errors.Is(err, ErrUnknownTag) {
		t.Errorf("Tag(dragon) = %v, expected ErrUnknownTag", err)
	}
}

func TestLoadRejectsBadSheets(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "tags: ["},
		{"missing name", "tags:\n  - width: 8\n    height: 8\n"},
		{"odd size", "tags:\n  - name: a\n    width: 10\n    height: 8\n"},
		{"duplicate", "tags:\n  - name: a\n    width: 8\n    height: 8\n  - name: a\n    width: 8\n    height: 8\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load([]byte(tc.yaml)); err == nil {
				t.Error("Load() should fail")
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.yaml")
	data := "tags:\n  - name: dot\n    width: 8\n    height: 8\n    fill: \"*\"\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if names := c.Names(); len(names) != 1 || names[0] != "dot" {
		t.Errorf("Names() = %v, expected [dot]", names)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadFile() of a missing file should fail")
	}
}

func TestGlyphArtAndFlip(t *testing.T) {
	tag := Tag{Name: "p", Width: 16, Height: 16, Frames: [][]string{{" () ", "/|| "}}}

	tests := []struct {
		col, row int
		flip     bool
		expected rune
		opaque   bool
	}{
		{0, 0, false, ' ', false},
		{1, 0, false, '(', true},
		{0, 1, false, '/', true},
		{3, 1, false, ' ', false},
		{3, 1, true, '\\', true}, // mirrored '/'
		{0, 1, true, ' ', false},
		{2, 0, true, ')', true}, // mirrored '(' moved to col 2
	}

	for _, tc := range tests {
		r, ok := tag.Glyph(0, tc.col, tc.row, 4, 2, tc.flip)
		if r != tc.expected || ok != tc.opaque {
			t.Errorf("Glyph(%d, %d, flip=%v) = %q, %v, expected %q, %v",
				tc.col, tc.row, tc.flip, r, ok, tc.expected, tc.opaque)
		}
	}
}

func TestGlyphSamplesArt(t *testing.T) {
	// Two art columns stretched over four cells.
	tag := Tag{Name: "s", Width: 8, Height: 8, Frames: [][]string{{"ab"}}}

	expected := []rune{'a', 'a', 'b', 'b'}
	for col, want := range expected {
		if r, _ := tag.Glyph(0, col, 0, 4, 1, false); r != want {
			t.Errorf("Glyph(col %d) = %q, expected %q", col, r, want)
		}
	}
}

func TestGlyphFill(t *testing.T) {
	filled := Tag{Name: "f", Width: 8, Height: 8, Fill: "░"}
	if r, ok := filled.Glyph(0, 1, 0, 2, 1, false); r != '░' || !ok {
		t.Errorf("fill Glyph() = %q, %v, expected '░', true", r, ok)
	}

	blank := Tag{Name: "b", Width: 8, Height: 8, BG: 3}
	if _, ok := blank.Glyph(0, 0, 0, 2, 1, false); !ok {
		t.Error("a tag with a background colour should be opaque")
	}

	if _, ok := filled.Glyph(0, 5, 0, 2, 1, false); ok {
		t.Error("cells outside the sprite should be transparent")
	}
}
