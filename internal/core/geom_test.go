package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside right", 35, 15, false},
		{"outside top", 15, 5, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := r.Contains(tc.x, tc.y)
			if result != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, result, tc.expected)
			}
		})
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestBounds(t *testing.T) {
	maxX, maxY := Bounds(DisplayWidth, DisplayHeight, 16, 16)
	if maxX != 224 || maxY != 144 {
		t.Errorf("Bounds() = (%d, %d), expected (224, 144)", maxX, maxY)
	}
}

func TestTri(t *testing.T) {
	tests := []struct {
		neg, pos bool
		expected int
	}{
		{false, false, 0},
		{true, false, -1},
		{false, true, 1},
		{true, true, 0},
	}

	for _, tc := range tests {
		if got := Tri(tc.neg, tc.pos); got != tc.expected {
			t.Errorf("Tri(%v, %v) = %d, expected %d", tc.neg, tc.pos, got, tc.expected)
		}
	}
}

func TestPaletteHex(t *testing.T) {
	p := Palette{0x0000, 0x0A2A, 0xFFFF, 0x001F, 0x7C00}

	tests := []struct {
		c        Color
		expected string
	}{
		{0, "#000000"},
		{2, "#ffffff"},
		{3, "#ff0000"}, // low five bits are red
		{4, "#0000ff"}, // high five bits are blue
		{9, "#000000"}, // out of range
	}

	for _, tc := range tests {
		if got := p.Hex(tc.c); got != tc.expected {
			t.Errorf("Hex(%d) = %s, expected %s", tc.c, got, tc.expected)
		}
	}
}

func TestPaletteMerge(t *testing.T) {
	merged := Merge(Palette{1, 2}, Palette{7, 8})

	if len(merged) != int(ObjectBank)+2 {
		t.Fatalf("len(Merge()) = %d, expected %d", len(merged), int(ObjectBank)+2)
	}
	if merged[1] != 2 || merged[2] != 0 {
		t.Errorf("background bank = %v, expected [1 2 0 ...]", merged[:3])
	}
	if merged[ObjectBank] != 7 || merged[ObjectBank+1] != 8 {
		t.Errorf("object bank = %v, expected [7 8]", merged[ObjectBank:])
	}
}
