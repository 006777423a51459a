package core

import "fmt"

// Color is an index into a Palette. Background tiles use the low 16 entries,
// sprite art uses the object bank starting at ObjectBank.
type Color uint8

// ObjectBank is the first palette index reserved for sprite colours.
const ObjectBank Color = 16

// ColorTransparent is never drawn by the compositor for sprite pixels.
const ColorTransparent Color = 0

// Palette holds raw 15-bit BGR colours (5 bits per channel, blue highest),
// the format the handheld's palette RAM uses.
type Palette []uint16

// RGB expands the entry at index c to 8 bits per channel.
// Out-of-range indices resolve to black.
func (p Palette) RGB(c Color) (r, g, b uint8) {
	if int(c) >= len(p) {
		return 0, 0, 0
	}
	v := p[c]
	return expand5(v & 0x1f), expand5((v >> 5) & 0x1f), expand5((v >> 10) & 0x1f)
}

// Hex returns the entry at index c as a "#rrggbb" string.
func (p Palette) Hex(c Color) string {
	r, g, b := p.RGB(c)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// Merge returns a palette with bg in the background bank and obj in the
// object bank. Missing background entries are padded with black.
func Merge(bg, obj Palette) Palette {
	out := make(Palette, int(ObjectBank)+len(obj))
	copy(out, bg)
	copy(out[ObjectBank:], obj)
	return out
}

// expand5 scales a 5-bit channel to 8 bits.
func expand5(v uint16) uint8 {
	return uint8(v<<3 | v>>2)
}
