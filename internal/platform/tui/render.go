package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tavern/internal/core"
)

// styleKey identifies one colour pair of the palette.
type styleKey struct {
	fg, bg core.Color
}

// Renderer turns screens into styled strings. Styles are built once per
// colour pair of its palette.
type Renderer struct {
	lg      *lipgloss.Renderer
	palette core.Palette
	styles  map[styleKey]lipgloss.Style
}

// NewRenderer creates a renderer for the given palette using the colour
// profile of the local terminal.
func NewRenderer(palette core.Palette) *Renderer {
	return newRenderer(nil, palette)
}

// newRenderer creates a renderer bound to lg, which may be nil.
func newRenderer(lg *lipgloss.Renderer, palette core.Palette) *Renderer {
	if lg == nil {
		lg = lipgloss.DefaultRenderer()
	}
	return &Renderer{lg: lg, palette: palette, styles: make(map[styleKey]lipgloss.Style)}
}

func (r *Renderer) style(k styleKey) lipgloss.Style {
	if s, ok := r.styles[k]; ok {
		return s
	}
	s := r.lg.NewStyle()
	if k.fg != core.ColorTransparent {
		s = s.Foreground(lipgloss.Color(r.palette.Hex(k.fg)))
	}
	if k.bg != core.ColorTransparent {
		s = s.Background(lipgloss.Color(r.palette.Hex(k.bg)))
	}
	r.styles[k] = s
	return s
}

// Render converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same colours to minimize ANSI escape sequences.
func (r *Renderer) Render(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			start := styleKey{cell.FG, cell.BG}

			// Collect consecutive cells with the same colours
			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if (styleKey{cell.FG, cell.BG}) != start {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			sb.WriteString(r.style(start).Render(run.String()))
		}
	}
	return sb.String()
}
