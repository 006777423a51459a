// Package text lays dialogue out into fixed-width lines and stages the
// result for the display.
package text

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// DefaultMarker is the forced-break marker used by the dialogue scripts.
const DefaultMarker = "\n"

// Line is one wrapped line: words in order, each rendered with a trailing space.
type Line struct {
	Words []string
}

// String renders the line as drawn: every word followed by one space.
func (l Line) String() string {
	var sb strings.Builder
	for _, w := range l.Words {
		sb.WriteString(w)
		sb.WriteByte(' ')
	}
	return sb.String()
}

// Len returns the accumulated size of the line including trailing spaces.
func (l Line) Len() int {
	n := 0
	for _, w := range l.Words {
		n += runewidth.StringWidth(w) + 1
	}
	return n
}

// Width returns the visible width: words plus the spaces between them.
func (l Line) Width() int {
	if len(l.Words) == 0 {
		return 0
	}
	return l.Len() - 1
}

// Layout is a greedy word-wrap configuration. Widths are measured in
// terminal cells, which for ASCII text is the byte length.
type Layout struct {
	Width  int    // Maximum characters per line, counting each word's trailing space
	Marker string // A word containing it restarts the line count; empty disables it
}

// Wrap lays s out with the default marker.
func Wrap(s string, width int) []Line {
	return Layout{Width: width, Marker: DefaultMarker}.Wrap(s)
}

// Wrap splits s into lines on ASCII whitespace.
//
// A word breaks to a new line when it would push the line past l.Width.
// Words are never split: a word wider than the budget sits on a line of
// its own and overflows it. A word containing the marker resets the line
// count before it is placed, so it and the words after it are measured
// as if the line were empty. The marker never closes a line by itself,
// and since the default marker is whitespace it only separates words.
func (l Layout) Wrap(s string) []Line {
	var (
		lines    []Line
		cur      Line
		lineSize int
	)

	for _, word := range strings.FieldsFunc(s, isASCIISpace) {
		if l.Marker != "" && strings.Contains(word, l.Marker) {
			lineSize = 0
		}

		w := runewidth.StringWidth(word)
		if lineSize+w > l.Width {
			if len(cur.Words) > 0 {
				lines = append(lines, cur)
				cur = Line{}
			}
			lineSize = 0
		}

		cur.Words = append(cur.Words, word)
		lineSize += w + 1
	}
	if len(cur.Words) > 0 {
		lines = append(lines, cur)
	}

	return lines
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
