package text

import "github.com/vovakirdan/tui-tavern/internal/core"

// Cursor tracks layout progress through the dialogue script.
type Cursor struct {
	Line   int // Index of the line being written, 0..TotalLines
	Column int // Characters committed to that line
	Entry  int // Next unconsumed dialogue entry
}

// Span is a run of text at a screen position.
type Span struct {
	X, Y int
	Text string
	FG   core.Color
	BG   core.Color
}

// Sink receives committed text. The display implements it.
type Sink interface {
	CommitText(spans []Span)
}

// Writer is the one active text rendering sink. Lines are staged locally
// and reach the display only on Commit.
type Writer struct {
	x, y     int
	maxLines int
	fg, bg   core.Color
	staged   []Span
}

// NewWriter creates a writer whose first line starts at screen cell (x, y).
// maxLines < 1 means unlimited.
func NewWriter(x, y, maxLines int, fg, bg core.Color) *Writer {
	return &Writer{x: x, y: y, maxLines: maxLines, fg: fg, bg: bg}
}

// Stage replaces the staged text with lines and returns the cursor after
// the last staged character. Lines past maxLines are dropped.
func (w *Writer) Stage(cur Cursor, lines []Line) Cursor {
	w.staged = w.staged[:0]
	cur.Line, cur.Column = 0, 0

	for i, line := range lines {
		if w.maxLines > 0 && i >= w.maxLines {
			break
		}
		w.staged = append(w.staged, Span{
			X:    w.x,
			Y:    w.y + i,
			Text: line.String(),
			FG:   w.fg,
			BG:   w.bg,
		})
		cur.Line = i
		cur.Column = line.Len()
	}
	return cur
}

// Clear drops all staged text.
func (w *Writer) Clear() {
	w.staged = w.staged[:0]
}

// Staged returns a copy of the staged spans.
func (w *Writer) Staged() []Span {
	out := make([]Span, len(w.staged))
	copy(out, w.staged)
	return out
}

// Commit flushes the staged text to the sink. Staged text stays in place
// and is committed again every frame until replaced.
func (w *Writer) Commit(sink Sink) {
	sink.CommitText(w.Staged())
}
