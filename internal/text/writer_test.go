package text

import (
	"testing"

	"github.com/vovakirdan/tui-tavern/internal/core"
)

type recordingSink struct {
	commits [][]Span
}

func (r *recordingSink) CommitText(spans []Span) {
	r.commits = append(r.commits, spans)
}

func TestWriterStage(t *testing.T) {
	w := NewWriter(2, 1, 0, 1, 2)
	cur := w.Stage(Cursor{Entry: 3}, Wrap("abc def", 5))

	if cur.Entry != 3 {
		t.Errorf("Stage() changed Entry to %d", cur.Entry)
	}
	if cur.Line != 1 || cur.Column != 4 {
		t.Errorf("Stage() cursor = %+v, expected line 1 column 4", cur)
	}

	staged := w.Staged()
	if len(staged) != 2 {
		t.Fatalf("Staged() = %d spans, expected 2", len(staged))
	}
	expected := []Span{
		{X: 2, Y: 1, Text: "abc ", FG: 1, BG: 2},
		{X: 2, Y: 2, Text: "def ", FG: 1, BG: 2},
	}
	for i := range expected {
		if staged[i] != expected[i] {
			t.Errorf("span %d = %+v, expected %+v", i, staged[i], expected[i])
		}
	}
}

func TestWriterClipsToMaxLines(t *testing.T) {
	w := NewWriter(0, 0, 2, 0, 0)
	cur := w.Stage(Cursor{}, Wrap("aa bb cc", 2))

	if len(w.Staged()) != 2 {
		t.Errorf("Staged() = %d spans, expected 2", len(w.Staged()))
	}
	if cur.Line != 1 {
		t.Errorf("cursor line = %d, expected 1", cur.Line)
	}
}

func TestWriterStageReplaces(t *testing.T) {
	w := NewWriter(0, 0, 0, 0, 0)
	w.Stage(Cursor{}, Wrap("one two three", 3))
	cur := w.Stage(Cursor{}, Wrap("x", 3))

	if len(w.Staged()) != 1 || w.Staged()[0].Text != "x " {
		t.Errorf("Staged() = %+v, expected only \"x \"", w.Staged())
	}
	if cur.Line != 0 || cur.Column != 2 {
		t.Errorf("cursor = %+v, expected line 0 column 2", cur)
	}
}

func TestWriterCommit(t *testing.T) {
	sink := &recordingSink{}
	w := NewWriter(0, 0, 0, core.Color(1), core.Color(2))

	w.Commit(sink)
	w.Stage(Cursor{}, Wrap("hi", 20))
	w.Commit(sink)
	w.Commit(sink)

	if len(sink.commits) != 3 {
		t.Fatalf("sink saw %d commits, expected 3", len(sink.commits))
	}
	if len(sink.commits[0]) != 0 {
		t.Errorf("first commit = %+v, expected nothing staged", sink.commits[0])
	}
	if len(sink.commits[2]) != 1 || sink.commits[2][0].Text != "hi " {
		t.Errorf("staged text should persist across commits, got %+v", sink.commits[2])
	}

	w.Clear()
	w.Commit(sink)
	if len(sink.commits[3]) != 0 {
		t.Errorf("commit after Clear() = %+v, expected nothing", sink.commits[3])
	}
}
