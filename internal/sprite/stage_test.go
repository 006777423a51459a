package sprite

import (
	"errors"
	"testing"
)

type tableSink struct {
	tables [][]Attr
}

func (s *tableSink) CommitSprites(attrs []Attr) {
	s.tables = append(s.tables, attrs)
}

func TestAllocInOrder(t *testing.T) {
	s := NewStage(4)

	a, _ := s.Alloc("wood")
	b, _ := s.Alloc("player")

	if a.Handle() != 0 || b.Handle() != 1 {
		t.Errorf("handles = %d, %d, expected 0, 1", a.Handle(), b.Handle())
	}
	if s.Len() != 2 || s.Cap() != 4 {
		t.Errorf("Len()/Cap() = %d/%d, expected 2/4", s.Len(), s.Cap())
	}
	if attr := s.Attr(1); attr.Tag != "player" || attr.Visible {
		t.Errorf("Attr(1) = %+v, expected hidden player", attr)
	}
}

func TestAllocExhausted(t *testing.T) {
	s := NewStage(1)
	if _, err := s.Alloc("a"); err != nil {
		t.Fatalf("Alloc() failed: %v", err)
	}
	if _, err := s.Alloc("b"); !errors.Is(err, ErrNoFreeSlots) {
		t.Errorf("Alloc() on full stage = %v, expected ErrNoFreeSlots", err)
	}
}

func TestNewStageCapacityBounds(t *testing.T) {
	if NewStage(0).Cap() != MaxSlots {
		t.Error("zero capacity should default to MaxSlots")
	}
	if NewStage(MaxSlots+1).Cap() != MaxSlots {
		t.Error("capacity should be capped at MaxSlots")
	}
}

func TestChainedSetters(t *testing.T) {
	s := NewStage(2)
	o, _ := s.Alloc("table_corner")

	same := o.SetX(0).SetY(96).SetHFlip(true).SetFrame(2).Show()
	if same != o {
		t.Error("setters should return the same object")
	}

	expected := Attr{Tag: "table_corner", Frame: 2, X: 0, Y: 96, HFlip: true, Visible: true}
	if got := s.Attr(o.Handle()); got != expected {
		t.Errorf("Attr() = %+v, expected %+v", got, expected)
	}

	o.SetPosition(10, 20).Hide()
	if got := s.Attr(o.Handle()); got.X != 10 || got.Y != 20 || got.Visible {
		t.Errorf("Attr() after SetPosition/Hide = %+v", got)
	}
}

func TestStageAcceptsOutOfRange(t *testing.T) {
	s := NewStage(1)
	o, _ := s.Alloc("player")
	o.SetPosition(1000, 999)

	if got := s.Attr(o.Handle()); got.X != 1000 || got.Y != 999 {
		t.Errorf("stage should store positions as given, got (%d, %d)", got.X, got.Y)
	}
}

func TestCommitBatchesStagedState(t *testing.T) {
	s := NewStage(4)
	sink := &tableSink{}
	o, _ := s.Alloc("player")
	s.Alloc("npc")

	o.SetPosition(1, 2).Show()
	// Staged writes are invisible until commit.
	if len(sink.tables) != 0 {
		t.Fatal("sink should not see writes before Commit()")
	}

	s.Commit(sink)
	o.SetPosition(3, 4)
	s.Commit(sink)

	if len(sink.tables) != 2 {
		t.Fatalf("sink saw %d commits, expected 2", len(sink.tables))
	}
	if len(sink.tables[0]) != 2 {
		t.Errorf("commit carried %d slots, expected 2", len(sink.tables[0]))
	}
	if sink.tables[0][0].X != 1 {
		t.Errorf("first commit X = %d, later write leaked in", sink.tables[0][0].X)
	}
	if sink.tables[1][0].X != 3 || sink.tables[1][0].Y != 4 {
		t.Errorf("second commit = %+v, expected (3, 4)", sink.tables[1][0])
	}
}
