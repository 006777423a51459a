// Package sprite owns the fixed set of sprite slots and batches their
// attribute writes into one commit per frame.
package sprite

import (
	"errors"
	"fmt"
)

// MaxSlots is the size of the hardware sprite table.
const MaxSlots = 128

// ErrNoFreeSlots is returned when every slot of the stage is taken.
var ErrNoFreeSlots = errors.New("sprite: no free slot")

// Handle is the index of a slot in the stage.
type Handle int

// Attr is the staged state of one slot.
type Attr struct {
	Tag     string // Asset tag the slot shows
	Frame   int    // Frame index within the tag
	X, Y    uint16 // Pixel offset of the top-left corner
	HFlip   bool
	Visible bool
}

// Sink receives the sprite table on commit. The display implements it.
type Sink interface {
	CommitSprites(attrs []Attr)
}

// Stage is a fixed arena of sprite slots. Slots are handed out in order
// and never freed.
type Stage struct {
	slots []Attr
	used  int
}

// NewStage creates a stage with capacity slots (at most MaxSlots).
func NewStage(capacity int) *Stage {
	if capacity <= 0 || capacity > MaxSlots {
		capacity = MaxSlots
	}
	return &Stage{slots: make([]Attr, capacity)}
}

// Alloc takes the next free slot for tag, hidden at (0, 0).
func (s *Stage) Alloc(tag string) (*Object, error) {
	if s.used >= len(s.slots) {
		return nil, fmt.Errorf("%w: %d slots in use", ErrNoFreeSlots, s.used)
	}
	h := Handle(s.used)
	s.slots[h] = Attr{Tag: tag}
	s.used++
	return &Object{stage: s, h: h}, nil
}

// Object returns the chaining view of an allocated slot.
func (s *Stage) Object(h Handle) *Object {
	return &Object{stage: s, h: h}
}

// Attr returns the staged attributes of slot h.
func (s *Stage) Attr(h Handle) Attr {
	return s.slots[h]
}

// Len returns the number of allocated slots.
func (s *Stage) Len() int {
	return s.used
}

// Cap returns the total number of slots.
func (s *Stage) Cap() int {
	return len(s.slots)
}

// Commit hands a copy of every allocated slot to the sink in one batch.
func (s *Stage) Commit(sink Sink) {
	table := make([]Attr, s.used)
	copy(table, s.slots[:s.used])
	sink.CommitSprites(table)
}

// Object stages attribute writes for one slot. Every setter returns the
// same object so updates can be chained. Positions are stored as given;
// keeping them on screen is the caller's job.
type Object struct {
	stage *Stage
	h     Handle
}

// Handle returns the slot index.
func (o *Object) Handle() Handle {
	return o.h
}

// SetX sets the horizontal pixel offset.
func (o *Object) SetX(x uint16) *Object {
	o.stage.slots[o.h].X = x
	return o
}

// SetY sets the vertical pixel offset.
func (o *Object) SetY(y uint16) *Object {
	o.stage.slots[o.h].Y = y
	return o
}

// SetPosition sets both offsets.
func (o *Object) SetPosition(x, y uint16) *Object {
	return o.SetX(x).SetY(y)
}

// SetHFlip mirrors the sprite horizontally.
func (o *Object) SetHFlip(flip bool) *Object {
	o.stage.slots[o.h].HFlip = flip
	return o
}

// SetFrame selects the frame within the slot's tag.
func (o *Object) SetFrame(frame int) *Object {
	o.stage.slots[o.h].Frame = frame
	return o
}

// Show makes the sprite visible.
func (o *Object) Show() *Object {
	o.stage.slots[o.h].Visible = true
	return o
}

// Hide hides the sprite.
func (o *Object) Hide() *Object {
	o.stage.slots[o.h].Visible = false
	return o
}
