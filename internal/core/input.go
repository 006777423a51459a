package core

import "sync"

// Button is one physical button of the handheld, as a bit flag.
type Button uint16

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonRight
	ButtonLeft
	ButtonUp
	ButtonDown
	ButtonR
	ButtonL

	ButtonNone Button = 0
)

// String returns a human-readable name for the button.
func (b Button) String() string {
	switch b {
	case ButtonNone:
		return "None"
	case ButtonA:
		return "A"
	case ButtonB:
		return "B"
	case ButtonSelect:
		return "Select"
	case ButtonStart:
		return "Start"
	case ButtonRight:
		return "Right"
	case ButtonLeft:
		return "Left"
	case ButtonUp:
		return "Up"
	case ButtonDown:
		return "Down"
	case ButtonR:
		return "R"
	case ButtonL:
		return "L"
	default:
		return "Unknown"
	}
}

// InputFrame is the set of buttons held during one frame.
type InputFrame struct {
	Buttons Button
}

// Set marks a button as held for this frame.
func (f *InputFrame) Set(b Button) {
	f.Buttons |= b
}

// Has returns true if every button in b is held.
func (f InputFrame) Has(b Button) bool {
	return b != ButtonNone && f.Buttons&b == b
}

// Clear releases all buttons.
func (f *InputFrame) Clear() {
	f.Buttons = ButtonNone
}

// KeySource yields the buttons held since the previous poll.
type KeySource interface {
	Poll() InputFrame
}

// KeyBuffer collects button presses from the platform between frames.
// Terminals report key presses and repeats but never releases, so a
// button stays held for holdFrames polls after it was last seen.
// Press may be called from any goroutine.
type KeyBuffer struct {
	mu         sync.Mutex
	holdFrames int
	remaining  map[Button]int
}

// NewKeyBuffer creates a key buffer. holdFrames < 1 means a press is held
// for exactly the next poll.
func NewKeyBuffer(holdFrames int) *KeyBuffer {
	if holdFrames < 1 {
		holdFrames = 1
	}
	return &KeyBuffer{
		holdFrames: holdFrames,
		remaining:  make(map[Button]int),
	}
}

// Press records that b was seen.
func (k *KeyBuffer) Press(b Button) {
	if b == ButtonNone {
		return
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.remaining[b] = k.holdFrames
}

// Poll returns the held buttons and ages every pending press by one frame.
func (k *KeyBuffer) Poll() InputFrame {
	k.mu.Lock()
	defer k.mu.Unlock()

	var f InputFrame
	for b, n := range k.remaining {
		f.Set(b)
		if n <= 1 {
			delete(k.remaining, b)
		} else {
			k.remaining[b] = n - 1
		}
	}
	return f
}

// ScriptSource replays a fixed sequence of frames, then reports nothing held.
// It drives headless runs and tests.
type ScriptSource struct {
	frames []InputFrame
	next   int
}

// NewScriptSource creates a source that yields frames in order.
func NewScriptSource(frames []InputFrame) *ScriptSource {
	return &ScriptSource{frames: frames}
}

// Poll returns the next scripted frame.
func (s *ScriptSource) Poll() InputFrame {
	if s.next >= len(s.frames) {
		return InputFrame{}
	}
	f := s.frames[s.next]
	s.next++
	return f
}

// Remaining reports how many scripted frames have not been polled yet.
func (s *ScriptSource) Remaining() int {
	return len(s.frames) - s.next
}

// ButtonController derives directional intent and press edges from a
// KeySource. Update must be called exactly once per frame or edge
// detection stalls.
type ButtonController struct {
	source   KeySource
	current  InputFrame
	previous InputFrame
}

// NewButtonController creates a controller with nothing held.
func NewButtonController(source KeySource) *ButtonController {
	return &ButtonController{source: source}
}

// Update shifts the current frame into history and samples the source.
func (c *ButtonController) Update() {
	c.previous = c.current
	c.current = c.source.Poll()
}

// XTri returns -1 for left, 1 for right and 0 for neither or both.
func (c *ButtonController) XTri() int {
	return Tri(c.current.Has(ButtonLeft), c.current.Has(ButtonRight))
}

// YTri returns -1 for up, 1 for down and 0 for neither or both.
func (c *ButtonController) YTri() int {
	return Tri(c.current.Has(ButtonUp), c.current.Has(ButtonDown))
}

// IsJustPressed reports whether b went from released to held this frame.
func (c *ButtonController) IsJustPressed(b Button) bool {
	return c.current.Has(b) && !c.previous.Has(b)
}

// IsJustReleased reports whether b went from held to released this frame.
func (c *ButtonController) IsJustReleased(b Button) bool {
	return !c.current.Has(b) && c.previous.Has(b)
}
