package tui

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tavern/internal/config"
	"github.com/vovakirdan/tui-tavern/internal/core"
	"github.com/vovakirdan/tui-tavern/internal/display"
	"github.com/vovakirdan/tui-tavern/internal/frame"
	"github.com/vovakirdan/tui-tavern/internal/loop"
	"github.com/vovakirdan/tui-tavern/internal/storage"
)

// DefaultHoldFrames is how long a key press stays held. Terminals report
// presses and repeats but never releases.
const DefaultHoldFrames = 8

// SessionConfig configures one run of a scene.
type SessionConfig struct {
	Scene      config.Scene
	TickRate   int
	HoldFrames int
	User       string
	Logger     *log.Logger
}

// Session runs a loop controller on its own goroutine. The UI raises the
// frame signal, feeds keys and receives presented frames.
type Session struct {
	ctrl   *loop.Controller
	keys   *core.KeyBuffer
	signal *frame.Signal
	frames chan FrameMsg
	logger *log.Logger

	sceneID       string
	user          string
	width, height int // Terminal cells needed to show a frame
	started       time.Time

	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
	err      error
}

// NewSession builds the scene and its loop. Call Start to run it.
func NewSession(cfg SessionConfig) (*Session, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	hold := cfg.HoldFrames
	if hold <= 0 {
		hold = DefaultHoldFrames
	}

	s := &Session{
		keys:    core.NewKeyBuffer(hold),
		signal:  frame.NewSignal(),
		frames:  make(chan FrameMsg, 1),
		logger:  logger,
		sceneID: cfg.Scene.ID,
		user:    cfg.User,
		done:    make(chan struct{}),
	}

	ctrl, err := loop.New(cfg.Scene, loop.Options{
		Clock:    s.signal,
		Keys:     s.keys,
		TickRate: cfg.TickRate,
		Logger:   logger,
		Publish:  s.publish,
	})
	if err != nil {
		return nil, err
	}
	s.ctrl = ctrl
	s.width, s.height = cfg.Scene.Runtime(cfg.TickRate).ScreenSize()
	return s, nil
}

// publish runs on the loop goroutine. Only the newest frame is kept.
func (s *Session) publish(f display.Frame) {
	msg := FrameMsg{Frame: f, Entry: s.ctrl.State().Cursor.Entry, session: s}
	for {
		select {
		case s.frames <- msg:
			return
		default:
		}
		select {
		case <-s.frames:
		default:
		}
	}
}

// Start runs the loop until Stop is called or the loop fails.
func (s *Session) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.started = time.Now()

	go func() {
		defer close(s.done)
		err := s.ctrl.Run(ctx)
		if !errors.Is(err, context.Canceled) {
			s.err = err
		}
	}()
}

// Stop cancels the loop and waits for it to exit.
func (s *Session) Stop() error {
	s.stopOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
			<-s.done
		}
	})
	return s.err
}

// Err returns the error the loop stopped with, if any. Valid once the
// session is done.
func (s *Session) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Tick marks a frame boundary.
func (s *Session) Tick() {
	s.signal.Raise()
}

// Press holds a button for the next frames.
func (s *Session) Press(b core.Button) {
	if b != core.ButtonNone {
		s.keys.Press(b)
	}
}

// SceneID returns the id of the running scene.
func (s *Session) SceneID() string {
	return s.sceneID
}

// ScreenSize returns the terminal size a frame needs.
func (s *Session) ScreenSize() (w, h int) {
	return s.width, s.height
}

// Palette returns the palette frames are drawn with.
func (s *Session) Palette() core.Palette {
	return s.ctrl.Display().Palette()
}

// Record stores the session outcome. The session must be stopped.
func (s *Session) Record(store *storage.Store, reason string) {
	if store == nil {
		return
	}
	state := s.ctrl.State()
	_, err := store.RecordSession(storage.Session{
		SceneID:   s.sceneID,
		User:      s.user,
		Frames:    state.Frame,
		Entries:   state.Cursor.Entry,
		EndReason: reason,
		Duration:  int(time.Since(s.started).Seconds()),
	})
	if err != nil {
		s.logger.Warn("could not record session", "scene", s.sceneID, "error", err)
	}
}
