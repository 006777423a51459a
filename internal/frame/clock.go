// Package frame provides the frame clock: the single point at which the
// presentation loop blocks until the next display refresh boundary.
package frame

import (
	"context"
	"sync/atomic"
	"time"
)

// Clock blocks the caller until the next frame boundary.
// Wait returns ctx.Err() if the context ends first.
type Clock interface {
	Wait(ctx context.Context) error
}

// Ticker is a Clock driven by a fixed-rate time.Ticker.
// Boundaries that pass while nobody waits are dropped, like a missed vblank.
type Ticker struct {
	t *time.Ticker
}

// NewTicker creates a clock with rate boundaries per second.
func NewTicker(rate int) *Ticker {
	if rate <= 0 {
		rate = 60
	}
	return &Ticker{t: time.NewTicker(time.Second / time.Duration(rate))}
}

// Wait blocks until the next tick.
func (c *Ticker) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.t.C:
		return nil
	}
}

// Stop releases the underlying ticker.
func (c *Ticker) Stop() {
	c.t.Stop()
}

// Signal is a Clock whose boundaries are raised by someone else, typically
// the display platform's own refresh tick. Raises coalesce: at most one
// pending boundary is remembered.
type Signal struct {
	ch     chan struct{}
	raised atomic.Uint64
}

// NewSignal creates a signal clock with no pending boundary.
func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{}, 1)}
}

// Raise marks a frame boundary. It never blocks.
func (s *Signal) Raise() {
	s.raised.Add(1)
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// Raised returns how many boundaries have been raised so far.
func (s *Signal) Raised() uint64 {
	return s.raised.Load()
}

// Wait blocks until a boundary is raised.
func (s *Signal) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ch:
		return nil
	}
}

// Immediate is a Clock that never blocks. Headless runs and tests use it to
// step the loop as fast as possible; it counts the boundaries it passed.
type Immediate struct {
	waits uint64
}

// Wait returns at once unless ctx is already done.
func (c *Immediate) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.waits++
	return nil
}

// Waits returns how many times Wait succeeded.
func (c *Immediate) Waits() uint64 {
	return c.waits
}
