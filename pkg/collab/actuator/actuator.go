// Package actuator implements ActuatorSink over core.ReleaseLatch,
// adding the notion of a physical command delay and a callback so the
// instrument layer can observe when the release actually occurs.
package actuator

import (
	"context"
	"time"

	"github.com/highaltitude/cutdown/pkg/core"
)

// Sink drives a release-actuator collaborator: it forwards Lock/Release/
// Wiggle to an owned ReleaseLatch and simulates the fixed settling delay
// a real nichrome-burn or servo release takes to complete.
type Sink struct {
	latch        *core.ReleaseLatch
	settleDelay  time.Duration
	onReleased   func()
}

// New returns a Sink wrapping a fresh release latch. settleDelay models
// the physical actuation time; pass 0 for instantaneous simulation.
func New(settleDelay time.Duration, onReleased func()) *Sink {
	return &Sink{
		latch:       core.NewReleaseLatch(),
		settleDelay: settleDelay,
		onReleased:  onReleased,
	}
}

// Latch exposes the underlying release latch for read-only queries (the
// config UI's "released?" indicator).
func (s *Sink) Latch() *core.ReleaseLatch { return s.latch }

// Lock commands the actuator to the locked position.
func (s *Sink) Lock(ctx context.Context) error {
	return s.latch.Lock()
}

// Release commands the actuator to fire, waiting out the settle delay
// (or ctx cancellation, whichever comes first) before reporting success.
func (s *Sink) Release(ctx context.Context) error {
	if err := s.latch.Release(); err != nil {
		return err
	}
	if s.settleDelay > 0 {
		select {
		case <-time.After(s.settleDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if s.onReleased != nil {
		s.onReleased()
	}
	return nil
}

// Wiggle performs the diagnostic release-hold-lock cycle.
func (s *Sink) Wiggle(ctx context.Context) error {
	return s.latch.Wiggle()
}
