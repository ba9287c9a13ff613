package core

// Scheduler generates a stable 1 Hz tick from a free-running millisecond
// clock, the way section 4.1 of the design specifies. It is deliberately
// simpler than pkg/clock.Clock's nanosecond MonoTime: the underlying
// hardware timer this mirrors is a wrapping 32-bit millisecond counter, so
// the deadline math below is done in uint32 space with explicit signed
// wraparound comparisons rather than borrowing MonoTime's 64-bit epoch.
type Scheduler struct {
	deadlineMs uint32
	initialized bool
}

// NewScheduler returns a scheduler with no deadline armed yet; the first
// call to Tick always returns (0, false) and arms the first deadline.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// maxCatchUpSeconds is the elapsed-seconds threshold past which the
// scheduler snaps its deadline forward instead of continuing to report
// unbounded catch-up after a stall (section 4.1 "Rationale").
const maxCatchUpSeconds = 10

// Tick reports whole seconds elapsed since the last tick was due, or
// (0, false) if the next 1 Hz deadline has not yet arrived. nowMs is a
// free-running millisecond counter that may wrap through 2^32.
func (s *Scheduler) Tick(nowMs uint32) (elapsedS uint16, due bool) {
	if !s.initialized {
		s.deadlineMs = nowMs + 1000
		s.initialized = true
		return 0, false
	}

	diff := int32(nowMs - s.deadlineMs)
	if diff < 0 {
		return 0, false
	}

	e := 1 + diff/1000
	s.deadlineMs += uint32(e) * 1000

	if e > maxCatchUpSeconds {
		s.deadlineMs = nowMs + 1000
	}

	if e > 0xFFFF {
		e = 0xFFFF
	}
	return uint16(e), true
}
