package core

// ReleaseState is the actuator's own latch, independent of RuntimeState.
// It exists so the actuator contract (section 4.7) can be reasoned about
// and tested without the rest of the flight decision pipeline.
type ReleaseState int

const (
	ReleaseUnknown ReleaseState = iota
	ReleaseLocked
	ReleaseReleased
)

func (s ReleaseState) String() string {
	switch s {
	case ReleaseLocked:
		return "Locked"
	case ReleaseReleased:
		return "Released"
	default:
		return "Unknown"
	}
}

// ReleaseLatch is the one-shot Locked -> Released actuator state machine
// from section 4.7. Released is terminal for the power cycle; Lock after
// Released is rejected, and Release after Released is an idempotent no-op.
type ReleaseLatch struct {
	state ReleaseState
}

// NewReleaseLatch returns a latch in the Unknown state, matching the
// actuator's power-on posture before the first Lock command.
func NewReleaseLatch() *ReleaseLatch {
	return &ReleaseLatch{state: ReleaseUnknown}
}

// State returns the current actuator state.
func (l *ReleaseLatch) State() ReleaseState { return l.state }

// Released reports whether the release latch has fired.
func (l *ReleaseLatch) Released() bool { return l.state == ReleaseReleased }

// Lock commands the actuator to the locked position. It is rejected once
// Released, leaving the state unchanged (section 4.11: "Lock after
// release: rejected, state remains Released").
func (l *ReleaseLatch) Lock() error {
	if l.state == ReleaseReleased {
		return ErrAlreadyReleased
	}
	l.state = ReleaseLocked
	return nil
}

// Release commands the actuator to fire. Calling it again after it has
// already fired is an idempotent no-op that returns success, per section
// 4.11.
func (l *ReleaseLatch) Release() error {
	l.state = ReleaseReleased
	return nil
}

// Wiggle performs a diagnostic release-hold-lock cycle that must never set
// the released latch (section 4.7). It is rejected once actually Released,
// since the payload is physically gone.
func (l *ReleaseLatch) Wiggle() error {
	if l.state == ReleaseReleased {
		return ErrAlreadyReleased
	}
	l.state = ReleaseLocked
	return nil
}

// ErrAlreadyReleased is returned when a Lock or Wiggle command arrives
// after the actuator has already fired for this power cycle.
var ErrAlreadyReleased = releaseError("release latch already fired; rejecting command")

type releaseError string

func (e releaseError) Error() string { return string(e) }
