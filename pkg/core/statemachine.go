package core

// FlightStateMachine recomputes RuntimeState.FlightState each tick from the
// latches that actually drive it (section 4.8). Unlike pkg/statemachine's
// general Machine — event-driven, guarded, mutex-protected — flight phase
// here has no triggering events and no guards to evaluate: it is a pure
// function of two sticky booleans, recomputed fresh every tick. Keeping a
// general event/guard machine in the core's single-threaded, lock-free
// tick path would add indirection with nothing to generalize over, so this
// type only keeps pkg/statemachine's naming shape (State, transition
// hooks) for a reader's familiarity, not its machinery.
type FlightStateMachine struct {
	onTransition []func(from, to FlightState)
}

// NewFlightStateMachine returns a state machine with no hooks registered.
func NewFlightStateMachine() *FlightStateMachine {
	return &FlightStateMachine{}
}

// OnTransition registers a hook invoked whenever Recompute changes phase.
func (m *FlightStateMachine) OnTransition(hook func(from, to FlightState)) {
	m.onTransition = append(m.onTransition, hook)
}

// Recompute applies section 4.8's rule and fires transition hooks if the
// phase actually changed. Flight phase transitions are monotonic by
// construction: Terminated and LaunchDetected are themselves set-once.
func (m *FlightStateMachine) Recompute(state *RuntimeState) {
	var next FlightState
	switch {
	case state.Terminated:
		next = Terminated
	case state.LaunchDetected:
		next = InFlight
	default:
		next = Ground
	}

	if next == state.FlightState {
		return
	}

	prev := state.FlightState
	state.FlightState = next
	for _, hook := range m.onTransition {
		hook(prev, next)
	}
}
