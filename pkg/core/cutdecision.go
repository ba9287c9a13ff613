package core

// ExternalInputConfig configures one optoisolated cut input (section 3).
type ExternalInputConfig struct {
	Enabled      bool
	ActiveHigh   bool
	DebounceMs   uint32
}

// RemoteCutConfig configures the Iridium remote-cut path (section 3, 6).
type RemoteCutConfig struct {
	Enabled bool
	Token   string
}

// CutInputs bundles everything the cut decider needs beyond RuntimeState
// and Readings: the two debounced external inputs, whether the uplink
// collaborator reported a fresh remote-cut edge this tick, and whether a
// manual command arrived from the config UI.
type CutInputs struct {
	Readings           Readings
	RemoteCutRequested bool
	ManualCutRequested bool
}

// CutDecider implements the priority ladder from section 4.6: external
// input, then remote command, then rule-based logic, then manual command.
// Once CutFired is latched, evaluation is skipped entirely — the decision
// is one-way.
type CutDecider struct {
	Rules       *RuleEngine
	RemoteCut   RemoteCutConfig
}

// NewCutDecider builds a decider over the given rule engine and remote-cut
// configuration.
func NewCutDecider(rules *RuleEngine, remote RemoteCutConfig) *CutDecider {
	return &CutDecider{Rules: rules, RemoteCut: remote}
}

// Decide evaluates the priority ladder and, if a cut should fire this
// tick, latches it into state and returns the reason. It returns
// (ReasonNone, false) if no cut fires or one has already fired.
func (d *CutDecider) Decide(state *RuntimeState, in CutInputs, nowMs uint32) (CutReason, bool) {
	if state.CutFired {
		return ReasonNone, false
	}

	reason, fire := d.evaluateLadder(state, in)
	if !fire {
		return ReasonNone, false
	}

	state.CutFired = true
	state.CutReason = reason
	state.CutMs = nowMs
	state.Terminated = true
	if state.TerminatedMs == 0 {
		state.TerminatedMs = nowMs
	}
	if state.TTerminatedS == 0 {
		state.TTerminatedS = state.TPowerS
	}
	return reason, true
}

func (d *CutDecider) evaluateLadder(state *RuntimeState, in CutInputs) (CutReason, bool) {
	// The rule engine runs every tick regardless of which priority ends up
	// firing, so dwell accumulators stay continuous (section 4.5) even on
	// ticks where a higher-priority source preempts the bucket cut.
	ruleFire := d.Rules.Evaluate(state.LaunchDetected, in.Readings)

	for _, input := range in.Readings.Inputs {
		if input.DebouncedActive {
			return ReasonExternalInput, true
		}
	}

	if d.RemoteCut.Enabled && in.RemoteCutRequested {
		return ReasonIridiumRemote, true
	}

	if ruleFire {
		return ReasonBucketLogic, true
	}

	if in.ManualCutRequested {
		return ReasonManual, true
	}

	return ReasonNone, false
}
