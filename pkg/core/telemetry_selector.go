package core

// TelemetryCadenceConfig holds the per-phase transmit interval settings
// from section 3/4.9. A zero interval means "do not transmit in this
// phase". Intervals are seconds and must fit up to 7 days (section 6),
// hence uint32 rather than uint16.
type TelemetryCadenceConfig struct {
	GroundIntervalS  uint32
	AscentIntervalS  uint32
	DescentIntervalS uint32
	BeaconIntervalS  uint32
	DescentDurationS uint32
}

// TelemetrySelector maps current flight phase to the transmit interval
// that should be used this tick (section 4.9).
type TelemetrySelector struct {
	cfg TelemetryCadenceConfig
}

// NewTelemetrySelector builds a selector over the given cadence config.
func NewTelemetrySelector(cfg TelemetryCadenceConfig) *TelemetrySelector {
	return &TelemetrySelector{cfg: cfg}
}

// IntervalS returns the transmit interval in seconds for the current
// state.
func (s *TelemetrySelector) IntervalS(state *RuntimeState, nowS uint32) uint32 {
	if !state.LaunchDetected {
		return s.cfg.GroundIntervalS
	}
	if !state.Terminated {
		return s.cfg.AscentIntervalS
	}

	if s.cfg.DescentDurationS == 0 {
		return s.cfg.BeaconIntervalS
	}

	elapsed := nowS - state.TTerminatedS
	if elapsed < s.cfg.DescentDurationS {
		return s.cfg.DescentIntervalS
	}
	return s.cfg.BeaconIntervalS
}
