package core

// TerminationConfig configures balloon-pop detection (section 4.4).
type TerminationConfig struct {
	Enabled         bool
	UseGPS          bool
	GPSDropM        float32
	UsePressure     bool
	PressureRiseHPa float32
	SustainS        uint16
}

// TerminationDetector latches Terminated from sustained descent while
// InFlight, independent of any cut decision.
type TerminationDetector struct{}

// NewTerminationDetector returns a stateless termination detector; all
// mutable state (peak/min extrema, descent streak) lives in RuntimeState
// so it participates in the invariant checks alongside the rest of flight
// state.
func NewTerminationDetector() *TerminationDetector { return &TerminationDetector{} }

// Update runs one tick of termination detection. It returns true on the
// tick the latch actually fires.
func (d *TerminationDetector) Update(state *RuntimeState, cfg TerminationConfig, r Readings, nowMs uint32) bool {
	if state.FlightState != InFlight || state.Terminated {
		return false
	}
	if !cfg.Enabled {
		return false
	}

	alt := r.Get(VarGPSAltM)
	pres := r.Get(VarPressureHPa)

	if alt.Valid && alt.Value > state.PeakAltM {
		state.PeakAltM = alt.Value
	}
	if pres.Valid && pres.Value < state.MinPressureHPa {
		state.MinPressureHPa = pres.Value
	}

	descending := false
	if cfg.UseGPS && alt.Valid && (state.PeakAltM-alt.Value) >= cfg.GPSDropM {
		descending = true
	}
	if cfg.UsePressure && pres.Valid && (pres.Value-state.MinPressureHPa) >= cfg.PressureRiseHPa {
		descending = true
	}

	if descending {
		if state.DescentCountS < 0xFFFF {
			state.DescentCountS++
		}
	} else {
		state.DescentCountS = 0
	}

	if state.DescentCountS < cfg.SustainS {
		return false
	}

	state.Terminated = true
	state.TerminatedMs = nowMs
	state.TTerminatedS = state.TPowerS
	state.FlightState = Terminated
	return true
}
