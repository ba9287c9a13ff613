// Package core implements the deterministic, single-threaded tick pipeline
// of the cutdown flight controller: scheduler, readings snapshot, launch and
// termination detectors, bucket rule engine, cut decision, release latch,
// flight state machine and telemetry phase selector.
//
// Nothing in this package spawns a goroutine, blocks, or takes a lock. Every
// exported type is meant to be owned and mutated from a single tick loop;
// callers that need concurrency put it in the layer above (pkg/instrument).
package core

import "math"

// FlightState is the ordered, monotonic flight phase.
type FlightState int

const (
	Ground FlightState = iota
	InFlight
	Terminated
)

func (s FlightState) String() string {
	switch s {
	case Ground:
		return "Ground"
	case InFlight:
		return "InFlight"
	case Terminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// SystemMode is orthogonal to FlightState: it tracks whether the instrument
// is servicing the local configuration UI or running autonomously.
type SystemMode int

const (
	Normal SystemMode = iota
	Config
)

func (m SystemMode) String() string {
	if m == Config {
		return "Config"
	}
	return "Normal"
}

// CutReason identifies why the release actuator was commanded to fire.
// It is meaningful only when RuntimeState.CutFired is true.
type CutReason int

const (
	ReasonNone CutReason = iota
	ReasonBucketLogic
	ReasonExternalInput
	ReasonIridiumRemote
	ReasonManual
)

func (r CutReason) String() string {
	switch r {
	case ReasonNone:
		return "None"
	case ReasonBucketLogic:
		return "BucketLogic"
	case ReasonExternalInput:
		return "ExternalInput"
	case ReasonIridiumRemote:
		return "IridiumRemote"
	case ReasonManual:
		return "Manual"
	default:
		return "Unknown"
	}
}

// VariableID enumerates the numeric variables the rule engine can reference.
// The set is dense starting at zero so it can index a fixed-size array.
type VariableID int

const (
	VarTPowerS VariableID = iota
	VarTLaunchS
	VarGPSAltM
	VarGPSLatDeg
	VarGPSLonDeg
	VarGPSFix
	VarPressureHPa
	VarTempC
	VarHumidityPct

	numVariables // compile-time size check sentinel
)

func (v VariableID) String() string {
	switch v {
	case VarTPowerS:
		return "t_power_s"
	case VarTLaunchS:
		return "t_launch_s"
	case VarGPSAltM:
		return "gps_alt_m"
	case VarGPSLatDeg:
		return "gps_lat_deg"
	case VarGPSLonDeg:
		return "gps_lon_deg"
	case VarGPSFix:
		return "gps_fix"
	case VarPressureHPa:
		return "pressure_hpa"
	case VarTempC:
		return "temp_c"
	case VarHumidityPct:
		return "humidity_pct"
	default:
		return "unknown"
	}
}

// NumVariables is the number of entries a VariableID-indexed array needs.
const NumVariables = int(numVariables)

// RuntimeState holds every volatile, power-on-reset field described in
// spec section 3. It is the single owner of flight decision state; every
// other core component reads or mutates it by reference from Core.Tick.
type RuntimeState struct {
	FlightState FlightState
	SystemMode  SystemMode

	TPowerS uint32

	LaunchDetected bool
	LaunchMs       uint32
	TLaunchS       uint32

	CutFired  bool
	CutReason CutReason
	CutMs     uint32

	Terminated   bool
	TerminatedMs uint32
	TTerminatedS uint32

	PeakAltM       float32
	MinPressureHPa float32
	DescentCountS  uint16
}

// NewRuntimeState returns a RuntimeState at the safe power-on posture.
func NewRuntimeState() *RuntimeState {
	return &RuntimeState{
		FlightState:    Ground,
		SystemMode:     Normal,
		CutReason:      ReasonNone,
		PeakAltM:       float32(math.Inf(-1)),
		MinPressureHPa: float32(math.Inf(1)),
	}
}

// enterInFlight resets the monotone extrema per invariant 5.
func (s *RuntimeState) enterInFlight() {
	s.PeakAltM = float32(math.Inf(-1))
	s.MinPressureHPa = float32(math.Inf(1))
	s.DescentCountS = 0
}

// CheckInvariants validates the cross-field invariants from spec section 3/8.
// It never panics; it returns the first violation found, for use in tests
// and in the instrument layer's defensive assertions.
func (s *RuntimeState) CheckInvariants() error {
	if s.CutFired && !s.Terminated {
		return errInvariant("cut_fired implies terminated")
	}
	if s.Terminated && s.FlightState != Terminated {
		return errInvariant("terminated implies flight_state == Terminated")
	}
	if s.TLaunchS > 0 && !s.LaunchDetected {
		return errInvariant("t_launch_s > 0 implies launch_detected")
	}
	if s.TTerminatedS > 0 && !s.Terminated {
		return errInvariant("t_terminated_s > 0 implies terminated")
	}
	if (s.CutReason == ReasonNone) != !s.CutFired {
		return errInvariant("cut_reason == None iff !cut_fired")
	}
	return nil
}

type invariantError string

func (e invariantError) Error() string { return "core: invariant violated: " + string(e) }

func errInvariant(msg string) error { return invariantError(msg) }
