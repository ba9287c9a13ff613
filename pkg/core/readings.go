package core

// GPSFreshnessWindowMs is the maximum sample age before a GPS-backed field
// is treated as stale (section 4.2). Sensor collaborators are expected to
// call Fresh with this constant before setting GPS variables valid.
const GPSFreshnessWindowMs uint32 = 3000

// Fresh reports whether a sample of the given age is still valid. A sample
// exactly at the threshold is stale, matching the boundary behavior in
// spec section 8 ("sensor sample age exactly at the freshness threshold is
// invalid").
func Fresh(ageMs, windowMs uint32) bool {
	return ageMs < windowMs
}

// Variable is a single (value, valid) pair as described in section 3.
type Variable struct {
	Value float32
	Valid bool
}

// InputState is the per-tick debounced view of one optoisolated input.
type InputState struct {
	RawActive       bool
	DebouncedActive bool
	ActiveAccumMs   uint32
}

// Readings is the per-tick snapshot the rule engine, launch detector and
// termination detector all read from. Core.Tick rebuilds it once per tick
// through BuildReadings from the sensor collaborator's sample, and it is
// never mutated afterward.
type Readings struct {
	vars   [NumVariables]Variable
	Inputs [2]InputState
}

// Set stores a variable's value and validity.
func (r *Readings) Set(id VariableID, value float32, valid bool) {
	r.vars[id] = Variable{Value: value, Valid: valid}
}

// Get returns a variable's current snapshot.
func (r *Readings) Get(id VariableID) Variable {
	return r.vars[id]
}

// GPSFixPresent reports whether the gps_fix variable is valid and nonzero,
// the gate condition section 4.5 calls require_gps_fix_before_cut.
func (r *Readings) GPSFixPresent() bool {
	v := r.Get(VarGPSFix)
	return v.Valid && v.Value != 0
}

// SensorRaw is the pre-debounce input the external-input driver reports
// each tick: the raw pin level, already mapped by polarity to "active".
type SensorRaw struct {
	GPSAltM      Variable
	GPSLatDeg    Variable
	GPSLonDeg    Variable
	GPSFix       Variable
	PressureHPa  Variable
	TempC        Variable
	HumidityPct  Variable
	InputRaw     [2]bool // already polarity-mapped to "active"
}

// InputDebounceConfig configures one external input's debounce behavior.
type InputDebounceConfig struct {
	Enabled     bool
	DebounceMs  uint32
	AccumCapMs  uint32 // saturation cap, must be >= 60000 per spec section 4.2
}

// BuildReadings assembles a full Readings snapshot from a sensor sample and
// the running debounce accumulators, applying section 4.2's rules: time
// variables are always valid, sensor variables inherit driver validity, and
// each configured input is tick-quantized debounced.
//
// accum holds the running per-input accumulators; BuildReadings updates it
// in place, so the caller owns input debounce state across ticks.
func BuildReadings(tPowerS, tLaunchS uint32, raw SensorRaw, inputCfg [2]InputDebounceConfig, accum *[2]uint32) Readings {
	var r Readings
	r.Set(VarTPowerS, float32(tPowerS), true)
	r.Set(VarTLaunchS, float32(tLaunchS), true)
	r.Set(VarGPSAltM, raw.GPSAltM.Value, raw.GPSAltM.Valid)
	r.Set(VarGPSLatDeg, raw.GPSLatDeg.Value, raw.GPSLatDeg.Valid)
	r.Set(VarGPSLonDeg, raw.GPSLonDeg.Value, raw.GPSLonDeg.Valid)
	r.Set(VarGPSFix, raw.GPSFix.Value, raw.GPSFix.Valid)
	r.Set(VarPressureHPa, raw.PressureHPa.Value, raw.PressureHPa.Valid)
	r.Set(VarTempC, raw.TempC.Value, raw.TempC.Valid)
	r.Set(VarHumidityPct, raw.HumidityPct.Value, raw.HumidityPct.Valid)

	for i := 0; i < 2; i++ {
		cfg := inputCfg[i]
		cap := cfg.AccumCapMs
		if cap < 60000 {
			cap = 60000
		}

		active := cfg.Enabled && raw.InputRaw[i]
		if active {
			a := accum[i] + 1000
			if a > cap {
				a = cap
			}
			accum[i] = a
		} else {
			accum[i] = 0
		}

		r.Inputs[i] = InputState{
			RawActive:       active,
			ActiveAccumMs:   accum[i],
			DebouncedActive: active && accum[i] >= cfg.DebounceMs,
		}
	}

	return r
}
