package main

import (
	"github.com/highaltitude/cutdown/pkg/collab/simsensor"
	"github.com/highaltitude/cutdown/pkg/core"
)

// demoProfile scripts a full flight: ground hold, ascent past the launch
// detector's pressure-drop threshold, float, a sustained pressure rise /
// altitude drop that trips the termination detector, and a final descent
// to landing. Numbers are illustrative, not calibrated to any real
// balloon.
func demoProfile() simsensor.Profile {
	var samples []simsensor.Sample

	fix := func(altM, pressureHPa float32) simsensor.Sample {
		return simsensor.Sample{
			GPSAltM:     core.Variable{Value: altM, Valid: true},
			GPSLatDeg:   core.Variable{Value: 40.02, Valid: true},
			GPSLonDeg:   core.Variable{Value: -105.27, Valid: true},
			GPSFix:      core.Variable{Value: 1, Valid: true},
			PressureHPa: core.Variable{Value: pressureHPa, Valid: true},
			TempC:       core.Variable{Value: 15, Valid: true},
			HumidityPct: core.Variable{Value: 35, Valid: true},
		}
	}

	// Ground hold: 10 ticks at sea-level pressure, not yet launched.
	for i := 0; i < 10; i++ {
		samples = append(samples, fix(1600, 1013.0))
	}

	// Ascent: steep pressure drop, climbing altitude, for 600 ticks.
	altitude := float32(1600)
	pressure := float32(1013.0)
	for i := 0; i < 600; i++ {
		altitude += 50
		pressure -= 1.6
		if pressure < 20 {
			pressure = 20
		}
		samples = append(samples, fix(altitude, pressure))
	}

	// Float near burst altitude for 60 ticks.
	for i := 0; i < 60; i++ {
		samples = append(samples, fix(altitude, pressure))
	}

	// Burst: sustained altitude drop and pressure rise, for the
	// termination detector to trip (default sustain window 15s).
	for i := 0; i < 40; i++ {
		altitude -= 200
		if altitude < 500 {
			altitude = 500
		}
		pressure += 20
		samples = append(samples, fix(altitude, pressure))
	}

	// Descent and landing: hold near ground level.
	for i := 0; i < 30; i++ {
		samples = append(samples, fix(500, 950))
	}

	return simsensor.Profile{
		Samples: samples,
		Inputs: [2]core.InputDebounceConfig{
			{Enabled: true, DebounceMs: 50, AccumCapMs: 60000},
			{},
		},
	}
}

// demoConfig returns a configuration whose Bucket B rule fires the cut at
// the same altitude threshold the scenario illustrates, so the demo
// terminates visibly without waiting on the termination detector alone.
func demoConfig() core.SystemConfig {
	cfg := core.DefaultConfig()
	cfg.BucketB = []core.Condition{
		{VarID: core.VarGPSAltM, Op: core.OpGE, Threshold: 30000, ForSeconds: 5, Enabled: true},
	}
	return cfg
}
