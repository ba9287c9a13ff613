package core

import (
	"math"
	"testing"
)

// S2 — launch latch from a pressure drop baseline, traced tick by tick
// against the literal scenario: baseline 1013.0 hPa at tick 3, then a
// descending series that first meets the 5 hPa drop threshold at tick
// 5 (drop 5.0 hPa) and stays at or above it (5.1 hPa from tick 8 on),
// persisting five consecutive candidate ticks 5-9, latching at tick 9.
func TestLaunchDetector_ScenarioS2(t *testing.T) {
	d := NewLaunchDetector()
	state := NewRuntimeState()

	pressures := map[int]float32{
		3: 1013.0,
		4: 1010.0,
		5: 1008.0,
		6: 1007.0,
		7: 1007.5,
		8: 1007.9,
	}

	for tick := 3; tick <= 9; tick++ {
		p, ok := pressures[tick]
		if !ok {
			p = pressures[8] // holds at 1007.9 from tick 8 onward
		}
		var r Readings
		r.Set(VarPressureHPa, p, true)

		fired := d.Update(state, r, false, uint32(tick)*1000)

		if tick < 9 && state.LaunchDetected {
			t.Fatalf("tick %d: launch_detected fired early", tick)
		}
		if tick == 9 {
			if !fired || !state.LaunchDetected {
				t.Fatalf("tick 9: expected launch latch to fire, fired=%v detected=%v", fired, state.LaunchDetected)
			}
		}
	}
}

func TestLaunchDetector_SuppressedByCriticalError(t *testing.T) {
	d := NewLaunchDetector()
	state := NewRuntimeState()

	var r Readings
	r.Set(VarGPSAltM, 100000, true)

	for i := 0; i < 10; i++ {
		d.Update(state, r, true, uint32(i)*1000)
	}

	if state.LaunchDetected {
		t.Fatal("launch must never latch while a Critical error is active")
	}
}

func TestLaunchDetector_CandidateStreakResetsOnDrop(t *testing.T) {
	d := NewLaunchDetector()
	state := NewRuntimeState()

	r := readingsWith(VarGPSAltM, 0, true)
	d.Update(state, r, false, 0) // captures baseline 0

	for i := 1; i <= 4; i++ {
		d.Update(state, readingsWith(VarGPSAltM, 40, true), false, uint32(i)*1000)
	}

	// Candidate streak breaks for one tick.
	d.Update(state, readingsWith(VarGPSAltM, 5, true), false, 5000)
	if state.LaunchDetected {
		t.Fatal("premature latch")
	}

	for i := 6; i <= 9; i++ {
		d.Update(state, readingsWith(VarGPSAltM, 40, true), false, uint32(i)*1000)
	}
	if state.LaunchDetected {
		t.Fatal("streak reset should have delayed the latch by the broken tick")
	}

	d.Update(state, readingsWith(VarGPSAltM, 40, true), false, 10000)
	if !state.LaunchDetected {
		t.Fatal("expected latch once five fresh consecutive candidate ticks accrue")
	}
}

func TestLaunchDetector_EnterInFlightResetsExtrema(t *testing.T) {
	d := NewLaunchDetector()
	state := NewRuntimeState()
	state.PeakAltM = 500
	state.MinPressureHPa = 900
	state.DescentCountS = 7

	r := readingsWith(VarGPSAltM, 0, true)
	d.Update(state, r, false, 0)
	for i := 1; i <= 5; i++ {
		d.Update(state, readingsWith(VarGPSAltM, 40, true), false, uint32(i)*1000)
	}

	if !state.LaunchDetected {
		t.Fatal("expected launch to latch")
	}
	if state.DescentCountS != 0 {
		t.Error("descent_count_s must reset on entering InFlight")
	}
	if state.PeakAltM != float32(math.Inf(-1)) {
		t.Error("peak_alt_m must reset to -inf on entering InFlight")
	}
	if state.MinPressureHPa != float32(math.Inf(1)) {
		t.Error("min_pressure_hpa must reset to +inf on entering InFlight")
	}
}

func TestLaunchDetector_NeverRearms(t *testing.T) {
	d := NewLaunchDetector()
	state := NewRuntimeState()
	state.LaunchDetected = true
	state.LaunchMs = 1234

	fired := d.Update(state, readingsWith(VarGPSAltM, 999999, true), false, 9999)
	if fired {
		t.Fatal("Update must not refire once launch_detected is already true")
	}
	if state.LaunchMs != 1234 {
		t.Fatal("launch_ms must not change once already latched")
	}
}
