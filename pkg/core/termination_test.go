package core

import "testing"

// S3 — balloon-pop termination: peak 25,000 m reached, then a descent of
// at least 60 m sustained for 15 consecutive ticks. cut_fired must stay
// false; only the termination detector's own latch fires.
func TestTerminationDetector_ScenarioS3(t *testing.T) {
	d := NewTerminationDetector()
	state := NewRuntimeState()
	state.FlightState = InFlight
	state.PeakAltM = 0

	cfg := TerminationConfig{Enabled: true, UseGPS: true, GPSDropM: 60, SustainS: 15}

	d.Update(state, cfg, readingsWith(VarGPSAltM, 25000, true), 0)
	if state.PeakAltM != 25000 {
		t.Fatalf("expected peak_alt_m = 25000, got %v", state.PeakAltM)
	}

	// Every fed altitude sits at least 60m below the 25,000m peak, so each
	// tick counts toward the 15-tick sustain window.
	fired := false
	for i := 0; i < 16; i++ {
		ok := d.Update(state, cfg, readingsWith(VarGPSAltM, 24900, true), uint32(i+1)*1000)
		if ok {
			if i != 14 {
				t.Fatalf("expected termination to latch on the 15th descent tick (index 14), fired at index %d", i)
			}
			fired = true
			break
		}
	}

	if !fired {
		t.Fatal("expected termination to latch within the 16-tick descent window")
	}
	if !state.Terminated || state.FlightState != Terminated {
		t.Fatalf("expected Terminated state, got terminated=%v flight_state=%v", state.Terminated, state.FlightState)
	}
	if state.CutFired {
		t.Error("natural termination must never set cut_fired")
	}
	if state.CutReason != ReasonNone {
		t.Errorf("cut_reason must remain None on natural termination, got %v", state.CutReason)
	}
}

func TestTerminationDetector_DisabledNoOp(t *testing.T) {
	d := NewTerminationDetector()
	state := NewRuntimeState()
	state.FlightState = InFlight

	cfg := TerminationConfig{Enabled: false}
	for i := 0; i < 30; i++ {
		d.Update(state, cfg, readingsWith(VarGPSAltM, float32(30000-i*100), true), uint32(i)*1000)
	}
	if state.Terminated {
		t.Fatal("a disabled termination detector must never latch")
	}
}

func TestTerminationDetector_OnlyRunsWhileInFlight(t *testing.T) {
	d := NewTerminationDetector()
	state := NewRuntimeState() // FlightState == Ground

	cfg := TerminationConfig{Enabled: true, UseGPS: true, GPSDropM: 1, SustainS: 1}
	d.Update(state, cfg, readingsWith(VarGPSAltM, -1000, true), 0)

	if state.Terminated {
		t.Fatal("termination detector must not run before launch")
	}
}

func TestTerminationDetector_PeakAndMinMonotone(t *testing.T) {
	d := NewTerminationDetector()
	state := NewRuntimeState()
	state.FlightState = InFlight
	cfg := TerminationConfig{Enabled: true, UseGPS: true, GPSDropM: 10000, UsePressure: true, PressureRiseHPa: 10000, SustainS: 100}

	alts := []float32{100, 200, 150, 300, 250}
	pressures := []float32{900, 850, 870, 800, 820}

	for i := range alts {
		var r Readings
		r.Set(VarGPSAltM, alts[i], true)
		r.Set(VarPressureHPa, pressures[i], true)
		d.Update(state, cfg, r, uint32(i)*1000)
	}

	if state.PeakAltM != 300 {
		t.Errorf("peak_alt_m should be the running max, got %v", state.PeakAltM)
	}
	if state.MinPressureHPa != 800 {
		t.Errorf("min_pressure_hpa should be the running min, got %v", state.MinPressureHPa)
	}
}

func TestTerminationDetector_DescentCountResetsOnNonDescent(t *testing.T) {
	d := NewTerminationDetector()
	state := NewRuntimeState()
	state.FlightState = InFlight
	state.PeakAltM = 1000
	cfg := TerminationConfig{Enabled: true, UseGPS: true, GPSDropM: 60, SustainS: 5}

	for i := 0; i < 3; i++ {
		d.Update(state, cfg, readingsWith(VarGPSAltM, 900, true), uint32(i)*1000) // descending
	}
	if state.DescentCountS != 3 {
		t.Fatalf("expected descent_count_s=3, got %d", state.DescentCountS)
	}

	d.Update(state, cfg, readingsWith(VarGPSAltM, 1000, true), 3000) // back at peak, not descending
	if state.DescentCountS != 0 {
		t.Fatalf("expected descent_count_s to reset to 0, got %d", state.DescentCountS)
	}
}
