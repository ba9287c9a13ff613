// Package simsensor implements a SensorSource over a scripted flight
// profile, for driving the instrument without real hardware: the
// simulator cmd and scenario runner both replay a Profile tick by tick
// instead of reading live sensors.
package simsensor

import (
	"context"

	"github.com/highaltitude/cutdown/pkg/core"
)

// Sample is one tick's worth of scripted raw sensor values. Any field
// left at its zero Variable{} is reported invalid for that tick.
type Sample struct {
	GPSAltM     core.Variable
	GPSLatDeg   core.Variable
	GPSLonDeg   core.Variable
	GPSFix      core.Variable
	PressureHPa core.Variable
	TempC       core.Variable
	HumidityPct core.Variable
	Input0      bool
	Input1      bool
}

// Profile is an ordered, looping-free script of samples, one per tick.
// Past the end of the script, the last sample repeats indefinitely -
// useful for scenarios that hold a steady-state reading after the
// interesting part of the flight.
type Profile struct {
	Samples []Sample
	Inputs  [2]core.InputDebounceConfig
}

// Source replays a Profile as a SensorSource, advancing one Sample per
// call to Sample regardless of the nowMs argument - ticks are assumed to
// arrive at the scheduler's already-quantized 1 Hz rate.
type Source struct {
	profile Profile
	cursor  int
}

// New returns a Source that replays the given profile.
func New(profile Profile) *Source {
	return &Source{profile: profile}
}

// Sample returns the next scripted reading, advancing the internal
// cursor. ctx and nowMs are accepted to satisfy collab.SensorSource;
// this replay source ignores both.
func (s *Source) Sample(ctx context.Context, nowMs uint32) (core.SensorRaw, [2]core.InputDebounceConfig, error) {
	var sample Sample
	if len(s.profile.Samples) > 0 {
		idx := s.cursor
		if idx >= len(s.profile.Samples) {
			idx = len(s.profile.Samples) - 1
		}
		sample = s.profile.Samples[idx]
		s.cursor++
	}

	raw := core.SensorRaw{
		GPSAltM:     sample.GPSAltM,
		GPSLatDeg:   sample.GPSLatDeg,
		GPSLonDeg:   sample.GPSLonDeg,
		GPSFix:      sample.GPSFix,
		PressureHPa: sample.PressureHPa,
		TempC:       sample.TempC,
		HumidityPct: sample.HumidityPct,
		InputRaw:    [2]bool{sample.Input0, sample.Input1},
	}
	return raw, s.profile.Inputs, nil
}
