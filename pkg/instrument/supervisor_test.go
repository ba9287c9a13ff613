package instrument

import (
	"context"
	"testing"
	"time"

	"github.com/highaltitude/cutdown/pkg/clock"
	"github.com/highaltitude/cutdown/pkg/collab/actuator"
	"github.com/highaltitude/cutdown/pkg/collab/logstore"
	"github.com/highaltitude/cutdown/pkg/collab/simsensor"
	"github.com/highaltitude/cutdown/pkg/collab/uplinksim"
	"github.com/highaltitude/cutdown/pkg/core"
	"github.com/highaltitude/cutdown/pkg/event"
)

// stepClock is a fake clock.Clock that advances one second on every Now
// call, so each Run sample after the arming one reaches the scheduler's
// next 1 Hz deadline without the test sleeping for real seconds.
type stepClock struct{ now clock.MonoTime }

func (c *stepClock) Now() clock.MonoTime {
	c.now += clock.FromDuration(time.Second)
	return c.now
}

func (c *stepClock) Since(t clock.MonoTime) time.Duration { return clock.ToDuration(c.now - t) }

func steadyProfile(n int, altM float32) simsensor.Profile {
	samples := make([]simsensor.Sample, n)
	for i := range samples {
		samples[i] = simsensor.Sample{
			GPSAltM:     core.Variable{Value: altM, Valid: true},
			GPSLatDeg:   core.Variable{Value: 40, Valid: true},
			GPSLonDeg:   core.Variable{Value: -105, Valid: true},
			GPSFix:      core.Variable{Value: 1, Valid: true},
			PressureHPa: core.Variable{Value: 1013, Valid: true},
			TempC:       core.Variable{Value: 15, Valid: true},
			HumidityPct: core.Variable{Value: 40, Valid: true},
		}
	}
	return simsensor.Profile{
		Samples: samples,
		Inputs: [2]core.InputDebounceConfig{
			{Enabled: true, DebounceMs: 50, AccumCapMs: 60000},
			{},
		},
	}
}

func TestSupervisor_RunProcessesTicksAndPersists(t *testing.T) {
	cfg := core.DefaultConfig()
	c := core.New(cfg)

	sensors := simsensor.New(steadyProfile(50, 1000))
	uplink := uplinksim.New(cfg.SerialNumber, "token")
	store := logstore.New()
	act := actuator.New(0, nil)

	sup := New(c, sensors, uplink, act, store, WithClock(&stepClock{}))

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()

	err := sup.Run(ctx, 10*time.Millisecond)
	if err != context.DeadlineExceeded {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	if store.Len() == 0 {
		t.Fatalf("expected at least one tick to be persisted")
	}
}

func TestSupervisor_ManualCutRequestFiresReleaseSink(t *testing.T) {
	cfg := core.DefaultConfig()
	c := core.New(cfg)
	c.State.LaunchDetected = true // manual cut does not require the launch gate

	sensors := simsensor.New(steadyProfile(20, 1000))
	uplink := uplinksim.New(cfg.SerialNumber, "token")
	store := logstore.New()

	released := false
	act := actuator.New(0, func() { released = true })

	sup := New(c, sensors, uplink, act, store, WithClock(&stepClock{}))
	sup.RequestManualCut()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	sup.Run(ctx, 10*time.Millisecond)

	if !act.Latch().Released() {
		t.Fatalf("expected release latch to have fired")
	}
	if !released {
		t.Fatalf("expected onReleased callback to have run")
	}
}

func TestSupervisor_HealthySensorLeavesErrorRegistryClear(t *testing.T) {
	cfg := core.DefaultConfig()
	c := core.New(cfg)

	sensors := simsensor.New(steadyProfile(5, 1000))
	uplink := uplinksim.New(cfg.SerialNumber, "token")
	store := logstore.New()
	act := actuator.New(0, nil)

	sup := New(c, sensors, uplink, act, store)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	sup.Run(ctx, 10*time.Millisecond)

	if c.Errors.Active(core.SourceEnvironmentalSensor) {
		t.Fatalf("sensor source never errored; registry should be clear")
	}
}

func TestSupervisor_ManualCutPublishesTerminationEvent(t *testing.T) {
	cfg := core.DefaultConfig()
	c := core.New(cfg)
	c.State.LaunchDetected = true

	sensors := simsensor.New(steadyProfile(20, 1000))
	uplink := uplinksim.New(cfg.SerialNumber, "token")
	store := logstore.New()
	act := actuator.New(0, nil)

	bus := event.NewErrorBus(16)
	sub, err := bus.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	sup := New(c, sensors, uplink, act, store, WithErrorBus(bus), WithClock(&stepClock{}))
	sup.RequestManualCut()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	sup.Run(ctx, 10*time.Millisecond)

	select {
	case evt := <-sub.Events():
		if evt.Code != "FLIGHT_TERMINATED" {
			t.Fatalf("expected first published event to be termination, got %s", evt.Code)
		}
	default:
		t.Fatalf("expected at least one error-bus event to be published")
	}
}

func TestRecorder_DumpIncludesRecordedTicks(t *testing.T) {
	r := NewRecorder(4)
	state := core.NewRuntimeState()
	state.TPowerS = 42
	r.Record(Snapshot{Timestamp: time.Now(), NowMs: 42000, State: *state})

	var buf stringWriter
	r.Dump(&buf, "test", "boom", []byte("stack trace"))

	out := buf.String()
	if !contains(out, "CRASH REPORT") || !contains(out, "now_ms=42000") {
		t.Fatalf("crash dump missing expected content: %s", out)
	}
}

type stringWriter struct{ buf []byte }

func (w *stringWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	return len(p), nil
}
func (w *stringWriter) String() string { return string(w.buf) }

func contains(haystack, needle string) bool {
	return len(haystack) >= len(needle) && indexOf(haystack, needle) >= 0
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
