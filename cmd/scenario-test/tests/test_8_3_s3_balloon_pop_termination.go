package tests

import (
	"context"

	"github.com/highaltitude/cutdown/cmd/scenario-test/framework"
	"github.com/highaltitude/cutdown/pkg/core"
)

// S3BalloonPopTermination is spec.md section 8 scenario S3: natural
// balloon-pop termination. The vehicle is already in flight at a peak of
// 25,000 m; holding at least 60 m below that peak (24,900 m) for 15
// consecutive ticks latches natural termination without ever firing the
// cut actuator.
type S3BalloonPopTermination struct {
	*framework.BaseTestCase
}

func NewS3BalloonPopTermination() *S3BalloonPopTermination {
	return &S3BalloonPopTermination{BaseTestCase: framework.NewBaseTestCase(
		"S3: Balloon-pop termination", "End-to-end scenarios")}
}

func (t *S3BalloonPopTermination) Name() string     { return "S3: Balloon-pop termination" }
func (t *S3BalloonPopTermination) Category() string { return "End-to-end scenarios" }
func (t *S3BalloonPopTermination) Description() string {
	return "Staying 60m or more below peak for 15 ticks latches natural termination, never cut_fired"
}

func (t *S3BalloonPopTermination) Setup(ctx context.Context) error {
	cfg := core.DefaultConfig()
	cfg.BucketA = nil
	cfg.BucketB = nil
	cfg.RemoteCut.Enabled = false
	cfg.ExternalInputs[0].Enabled = false
	cfg.ExternalInputs[1].Enabled = false
	cfg.Termination = core.TerminationConfig{Enabled: true, UseGPS: true, GPSDropM: 60, SustainS: 15}
	t.InitCore(cfg)

	// The scenario begins already in flight at the burst altitude; the
	// launch detector's own latch behavior is covered by S2.
	t.Core().State.FlightState = core.InFlight
	t.Core().State.LaunchDetected = true
	return nil
}

func (t *S3BalloonPopTermination) Run(ctx context.Context) error {
	t.Tick(core.SensorRaw{GPSAltM: core.Variable{Value: 25000, Valid: true}},
		[2]core.InputDebounceConfig{}, false, false)
	t.Assert("peak_alt_m reaches 25000", float32(25000), t.Core().State.PeakAltM,
		t.Core().State.PeakAltM == 25000, "")

	fired := false
	for i := 0; i < 16; i++ {
		t.Tick(core.SensorRaw{GPSAltM: core.Variable{Value: 24900, Valid: true}},
			[2]core.InputDebounceConfig{}, false, false)
		if t.Core().State.Terminated {
			t.AssertCritical("terminates on the 15th descent tick", 14, i, i == 14,
				"expected termination to latch on the 15th sustained descent tick")
			fired = true
			break
		}
	}
	t.AssertCritical("termination fired within the window", true, fired, fired, "")

	t.Assert("flight_state is Terminated", core.Terminated.String(), t.Core().State.FlightState.String(),
		t.Core().State.FlightState == core.Terminated, "")
	t.AssertCritical("cut_fired remains false", false, t.Core().State.CutFired,
		!t.Core().State.CutFired, "natural termination must never fire the cut actuator")
	t.Assert("cut_reason remains None", core.ReasonNone.String(), t.Core().State.CutReason.String(),
		t.Core().State.CutReason == core.ReasonNone, "")
	return nil
}

func (t *S3BalloonPopTermination) Teardown() error { return nil }

func (t *S3BalloonPopTermination) Validate() *framework.TestResult {
	t.Result().Finish()
	return t.Result()
}
