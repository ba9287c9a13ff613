package tests

import (
	"context"

	"github.com/highaltitude/cutdown/cmd/scenario-test/framework"
	"github.com/highaltitude/cutdown/pkg/core"
)

// S2LaunchPressureDrop is spec.md section 8 scenario S2: launch latch from
// a sustained pressure drop. Baseline captured at tick 3, the detector's
// five-tick candidate streak accrues from tick 5, and the latch fires at
// tick 9.
type S2LaunchPressureDrop struct {
	*framework.BaseTestCase
}

func NewS2LaunchPressureDrop() *S2LaunchPressureDrop {
	return &S2LaunchPressureDrop{BaseTestCase: framework.NewBaseTestCase(
		"S2: Launch latch from pressure drop", "End-to-end scenarios")}
}

func (t *S2LaunchPressureDrop) Name() string     { return "S2: Launch latch from pressure drop" }
func (t *S2LaunchPressureDrop) Category() string { return "End-to-end scenarios" }
func (t *S2LaunchPressureDrop) Description() string {
	return "Launch detector latches at tick 9 once a 5 hPa drop persists for 5 ticks"
}

func (t *S2LaunchPressureDrop) Setup(ctx context.Context) error {
	t.InitCore(core.DefaultConfig())
	return nil
}

func (t *S2LaunchPressureDrop) Run(ctx context.Context) error {
	// Ticks 1-2: critical errors latched, no readings, establishes a
	// quiet baseline period before the scenario's literal tick 3 onward.
	t.Core().Errors.Set(core.SourceEnvironmentalSensor, true, 0)
	for i := 0; i < 2; i++ {
		t.Tick(core.SensorRaw{}, [2]core.InputDebounceConfig{}, false, false)
	}
	t.Core().Errors.Set(core.SourceEnvironmentalSensor, false, t.Core().State.TPowerS)

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
			p = pressures[8]
		}
		raw := core.SensorRaw{PressureHPa: core.Variable{Value: p, Valid: true}}
		t.Tick(raw, [2]core.InputDebounceConfig{}, false, false)

		if tick < 9 {
			t.Assert("no early latch", false, t.Core().State.LaunchDetected,
				!t.Core().State.LaunchDetected, "")
		}
	}

	t.AssertCritical("launch_detected true at tick 9", true, t.Core().State.LaunchDetected,
		t.Core().State.LaunchDetected, "expected the launch latch to fire on tick 9")
	return nil
}

func (t *S2LaunchPressureDrop) Teardown() error { return nil }

func (t *S2LaunchPressureDrop) Validate() *framework.TestResult {
	t.Result().Finish()
	return t.Result()
}
