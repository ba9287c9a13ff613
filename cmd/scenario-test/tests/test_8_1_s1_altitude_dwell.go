package tests

import (
	"context"

	"github.com/highaltitude/cutdown/cmd/scenario-test/framework"
	"github.com/highaltitude/cutdown/pkg/core"
)

// S1AltitudeDwell is spec.md section 8 scenario S1: altitude trigger with
// dwell. Bucket A empty, Bucket B has one condition (gps_alt_m >= 30000,
// for_seconds = 10), both gates disabled.
type S1AltitudeDwell struct {
	*framework.BaseTestCase
}

func NewS1AltitudeDwell() *S1AltitudeDwell {
	return &S1AltitudeDwell{BaseTestCase: framework.NewBaseTestCase(
		"S1: Altitude trigger with dwell", "End-to-end scenarios")}
}

func (t *S1AltitudeDwell) Name() string        { return "S1: Altitude trigger with dwell" }
func (t *S1AltitudeDwell) Category() string    { return "End-to-end scenarios" }
func (t *S1AltitudeDwell) Description() string {
	return "Bucket B fires after 10 sustained ticks of gps_alt_m >= 30000"
}

func (t *S1AltitudeDwell) Setup(ctx context.Context) error {
	cfg := core.DefaultConfig()
	cfg.RequireLaunchBeforeCut = false
	cfg.RequireGPSFixBeforeCut = false
	cfg.BucketA = nil
	cfg.BucketB = []core.Condition{
		{Enabled: true, VarID: core.VarGPSAltM, Op: core.OpGE, Threshold: 30000, ForSeconds: 10},
	}
	cfg.Termination.Enabled = false
	t.InitCore(cfg)
	return nil
}

func (t *S1AltitudeDwell) Run(ctx context.Context) error {
	altitudes := make([]float32, 0, 15)
	for i := 0; i < 5; i++ {
		altitudes = append(altitudes, 29999)
	}
	for i := 0; i < 10; i++ {
		altitudes = append(altitudes, 30000)
	}

	for i, alt := range altitudes {
		raw := core.SensorRaw{GPSAltM: core.Variable{Value: alt, Valid: true}}
		result := t.Tick(raw, [2]core.InputDebounceConfig{}, false, false)

		tickNum := i + 1
		if tickNum < 15 {
			t.Assert("no cut before tick 15", false, result.CutFiredNow, !result.CutFiredNow,
				"")
		} else {
			t.AssertCritical("cut fires at tick 15", true, result.CutFiredNow, result.CutFiredNow,
				"expected cut on the 15th tick")
			t.Assert("cut reason is BucketLogic", core.ReasonBucketLogic.String(), result.CutReason.String(),
				result.CutReason == core.ReasonBucketLogic, "")
			t.Assert("terminated set same tick", true, t.Core().State.Terminated, t.Core().State.Terminated, "")
		}
	}
	return nil
}

func (t *S1AltitudeDwell) Teardown() error { return nil }

func (t *S1AltitudeDwell) Validate() *framework.TestResult {
	t.Result().Finish()
	return t.Result()
}
