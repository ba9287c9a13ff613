package tests

import (
	"context"

	"github.com/highaltitude/cutdown/cmd/scenario-test/framework"
	"github.com/highaltitude/cutdown/pkg/core"
)

// S4ExternalInputPreempt is spec.md section 8 scenario S4: a debounced
// external input fires an immediate cut even while a Bucket B rule is
// mid-dwell and has not yet reached its own for_seconds threshold.
type S4ExternalInputPreempt struct {
	*framework.BaseTestCase
}

func NewS4ExternalInputPreempt() *S4ExternalInputPreempt {
	return &S4ExternalInputPreempt{BaseTestCase: framework.NewBaseTestCase(
		"S4: External input preempts rules", "End-to-end scenarios")}
}

func (t *S4ExternalInputPreempt) Name() string     { return "S4: External input preempts rules" }
func (t *S4ExternalInputPreempt) Category() string { return "End-to-end scenarios" }
func (t *S4ExternalInputPreempt) Description() string {
	return "A debounced external input cuts immediately, ahead of a rule still mid-dwell"
}

func (t *S4ExternalInputPreempt) Setup(ctx context.Context) error {
	cfg := core.DefaultConfig()
	cfg.RequireLaunchBeforeCut = false
	cfg.BucketA = nil
	cfg.BucketB = []core.Condition{
		{Enabled: true, VarID: core.VarGPSAltM, Op: core.OpGE, Threshold: 30000, ForSeconds: 10},
	}
	cfg.ExternalInputs[0] = core.ExternalInputConfig{Enabled: true, ActiveHigh: true, DebounceMs: 0}
	cfg.Termination.Enabled = false
	t.InitCore(cfg)
	return nil
}

func (t *S4ExternalInputPreempt) Run(ctx context.Context) error {
	// Three ticks of a satisfied-but-not-yet-dwelling Bucket B condition
	// (needs 10 seconds, has accrued only 3).
	for i := 0; i < 3; i++ {
		t.Tick(core.SensorRaw{GPSAltM: core.Variable{Value: 30000, Valid: true}},
			[2]core.InputDebounceConfig{}, false, false)
	}

	result := t.Tick(core.SensorRaw{
		GPSAltM:  core.Variable{Value: 30000, Valid: true},
		InputRaw: [2]bool{true, false},
	}, [2]core.InputDebounceConfig{}, false, false)

	t.AssertCritical("external input fires an immediate cut", true, result.CutFiredNow,
		result.CutFiredNow, "expected the debounced external input to cut before the rule's dwell completed")
	t.Assert("cut reason is ExternalInput, not BucketLogic", core.ReasonExternalInput.String(),
		result.CutReason.String(), result.CutReason == core.ReasonExternalInput, "")
	return nil
}

func (t *S4ExternalInputPreempt) Teardown() error { return nil }

func (t *S4ExternalInputPreempt) Validate() *framework.TestResult {
	t.Result().Finish()
	return t.Result()
}
