package tests

import (
	"context"

	"github.com/highaltitude/cutdown/cmd/scenario-test/framework"
	"github.com/highaltitude/cutdown/pkg/core"
)

// S5RemoteCommand is spec.md section 8 scenario S5: an accepted remote cut
// command fires once, and subsequent ticks with the uplink flag still
// asserted are no-ops.
type S5RemoteCommand struct {
	*framework.BaseTestCase
}

func NewS5RemoteCommand() *S5RemoteCommand {
	return &S5RemoteCommand{BaseTestCase: framework.NewBaseTestCase(
		"S5: Remote command accepted", "End-to-end scenarios")}
}

func (t *S5RemoteCommand) Name() string        { return "S5: Remote command accepted" }
func (t *S5RemoteCommand) Category() string    { return "End-to-end scenarios" }
func (t *S5RemoteCommand) Description() string {
	return "An accepted IridiumRemote cut fires once and does not refire while latched"
}

func (t *S5RemoteCommand) Setup(ctx context.Context) error {
	cfg := core.DefaultConfig()
	cfg.SerialNumber = 1234567
	cfg.RemoteCut = core.RemoteCutConfig{Enabled: true, Token: "CUTDOWN"}
	cfg.Termination.Enabled = false
	t.InitCore(cfg)
	return nil
}

func (t *S5RemoteCommand) Run(ctx context.Context) error {
	first := t.Tick(core.SensorRaw{}, [2]core.InputDebounceConfig{}, true, false)
	t.AssertCritical("cut fires on first remote assertion", true, first.CutFiredNow,
		first.CutFiredNow, "")
	t.Assert("cut reason is IridiumRemote", core.ReasonIridiumRemote.String(), first.CutReason.String(),
		first.CutReason == core.ReasonIridiumRemote, "")

	for i := 0; i < 3; i++ {
		result := t.Tick(core.SensorRaw{}, [2]core.InputDebounceConfig{}, true, false)
		t.Assert("no refire while remote flag stays asserted", false, result.CutFiredNow,
			!result.CutFiredNow, "a latched cut must not fire again")
	}
	return nil
}

func (t *S5RemoteCommand) Teardown() error { return nil }

func (t *S5RemoteCommand) Validate() *framework.TestResult {
	t.Result().Finish()
	return t.Result()
}
