package core

import "testing"

// driveTicks advances a Core through n due ticks at a steady 1 Hz using the
// given per-tick altitude feed, returning every TickResult in order.
func driveTicks(c *Core, n int, altFn func(tick int) float32) []TickResult {
	results := make([]TickResult, 0, n)
	now := uint32(0)
	c.Tick(TickInputs{NowMs: now}) // arms the scheduler, never due

	for tick := 1; tick <= n; tick++ {
		now += 1000
		res := c.Tick(TickInputs{
			NowMs: now,
			Raw: SensorRaw{
				GPSAltM: Variable{Value: altFn(tick), Valid: true},
			},
		})
		if !res.Due {
			panic("expected a steady 1 Hz feed to always be due")
		}
		results = append(results, res)
	}
	return results
}

// S1 — altitude trigger with dwell: Bucket A empty, Bucket B requires
// gps_alt_m >= 30000 for 10 consecutive ticks, both gates disabled.
func TestCore_ScenarioS1(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RequireLaunchBeforeCut = false
	cfg.RequireGPSFixBeforeCut = false
	cfg.BucketA = nil
	cfg.BucketB = []Condition{
		{Enabled: true, VarID: VarGPSAltM, Op: OpGE, Threshold: 30000, ForSeconds: 10},
	}
	cfg.Termination.Enabled = false

	c := New(cfg)
	results := driveTicks(c, 15, func(tick int) float32 {
		if tick <= 5 {
			return 29999
		}
		return 30000
	})

	for i := 0; i < 14; i++ {
		if results[i].CutFiredNow {
			t.Fatalf("tick %d: unexpected cut fired early", i+1)
		}
	}

	last := results[14]
	if !last.CutFiredNow {
		t.Fatal("expected cut to fire on tick 15")
	}
	if last.CutReason != ReasonBucketLogic {
		t.Fatalf("expected reason BucketLogic, got %v", last.CutReason)
	}
	if !c.State.Terminated {
		t.Fatal("expected terminated to be set the same tick as the cut")
	}
}

// S4 — external input preempts a rule already mid-dwell.
func TestCore_ScenarioS4(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RequireLaunchBeforeCut = false
	cfg.BucketA = nil
	cfg.BucketB = []Condition{
		{Enabled: true, VarID: VarGPSAltM, Op: OpGE, Threshold: 30000, ForSeconds: 10},
	}
	cfg.ExternalInputs[0] = ExternalInputConfig{Enabled: true, ActiveHigh: true, DebounceMs: 0}
	cfg.Termination.Enabled = false

	c := New(cfg)
	now := uint32(0)
	c.Tick(TickInputs{NowMs: now})

	// Three ticks of satisfied-but-not-yet-dwelling Bucket B condition.
	for i := 0; i < 3; i++ {
		now += 1000
		c.Tick(TickInputs{NowMs: now, Raw: SensorRaw{GPSAltM: Variable{Value: 30000, Valid: true}}})
	}

	now += 1000
	res := c.Tick(TickInputs{
		NowMs: now,
		Raw: SensorRaw{
			GPSAltM:  Variable{Value: 30000, Valid: true},
			InputRaw: [2]bool{true, false},
		},
	})

	if !res.CutFiredNow {
		t.Fatal("expected external input to fire a cut immediately")
	}
	if res.CutReason != ReasonExternalInput {
		t.Fatalf("expected reason ExternalInput, not %v (rule dwell had not yet reached for_seconds)", res.CutReason)
	}
}

// S5 — an accepted remote cut command fires once, and subsequent ticks
// with the uplink flag still asserted are no-ops.
func TestCore_ScenarioS5(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RemoteCut = RemoteCutConfig{Enabled: true, Token: "CUTDOWN"}
	cfg.Termination.Enabled = false

	c := New(cfg)
	now := uint32(0)
	c.Tick(TickInputs{NowMs: now})

	now += 1000
	res := c.Tick(TickInputs{NowMs: now, RemoteCutRequested: true})
	if !res.CutFiredNow || res.CutReason != ReasonIridiumRemote {
		t.Fatalf("expected an IridiumRemote cut on first assertion, got fired=%v reason=%v", res.CutFiredNow, res.CutReason)
	}

	for i := 0; i < 3; i++ {
		now += 1000
		res = c.Tick(TickInputs{NowMs: now, RemoteCutRequested: true})
		if res.CutFiredNow {
			t.Fatalf("tick %d: a cut must not refire once already latched", i)
		}
	}
}

func TestCore_ConfigModeSkipsDecisionMaking(t *testing.T) {
	cfg := DefaultConfig()
	c := New(cfg)
	c.State.SystemMode = Config

	now := uint32(0)
	c.Tick(TickInputs{NowMs: now})
	now += 1000
	res := c.Tick(TickInputs{NowMs: now, RemoteCutRequested: true, ManualCutRequested: true})

	if !res.Due {
		t.Fatal("expected the scheduler to still report due ticks in Config mode")
	}
	if c.State.CutFired || c.State.LaunchDetected {
		t.Fatal("Config mode must be inert: no autonomous decision-making")
	}
}

func TestCore_InvariantsHoldAfterCut(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RemoteCut = RemoteCutConfig{Enabled: true, Token: "X"}

	c := New(cfg)
	now := uint32(0)
	c.Tick(TickInputs{NowMs: now})
	now += 1000
	c.Tick(TickInputs{NowMs: now, RemoteCutRequested: true})

	if err := c.State.CheckInvariants(); err != nil {
		t.Fatalf("invariants violated after cut: %v", err)
	}
}
