package tests

import (
	"context"

	"github.com/highaltitude/cutdown/cmd/scenario-test/framework"
	"github.com/highaltitude/cutdown/pkg/core"
)

// S6SchedulerStallRecovery is spec.md section 8 scenario S6: scheduler
// stall recovery. A large gap between calls produces one capped catch-up
// tick, and the scheduler returns to steady 1 Hz immediately after.
type S6SchedulerStallRecovery struct {
	result    *framework.TestResult
	scheduler *core.Scheduler
}

func NewS6SchedulerStallRecovery() *S6SchedulerStallRecovery {
	return &S6SchedulerStallRecovery{
		result: framework.NewTestResult("S6: Scheduler stall recovery", "End-to-end scenarios"),
	}
}

func (t *S6SchedulerStallRecovery) Name() string     { return "S6: Scheduler stall recovery" }
func (t *S6SchedulerStallRecovery) Category() string { return "End-to-end scenarios" }
func (t *S6SchedulerStallRecovery) Description() string {
	return "A 12.5s stall produces one capped catch-up tick, then steady 1 Hz resumes"
}

func (t *S6SchedulerStallRecovery) Setup(ctx context.Context) error {
	t.scheduler = core.NewScheduler()
	t.scheduler.Tick(0)
	return nil
}

func (t *S6SchedulerStallRecovery) Run(ctx context.Context) error {
	elapsed, due := t.scheduler.Tick(12500)
	t.AssertCritical("due after the stall", true, due, due, "")
	t.AssertCritical("catch-up caps at 12s", uint16(12), elapsed, elapsed == 12,
		"expected the scheduler to report a capped 12-second catch-up after the 11.5s gap")

	elapsed, due = t.scheduler.Tick(13500)
	t.Assert("returns to steady 1 Hz", uint16(1), elapsed, due && elapsed == 1, "")
	return nil
}

func (t *S6SchedulerStallRecovery) Teardown() error { return nil }

func (t *S6SchedulerStallRecovery) Validate() *framework.TestResult {
	t.result.Finish()
	return t.result
}

func (t *S6SchedulerStallRecovery) Assert(name string, expected, actual interface{}, passed bool, message string) {
	t.result.AddAssertion(&framework.Assertion{Name: name, Expected: expected, Actual: actual, Passed: passed, Message: message})
}

func (t *S6SchedulerStallRecovery) AssertCritical(name string, expected, actual interface{}, passed bool, message string) {
	t.result.AddAssertion(&framework.Assertion{Name: name, Expected: expected, Actual: actual, Passed: passed, Message: message, Critical: true})
}
