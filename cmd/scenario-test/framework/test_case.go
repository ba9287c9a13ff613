// Package framework is a scripted end-to-end scenario runner for the
// cutdown flight controller: TestCase/TestResult/Assertion/TestReport
// shapes driving a core.Core instance tick by tick.
package framework

import (
	"context"
	"fmt"
	"time"

	"github.com/highaltitude/cutdown/pkg/core"
)

// TestCase defines the interface every literal scenario implements.
type TestCase interface {
	Name() string
	Category() string
	Description() string
	Setup(ctx context.Context) error
	Run(ctx context.Context) error
	Teardown() error
	Validate() *TestResult
}

// TestResult contains the outcome of a single scenario run.
type TestResult struct {
	TestName   string
	Category   string
	Passed     bool
	Duration   time.Duration
	StartTime  time.Time
	EndTime    time.Time
	Assertions []*Assertion
	Metrics    map[string]interface{}
	Errors     []error
	Warnings   []string
}

// Assertion is a single pass/fail check against flight decision state.
type Assertion struct {
	Name     string
	Expected interface{}
	Actual   interface{}
	Passed   bool
	Message  string
	Critical bool
}

// NewTestResult creates a fresh result, assumed passing until an
// assertion fails.
func NewTestResult(testName, category string) *TestResult {
	return &TestResult{
		TestName:   testName,
		Category:   category,
		Passed:     true,
		Assertions: make([]*Assertion, 0),
		Metrics:    make(map[string]interface{}),
		Errors:     make([]error, 0),
		Warnings:   make([]string, 0),
		StartTime:  time.Now(),
	}
}

// AddAssertion records an assertion, failing the result if it didn't pass.
func (r *TestResult) AddAssertion(a *Assertion) {
	r.Assertions = append(r.Assertions, a)
	if !a.Passed {
		r.Passed = false
	}
}

// AddMetric attaches a named metric to the result (e.g. "fire_tick").
func (r *TestResult) AddMetric(name string, value interface{}) {
	r.Metrics[name] = value
}

// AddError records an error and fails the result.
func (r *TestResult) AddError(err error) {
	r.Errors = append(r.Errors, err)
	r.Passed = false
}

// Finish stamps the end time and computes duration.
func (r *TestResult) Finish() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}

func (r *TestResult) String() string {
	status := "PASS"
	if !r.Passed {
		status = "FAIL"
	}
	return fmt.Sprintf("[%s] %s (%s)", status, r.TestName, r.Duration)
}

// BaseTestCase provides common scaffolding for scenario tests: a
// core.Core instance, simulated clock bookkeeping, and assertion helpers.
// Embed this in concrete scenario implementations.
type BaseTestCase struct {
	core       *core.Core
	inputAccum [2]uint32
	nowMs      uint32
	result     *TestResult
}

// NewBaseTestCase returns scaffolding with no core constructed yet;
// concrete tests call InitCore from Setup once they know their config.
func NewBaseTestCase(name, category string) *BaseTestCase {
	return &BaseTestCase{result: NewTestResult(name, category)}
}

// InitCore constructs the core under test from cfg and arms its scheduler
// at the current simulated time, so the first Tick call is already due.
func (b *BaseTestCase) InitCore(cfg core.SystemConfig) {
	b.core = core.New(cfg)
	b.core.Tick(core.TickInputs{NowMs: b.nowMs})
}

// Core returns the core under test.
func (b *BaseTestCase) Core() *core.Core { return b.core }

// Result returns the in-progress test result.
func (b *BaseTestCase) Result() *TestResult { return b.result }

// Tick advances the simulated clock by exactly one second and runs the
// core's tick pipeline, returning the result. Scenario tests drive every
// tick this way so tick counts map directly onto each scenario's literal
// "at tick N" language.
func (b *BaseTestCase) Tick(raw core.SensorRaw, inputCfgs [2]core.InputDebounceConfig, remoteCut, manualCut bool) core.TickResult {
	b.nowMs += 1000
	return b.core.Tick(core.TickInputs{
		NowMs:              b.nowMs,
		Raw:                raw,
		InputConfigs:       inputCfgs,
		InputAccum:         &b.inputAccum,
		RemoteCutRequested: remoteCut,
		ManualCutRequested: manualCut,
	})
}

// Assert adds a non-critical assertion.
func (b *BaseTestCase) Assert(name string, expected, actual interface{}, passed bool, message string) {
	b.result.AddAssertion(&Assertion{Name: name, Expected: expected, Actual: actual, Passed: passed, Message: message})
}

// AssertCritical adds a critical assertion.
func (b *BaseTestCase) AssertCritical(name string, expected, actual interface{}, passed bool, message string) {
	b.result.AddAssertion(&Assertion{Name: name, Expected: expected, Actual: actual, Passed: passed, Message: message, Critical: true})
}

// Error records a setup/run failure.
func (b *BaseTestCase) Error(err error) { b.result.AddError(err) }
