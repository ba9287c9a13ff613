package core

// LogRecord is the per-tick persistence record from section 6. Core.Tick
// builds it with plain Variable values (value plus validity); the
// persistence collaborator encodes invalid fields as NaN when it stores
// the record, since that is a wire/storage concern.
type LogRecord struct {
	TPowerS        uint32
	LaunchDetected bool
	CutFired       bool
	CutReason      CutReason
	GPSFix         bool
	LatDeg         Variable
	LonDeg         Variable
	AltM           Variable
	TempC          Variable
	PressureHPa    Variable
	HumidityPct    Variable
}

// TickResult is everything a single Core.Tick call produces: whether a
// tick actually fired, how many seconds it advanced by, the resulting log
// record, the telemetry interval to use, and whether a cut fired this
// tick (for the instrument layer to drive the release actuator).
type TickResult struct {
	Due            bool
	ElapsedS       uint16
	Log            LogRecord
	TelemetryS     uint32
	CutFiredNow    bool
	CutReason      CutReason
	LaunchFiredNow bool
	TerminatedNow  bool
}

// Core wires every component from section 4 into the single ordered tick
// described in section 5. It owns RuntimeState and is the only thing that
// mutates it; everything else (readings, config, commands) is handed in
// as a pure argument to Tick.
type Core struct {
	State *RuntimeState

	Scheduler   *Scheduler
	Launch      *LaunchDetector
	Termination *TerminationDetector
	Rules       *RuleEngine
	CutDecider  *CutDecider
	Phase       *FlightStateMachine
	Telemetry   *TelemetrySelector
	Errors      *ErrorRegistry

	terminationCfg TerminationConfig
	externalInputs [2]ExternalInputConfig
	inputAccum     [2]uint32
}

// New builds a Core from a validated SystemConfig. Callers are expected to
// have already run SystemConfig.Validate and fallen back to
// DefaultConfig() on failure (section 4.11); Core itself does not
// re-validate.
func New(cfg SystemConfig) *Core {
	return &Core{
		State:       NewRuntimeState(),
		Scheduler:   NewScheduler(),
		Launch:      NewLaunchDetector(),
		Termination: NewTerminationDetector(),
		Rules: NewRuleEngine(cfg.BucketA, cfg.BucketB, Gates{
			RequireLaunchBeforeCut: cfg.RequireLaunchBeforeCut,
			RequireGPSFixBeforeCut: cfg.RequireGPSFixBeforeCut,
		}),
		CutDecider:     NewCutDecider(nil, cfg.RemoteCut),
		Phase:          NewFlightStateMachine(),
		Telemetry:      NewTelemetrySelector(cfg.Telemetry),
		Errors:         NewErrorRegistry(),
		terminationCfg: cfg.Termination,
		externalInputs: cfg.ExternalInputs,
	}
}

// TickInputs bundles everything external to Core that a single tick needs:
// the free-running millisecond clock sample and the edge-triggered /
// pulled collaborator outputs for this tick. An input left disabled in
// InputConfigs but enabled in SystemConfig.ExternalInputs is debounced
// with the configured DebounceMs; a nil InputAccum makes Core keep the
// debounce accumulators itself.
type TickInputs struct {
	NowMs              uint32
	Raw                SensorRaw
	InputConfigs       [2]InputDebounceConfig
	InputAccum         *[2]uint32
	RemoteCutRequested bool
	ManualCutRequested bool
}

// Tick runs exactly one pass of the ordered pipeline from section 5. If
// the scheduler's 1 Hz deadline has not arrived, it returns
// TickResult{Due: false} and mutates nothing. SystemMode == Config skips
// all autonomous decision-making, per the core's resolution of the
// "config-mode autonomy" open question (section 9): the core is inert in
// Config mode, and any driver work needed for live UI readings belongs to
// the collaborator.
func (c *Core) Tick(in TickInputs) TickResult {
	elapsed, due := c.Scheduler.Tick(in.NowMs)
	if !due {
		return TickResult{Due: false}
	}

	if c.State.SystemMode == Config {
		return TickResult{Due: true, ElapsedS: elapsed}
	}

	c.State.TPowerS += uint32(elapsed)
	if c.State.LaunchDetected {
		// launch_ms is the raw free-running clock value at latch time, a
		// different domain than t_power_s's scheduler-relative accumulation,
		// so t_launch_s accumulates the same way t_power_s does rather than
		// being derived from launch_ms by subtraction.
		c.State.TLaunchS += uint32(elapsed)
	}

	accum := in.InputAccum
	if accum == nil {
		accum = &c.inputAccum
	}
	inputCfgs := in.InputConfigs
	for i, ext := range c.externalInputs {
		if ext.Enabled && !inputCfgs[i].Enabled {
			inputCfgs[i] = InputDebounceConfig{Enabled: true, DebounceMs: ext.DebounceMs, AccumCapMs: inputCfgs[i].AccumCapMs}
		}
	}
	readings := BuildReadings(c.State.TPowerS, c.State.TLaunchS, in.Raw, inputCfgs, accum)

	launchFired := c.Launch.Update(c.State, readings, c.Errors.AnyCritical(), in.NowMs)
	terminatedByDetector := c.Termination.Update(c.State, c.terminationCfg, readings, in.NowMs)

	c.CutDecider.Rules = c.Rules
	_, cutFired := c.CutDecider.Decide(c.State, CutInputs{
		Readings:           readings,
		RemoteCutRequested: in.RemoteCutRequested,
		ManualCutRequested: in.ManualCutRequested,
	}, in.NowMs)

	c.Phase.Recompute(c.State)

	telemetryS := c.Telemetry.IntervalS(c.State, c.State.TPowerS)

	return TickResult{
		Due:            true,
		ElapsedS:       elapsed,
		Log:            buildLogRecord(c.State, readings),
		TelemetryS:     telemetryS,
		CutFiredNow:    cutFired,
		CutReason:      c.State.CutReason,
		LaunchFiredNow: launchFired,
		TerminatedNow:  terminatedByDetector || cutFired,
	}
}

func buildLogRecord(state *RuntimeState, r Readings) LogRecord {
	return LogRecord{
		TPowerS:        state.TPowerS,
		LaunchDetected: state.LaunchDetected,
		CutFired:       state.CutFired,
		CutReason:      state.CutReason,
		GPSFix:         r.GPSFixPresent(),
		LatDeg:         r.Get(VarGPSLatDeg),
		LonDeg:         r.Get(VarGPSLonDeg),
		AltM:           r.Get(VarGPSAltM),
		TempC:          r.Get(VarTempC),
		PressureHPa:    r.Get(VarPressureHPa),
		HumidityPct:    r.Get(VarHumidityPct),
	}
}
