// Package instrument is the concurrent layer that owns every goroutine,
// lock, and IO call the flight instrument needs: it wires core.Core (the
// pure, single-threaded decision pipeline) to the pull/push collaborators
// in pkg/collab, drives it at wall-clock cadence, and surfaces crash
// forensics and Prometheus instrumentation around it.
//
// Nothing in pkg/core ever imports this package. That boundary is what
// lets the decision pipeline stay deterministic and unit-testable while
// this layer absorbs all the messiness of real sensors, real persistence,
// and real failure.
package instrument

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/highaltitude/cutdown/pkg/clock"
	"github.com/highaltitude/cutdown/pkg/collab"
	"github.com/highaltitude/cutdown/pkg/core"
	"github.com/highaltitude/cutdown/pkg/event"
)

// Supervisor drives a core.Core at 1 Hz wall-clock cadence against a set
// of collaborators, recovering from collaborator panics and exposing
// crash dumps and metrics along the way.
type Supervisor struct {
	core   *core.Core
	clock  clock.Clock
	logger *slog.Logger

	sensors     collab.SensorSource
	uplink      collab.UplinkSource
	actuator    collab.ActuatorSink
	persistence collab.PersistenceSink

	metrics  *Metrics
	recorder *Recorder
	bootTime time.Time
	errBus   *event.ErrorBus

	inputAccum [2]uint32

	crashDumpDir string
	crashDumpMu  sync.Mutex
	lastCrashDump time.Time

	manualCutCh chan struct{}
}

// Option configures a Supervisor using the standard functional-options
// shape.
type Option func(*Supervisor)

// WithClock overrides the default system clock, primarily for tests.
func WithClock(c clock.Clock) Option {
	return func(s *Supervisor) { s.clock = c }
}

// WithLogger overrides the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Supervisor) { s.logger = l }
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(s *Supervisor) { s.metrics = m }
}

// WithRecorder overrides the default-sized flight recorder.
func WithRecorder(r *Recorder) Option {
	return func(s *Supervisor) { s.recorder = r }
}

// WithCrashDumpDir overrides where crash reports are written. Defaults to
// "crash-logs" in the working directory.
func WithCrashDumpDir(dir string) Option {
	return func(s *Supervisor) { s.crashDumpDir = dir }
}

// WithErrorBus attaches an observability error bus: every error-registry
// transition and terminal flight event is published to it as an
// event.ErrorEvent, separate from the tick data path, so ground-station
// tooling can subscribe without touching the decision pipeline.
func WithErrorBus(bus *event.ErrorBus) Option {
	return func(s *Supervisor) { s.errBus = bus }
}

// New builds a Supervisor around an already-constructed core.Core and its
// collaborators.
func New(c *core.Core, sensors collab.SensorSource, uplink collab.UplinkSource, actuator collab.ActuatorSink, persistence collab.PersistenceSink, opts ...Option) *Supervisor {
	s := &Supervisor{
		core:         c,
		clock:        clock.NewSystemClock(),
		logger:       slog.Default(),
		sensors:      sensors,
		uplink:       uplink,
		actuator:     actuator,
		persistence:  persistence,
		bootTime:     time.Now(),
		crashDumpDir: "crash-logs",
		manualCutCh:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.recorder == nil {
		s.recorder = NewRecorder(0)
	}
	return s
}

// RequestManualCut queues a manual cut command for the next tick,
// mirroring a physical ground-test button or CLI override.
func (s *Supervisor) RequestManualCut() {
	select {
	case s.manualCutCh <- struct{}{}:
	default:
	}
}

// Run drives the tick loop until ctx is cancelled. It samples the clock
// every tickPeriod (section 5 calls for a free-running 1 Hz clock, so any
// period at or under a second is appropriate; the scheduler itself is
// what enforces the 1 Hz cadence against drift and stalls). On a sample
// where the scheduler's deadline has arrived it pulls the collaborators,
// feeds core.Core.Tick, and dispatches the resulting actuator/persistence
// side effects; other samples only advance the scheduler.
func (s *Supervisor) Run(ctx context.Context, tickPeriod time.Duration) error {
	if tickPeriod <= 0 {
		tickPeriod = 200 * time.Millisecond
	}
	ticker := time.NewTicker(tickPeriod)
	defer ticker.Stop()

	bootMono := s.clock.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			nowMs := uint32(clock.ToDuration(s.clock.Now()-bootMono) / time.Millisecond)
			s.runOneTick(ctx, nowMs)
		}
	}
}

func (s *Supervisor) runOneTick(ctx context.Context, nowMs uint32) {
	defer s.recoverTick(ctx)

	// Probe a copy of the scheduler so collaborators (and a queued manual
	// cut) are consumed only on samples that produce a tick.
	probe := *s.core.Scheduler
	if _, due := probe.Tick(nowMs); !due {
		s.core.Tick(core.TickInputs{NowMs: nowMs})
		return
	}

	wasSensorBad := s.core.Errors.Active(core.SourceEnvironmentalSensor)
	raw, inputCfgs, err := s.sensors.Sample(ctx, nowMs)
	if err != nil {
		s.logger.Warn("sensor sample failed", "error", err)
		s.core.Errors.Set(core.SourceEnvironmentalSensor, true, s.core.State.TPowerS)
		s.publishError(event.WarningSeverity, event.CodeSensorFail, "sensor", err.Error(), event.SignalDegraded)
	} else {
		s.core.Errors.Set(core.SourceEnvironmentalSensor, false, s.core.State.TPowerS)
		if wasSensorBad {
			s.publishError(event.InfoSeverity, event.CodeSensorFail, "sensor", "sensor recovered", event.SignalRecovered)
		}
	}

	remoteCut := false
	if s.uplink != nil {
		wasUplinkBad := s.core.Errors.Active(core.SourceUplinkModem)
		remoteCut, err = s.uplink.PollRemoteCut(ctx)
		if err != nil {
			s.logger.Warn("uplink poll failed", "error", err)
			s.core.Errors.Set(core.SourceUplinkModem, true, s.core.State.TPowerS)
			s.publishError(event.WarningSeverity, event.CodeUplinkFail, "uplink", err.Error(), event.SignalDegraded)
		} else {
			s.core.Errors.Set(core.SourceUplinkModem, false, s.core.State.TPowerS)
			if wasUplinkBad {
				s.publishError(event.InfoSeverity, event.CodeUplinkFail, "uplink", "uplink recovered", event.SignalRecovered)
			}
		}
	}

	manualCut := false
	select {
	case <-s.manualCutCh:
		manualCut = true
	default:
	}

	result := s.core.Tick(core.TickInputs{
		NowMs:              nowMs,
		Raw:                raw,
		InputConfigs:       inputCfgs,
		InputAccum:         &s.inputAccum,
		RemoteCutRequested: remoteCut,
		ManualCutRequested: manualCut,
	})
	if !result.Due {
		return
	}

	s.recorder.Record(Snapshot{
		Timestamp: time.Now(),
		NowMs:     nowMs,
		State:     *s.core.State,
		Telemetry: result,
	})

	if s.metrics != nil {
		s.metrics.TicksProcessed.Inc()
		if result.ElapsedS > 1 {
			s.metrics.SchedulerCatchUpS.Add(float64(result.ElapsedS - 1))
		}
		s.metrics.UptimeSeconds.Set(time.Since(s.bootTime).Seconds())
		s.metrics.Observe(
			int(s.core.State.FlightState), int(s.core.State.SystemMode),
			s.core.State.LaunchDetected, s.core.State.CutFired, s.core.State.Terminated,
			s.core.State.CutReason.String(),
			float64(s.core.State.PeakAltM), float64(s.core.State.MinPressureHPa),
			uint64(s.core.State.DescentCountS), uint64(s.core.State.TPowerS), uint64(s.core.State.TLaunchS),
		)
		s.metrics.ErrorSeverity.WithLabelValues("overall").Set(float64(s.core.Errors.OverallSeverity()))
	}

	if s.persistence != nil {
		wasStorageBad := s.core.Errors.Active(core.SourceStorageIO)
		if err := s.persistence.Write(ctx, result.Log); err != nil {
			s.logger.Error("persistence write failed", "error", err)
			s.core.Errors.Set(core.SourceStorageIO, true, s.core.State.TPowerS)
			s.publishError(event.CriticalSeverity, event.CodePersistenceFail, "persistence", err.Error(), event.SignalDegraded)
		} else {
			s.core.Errors.Set(core.SourceStorageIO, false, s.core.State.TPowerS)
			if wasStorageBad {
				s.publishError(event.InfoSeverity, event.CodePersistenceFail, "persistence", "persistence recovered", event.SignalRecovered)
			}
		}
	}

	if result.CutFiredNow && s.actuator != nil {
		if err := s.actuator.Release(ctx); err != nil {
			s.logger.Error("actuator release failed", "error", err)
		}
		if suppressor, ok := s.uplink.(interface{ Suppress() }); ok {
			suppressor.Suppress()
		}
	}

	if result.LaunchFiredNow {
		s.logger.Info("launch detected", "t_power_s", s.core.State.TPowerS)
		s.publishError(event.InfoSeverity, event.CodeLaunchDetected, "core", "launch latch set", event.SignalNone)
	}
	if result.TerminatedNow {
		s.logger.Info("flight terminated", "t_power_s", s.core.State.TPowerS, "cut_reason", result.CutReason)
		s.publishError(event.InfoSeverity, event.CodeFlightTerminated, "core", "flight terminated, reason="+result.CutReason.String(), event.SignalTerminated)
		if suppressor, ok := s.uplink.(interface{ Suppress() }); ok {
			suppressor.Suppress()
		}
	}
}

// publishError forwards a decision-pipeline transition onto the
// observability error bus, if one is attached. The core itself never
// imports pkg/event; only this supervisory layer does.
func (s *Supervisor) publishError(severity event.ErrorSeverity, code, component, message string, signal event.ControlSignal) {
	if s.errBus == nil {
		return
	}
	s.errBus.Publish(event.NewErrorEvent(severity, code, component, message).WithSignal(signal))
}

// recoverTick catches a panic from one tick's worth of collaborator work
// so a single bad sensor read or storage fault cannot take down the
// entire instrument. It rate-limits crash dumps to one per minute.
func (s *Supervisor) recoverTick(ctx context.Context) {
	r := recover()
	if r == nil {
		return
	}
	stack := debug.Stack()
	s.logger.Error("recovered panic in tick", "panic", r)
	s.publishError(event.CriticalSeverity, event.CodePanic, "tick", fmt.Sprintf("%v", r), event.SignalNone)
	if s.canDumpCrash() {
		s.dumpCrashReport("tick", r, stack)
		if s.metrics != nil {
			s.metrics.CrashDumps.Inc()
		}
	}
}

func (s *Supervisor) canDumpCrash() bool {
	s.crashDumpMu.Lock()
	defer s.crashDumpMu.Unlock()
	now := time.Now()
	if now.Sub(s.lastCrashDump) < time.Minute {
		return false
	}
	s.lastCrashDump = now
	return true
}

func (s *Supervisor) dumpCrashReport(goroutineName string, panicValue any, stack []byte) {
	if err := os.MkdirAll(s.crashDumpDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create crash dump directory: %v\n", err)
		return
	}
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(s.crashDumpDir, fmt.Sprintf("crash_%s_%s.log", timestamp, goroutineName))

	f, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create crash log: %v\n", err)
		return
	}
	defer f.Close()

	s.recorder.Dump(f, goroutineName, panicValue, stack)
	fmt.Fprintf(os.Stderr, "crash report written to: %s\n", filename)
}

// WrapGoroutine runs fn in a new goroutine, recovering any panic into a
// rate-limited crash dump instead of crashing the process, for auxiliary
// background work (config UI server, telemetry beacon sender) that isn't
// part of the tick loop itself.
func (s *Supervisor) WrapGoroutine(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				s.logger.Error("recovered panic in goroutine", "name", name, "panic", r)
				s.publishError(event.CriticalSeverity, event.CodePanic, name, fmt.Sprintf("%v", r), event.SignalNone)
				if s.canDumpCrash() {
					s.dumpCrashReport(name, r, stack)
					if s.metrics != nil {
						s.metrics.CrashDumps.Inc()
					}
				}
			}
		}()
		fn()
	}()
}

// BootTime returns when this Supervisor was constructed, the basis for
// the uptime gauge reported once per due tick.
func (s *Supervisor) BootTime() time.Time { return s.bootTime }
