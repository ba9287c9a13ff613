package instrument

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instrumentation for a running Supervisor,
// adapted from the corpus's telemetry.Metrics: gauges and counters for
// flight decision state instead of event-bus throughput.
type Metrics struct {
	FlightState    prometheus.Gauge
	SystemMode     prometheus.Gauge
	LaunchDetected prometheus.Gauge
	CutFired       prometheus.Gauge
	Terminated     prometheus.Gauge
	CutReason      *prometheus.GaugeVec

	PeakAltM       prometheus.Gauge
	MinPressureHPa prometheus.Gauge
	DescentCountS  prometheus.Gauge
	TPowerS        prometheus.Gauge
	TLaunchS       prometheus.Gauge

	SchedulerCatchUpS prometheus.Counter
	TicksProcessed    prometheus.Counter

	ErrorSeverity *prometheus.GaugeVec

	CrashDumps prometheus.Counter

	UptimeSeconds prometheus.Gauge
}

// NewMetrics registers flight instrumentation against registry. Pass nil
// to use the default Prometheus registerer.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	f := promauto.With(registry)

	return &Metrics{
		FlightState: f.NewGauge(prometheus.GaugeOpts{
			Name: "cutdown_flight_state",
			Help: "Current flight state: 0=Ground, 1=InFlight, 2=Terminated",
		}),
		SystemMode: f.NewGauge(prometheus.GaugeOpts{
			Name: "cutdown_system_mode",
			Help: "Current system mode: 0=Normal, 1=Config",
		}),
		LaunchDetected: f.NewGauge(prometheus.GaugeOpts{
			Name: "cutdown_launch_detected",
			Help: "1 once the launch latch has set",
		}),
		CutFired: f.NewGauge(prometheus.GaugeOpts{
			Name: "cutdown_cut_fired",
			Help: "1 once the release has fired",
		}),
		Terminated: f.NewGauge(prometheus.GaugeOpts{
			Name: "cutdown_terminated",
			Help: "1 once the flight has been marked terminated",
		}),
		CutReason: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cutdown_cut_reason",
			Help: "1 on the gauge matching the active cut_reason label, 0 otherwise",
		}, []string{"reason"}),
		PeakAltM: f.NewGauge(prometheus.GaugeOpts{
			Name: "cutdown_peak_alt_m",
			Help: "Highest GPS altitude observed since launch, meters",
		}),
		MinPressureHPa: f.NewGauge(prometheus.GaugeOpts{
			Name: "cutdown_min_pressure_hpa",
			Help: "Lowest barometric pressure observed since launch, hPa",
		}),
		DescentCountS: f.NewGauge(prometheus.GaugeOpts{
			Name: "cutdown_descent_count_s",
			Help: "Consecutive seconds of sustained descent observed by the termination detector",
		}),
		TPowerS: f.NewGauge(prometheus.GaugeOpts{
			Name: "cutdown_t_power_s",
			Help: "Seconds since power-on",
		}),
		TLaunchS: f.NewGauge(prometheus.GaugeOpts{
			Name: "cutdown_t_launch_s",
			Help: "Seconds since launch detection",
		}),
		SchedulerCatchUpS: f.NewCounter(prometheus.CounterOpts{
			Name: "cutdown_scheduler_catchup_seconds_total",
			Help: "Total seconds of scheduler catch-up applied after stalls",
		}),
		TicksProcessed: f.NewCounter(prometheus.CounterOpts{
			Name: "cutdown_ticks_processed_total",
			Help: "Total number of due ticks processed",
		}),
		ErrorSeverity: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cutdown_error_severity",
			Help: "Overall sticky error severity: 0=None, 1=Warn, 2=Critical",
		}, []string{"source"}),
		CrashDumps: f.NewCounter(prometheus.CounterOpts{
			Name: "cutdown_crash_dumps_total",
			Help: "Total number of crash reports written by a recovered panic",
		}),
		UptimeSeconds: f.NewGauge(prometheus.GaugeOpts{
			Name: "cutdown_uptime_seconds",
			Help: "Wall-clock seconds since the supervisor was constructed",
		}),
	}
}

// Observe updates every gauge from the current runtime state and the
// most recent tick result. Called once per due tick by the Supervisor.
func (m *Metrics) Observe(flightState int, systemMode int, launchDetected, cutFired, terminated bool, cutReason string, peakAltM, minPressureHPa float64, descentCountS, tPowerS, tLaunchS uint64) {
	m.FlightState.Set(float64(flightState))
	m.SystemMode.Set(float64(systemMode))
	m.LaunchDetected.Set(boolToFloat(launchDetected))
	m.CutFired.Set(boolToFloat(cutFired))
	m.Terminated.Set(boolToFloat(terminated))
	m.PeakAltM.Set(peakAltM)
	m.MinPressureHPa.Set(minPressureHPa)
	m.DescentCountS.Set(float64(descentCountS))
	m.TPowerS.Set(float64(tPowerS))
	m.TLaunchS.Set(float64(tLaunchS))

	for _, reason := range []string{"None", "BucketLogic", "ExternalInput", "IridiumRemote", "Manual"} {
		v := 0.0
		if reason == cutReason {
			v = 1.0
		}
		m.CutReason.WithLabelValues(reason).Set(v)
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
