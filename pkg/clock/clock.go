package clock

import "time"

// MonoTime represents a monotonic timestamp in nanoseconds since an arbitrary epoch.
// Using int64 provides ~292 years of range with nanosecond precision.
type MonoTime int64

// Clock is the wall-clock source the supervisory layer samples once per
// tick period to derive the free-running millisecond value core.Scheduler
// expects (section 5). The decision pipeline itself never touches a
// Clock directly: it only ever sees the uint32 millisecond the caller
// derived from one, which is what keeps it deterministic and testable
// without a real clock.
type Clock interface {
	// Now returns the current monotonic time
	Now() MonoTime

	// Since returns the duration elapsed since the given monotonic time
	Since(t MonoTime) time.Duration
}

// ToDuration converts a MonoTime (nanoseconds) to a time.Duration.
func ToDuration(ns MonoTime) time.Duration {
	return time.Duration(ns)
}

// FromDuration converts a time.Duration to MonoTime (nanoseconds).
func FromDuration(d time.Duration) MonoTime {
	return MonoTime(d.Nanoseconds())
}

// ToUnixNano converts MonoTime to Unix nanoseconds (for external timestamps).
// Note: this assumes the MonoTime epoch aligns with the Unix epoch, which
// SystemClock's epoch (time.Now() at construction) does not guarantee.
func ToUnixNano(m MonoTime) int64 {
	return int64(m)
}

// FromUnixNano converts Unix nanoseconds to MonoTime.
func FromUnixNano(unixNano int64) MonoTime {
	return MonoTime(unixNano)
}

// SystemClock uses the system's monotonic clock. It is the Clock
// pkg/instrument.Supervisor constructs by default; tests substitute a
// fake Clock to drive the tick loop without sleeping.

type SystemClock struct {
	epoch time.Time // Cached at creation to provide stable monotonic base
}

// NewSystemClock creates a new SystemClock anchored at the current time.
func NewSystemClock() *SystemClock {
	return &SystemClock{
		epoch: time.Now(),
	}
}

// Now returns the current monotonic time in nanoseconds since epoch.
func (s *SystemClock) Now() MonoTime {
	// Use time.Since which leverages monotonic clock internally
	elapsed := time.Since(s.epoch)
	return FromDuration(elapsed)
}

// Since returns the duration elapsed since the given monotonic time.
func (s *SystemClock) Since(t MonoTime) time.Duration {
	return ToDuration(s.Now() - t)
}
