// Package collab defines the typed boundary between the deterministic
// core and the outside world (section 6): pull-based sources the
// instrument layer samples once per tick, and push-based sinks it drives
// after a tick completes. Every interface here is implemented by an
// adapter- or emitter-shaped collaborator in a subpackage; the core
// never imports collab or any of its implementations.
package collab

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/highaltitude/cutdown/pkg/core"
)

// Common errors collaborators may return, mirroring the narrow
// permission/availability failure modes a sensor or actuator driver
// actually hits.
var (
	ErrPermissionDenied = errors.New("collab: permission denied - check access rights")
	ErrDeviceNotFound   = errors.New("collab: device/source not found")
	ErrAlreadyStarted   = errors.New("collab: already started")
	ErrNotStarted       = errors.New("collab: not started")
)

// SensorSource is pulled once per tick for the raw values a Readings
// snapshot is built from, plus each external input's debounce
// configuration. The debounce accumulators persist across ticks with the
// caller (the instrument Supervisor hands its own to core.Core.Tick).
type SensorSource interface {
	// Sample returns the current raw sensor values and per-input debounce
	// configuration at the given tick time.
	Sample(ctx context.Context, nowMs uint32) (core.SensorRaw, [2]core.InputDebounceConfig, error)
}

// ConfigSource is pulled at boot, and again after any Config-mode reboot.
type ConfigSource interface {
	Load(ctx context.Context) (core.SystemConfig, error)
}

// UplinkSource is pulled at most once per tick and yields a single-shot
// remote-cut edge. Implementations own all serial/token authorization and
// must suppress the edge once cut_fired or terminated, per section 6.
type UplinkSource interface {
	PollRemoteCut(ctx context.Context) (requested bool, err error)
}

// ActuatorSink receives the release latch's Lock/Release/Wiggle commands.
type ActuatorSink interface {
	Lock(ctx context.Context) error
	Release(ctx context.Context) error
	Wiggle(ctx context.Context) error
}

// PersistenceSink receives one LogRecord per tick.
type PersistenceSink interface {
	Write(ctx context.Context, rec core.LogRecord) error
}

// remoteCutPattern matches the section 6 command grammar: ASCII
// "CUT,<serial>,<token>", case-insensitive on the literal CUT, with
// optional trailing whitespace. Any deviation is rejected silently.
var remoteCutPattern = regexp.MustCompile(`(?i)^CUT,([0-9]+),(.+?)\s*$`)

// ParseRemoteCutCommand validates a raw uplink command line against this
// device's serial number and configured token. It never returns an error;
// a malformed or mismatched command is simply not granted, matching the
// spec's "rejected silently" boundary behavior.
func ParseRemoteCutCommand(line string, serialNumber uint32, token string) (granted bool) {
	m := remoteCutPattern.FindStringSubmatch(strings.TrimRight(line, " \t\r\n\v\f"))
	if m == nil {
		return false
	}
	serial, err := strconv.ParseUint(m[1], 10, 32)
	if err != nil {
		return false
	}
	return uint32(serial) == serialNumber && m[2] == token
}
