// Package fileconfig implements the ConfigSource collaborator by reading
// a YAML configuration file from disk, grounded on the corpus's
// file-plus-yaml.v3 configuration pattern. Any load or validation
// failure falls back to core.DefaultConfig, per section 4.11 and 6.
package fileconfig

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/highaltitude/cutdown/pkg/core"
)

// document is the on-disk YAML shape. Field names are chosen to read
// naturally in a flight-profile file; Load maps them onto core.SystemConfig.
type document struct {
	SerialNumber           uint32 `yaml:"serial_number"`
	RequireLaunchBeforeCut bool   `yaml:"require_launch_before_cut"`
	RequireGPSFixBeforeCut bool   `yaml:"require_gps_fix_before_cut"`

	BucketA []conditionDoc `yaml:"bucket_a"`
	BucketB []conditionDoc `yaml:"bucket_b"`

	ExternalInputs [2]struct {
		Enabled    bool   `yaml:"enabled"`
		ActiveHigh bool   `yaml:"active_high"`
		DebounceMs uint32 `yaml:"debounce_ms"`
	} `yaml:"external_inputs"`

	RemoteCut struct {
		Enabled bool   `yaml:"enabled"`
		Token   string `yaml:"token"`
	} `yaml:"remote_cut"`

	Termination struct {
		Enabled         bool    `yaml:"enabled"`
		UseGPS          bool    `yaml:"use_gps"`
		GPSDropM        float32 `yaml:"gps_drop_m"`
		UsePressure     bool    `yaml:"use_pressure"`
		PressureRiseHPa float32 `yaml:"pressure_rise_hpa"`
		SustainS        uint16  `yaml:"sustain_s"`
	} `yaml:"termination"`

	Telemetry struct {
		GroundIntervalS  uint32 `yaml:"ground_interval_s"`
		AscentIntervalS  uint32 `yaml:"ascent_interval_s"`
		DescentIntervalS uint32 `yaml:"descent_interval_s"`
		BeaconIntervalS  uint32 `yaml:"beacon_interval_s"`
		DescentDurationS uint32 `yaml:"descent_duration_s"`
	} `yaml:"telemetry"`
}

type conditionDoc struct {
	Enabled    bool    `yaml:"enabled"`
	VarID      int     `yaml:"var_id"`
	Op         string  `yaml:"op"`
	Threshold  float32 `yaml:"threshold"`
	ForSeconds uint16  `yaml:"for_seconds"`
}

var opNames = map[string]core.CompareOp{
	"<":  core.OpLT,
	"<=": core.OpLE,
	"=":  core.OpEQ,
	">=": core.OpGE,
	">":  core.OpGT,
}

// invalidOp is returned for any unrecognized operator string so that an
// unparseable condition fails Validate rather than silently becoming "<".
const invalidOp core.CompareOp = -1

func parseOp(s string) core.CompareOp {
	if op, ok := opNames[s]; ok {
		return op
	}
	return invalidOp
}

// Source loads SystemConfig from a YAML file on disk.
type Source struct {
	Path string
}

// New returns a Source reading from the given path.
func New(path string) *Source {
	return &Source{Path: path}
}

// Load reads and parses the configuration file and validates it against
// core.SystemConfig.Validate. On any read, parse, or validation error it
// returns core.DefaultConfig() alongside the error, so callers that
// ignore the error still get a safe posture.
func (s *Source) Load(ctx context.Context) (core.SystemConfig, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return core.DefaultConfig(), fmt.Errorf("fileconfig: read %s: %w", s.Path, err)
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return core.DefaultConfig(), fmt.Errorf("fileconfig: parse %s: %w", s.Path, err)
	}

	cfg := core.SystemConfig{
		SerialNumber:           doc.SerialNumber,
		RequireLaunchBeforeCut: doc.RequireLaunchBeforeCut,
		RequireGPSFixBeforeCut: doc.RequireGPSFixBeforeCut,
		BucketA:                toConditions(doc.BucketA),
		BucketB:                toConditions(doc.BucketB),
		RemoteCut: core.RemoteCutConfig{
			Enabled: doc.RemoteCut.Enabled,
			Token:   doc.RemoteCut.Token,
		},
		Termination: core.TerminationConfig{
			Enabled:         doc.Termination.Enabled,
			UseGPS:          doc.Termination.UseGPS,
			GPSDropM:        doc.Termination.GPSDropM,
			UsePressure:     doc.Termination.UsePressure,
			PressureRiseHPa: doc.Termination.PressureRiseHPa,
			SustainS:        doc.Termination.SustainS,
		},
		Telemetry: core.TelemetryCadenceConfig{
			GroundIntervalS:  doc.Telemetry.GroundIntervalS,
			AscentIntervalS:  doc.Telemetry.AscentIntervalS,
			DescentIntervalS: doc.Telemetry.DescentIntervalS,
			BeaconIntervalS:  doc.Telemetry.BeaconIntervalS,
			DescentDurationS: doc.Telemetry.DescentDurationS,
		},
	}
	for i, in := range doc.ExternalInputs {
		cfg.ExternalInputs[i] = core.ExternalInputConfig{
			Enabled:    in.Enabled,
			ActiveHigh: in.ActiveHigh,
			DebounceMs: in.DebounceMs,
		}
	}

	if err := cfg.Validate(); err != nil {
		return core.DefaultConfig(), fmt.Errorf("fileconfig: invalid configuration: %w", err)
	}
	return cfg, nil
}

func toConditions(docs []conditionDoc) []core.Condition {
	if len(docs) == 0 {
		return nil
	}
	out := make([]core.Condition, len(docs))
	for i, d := range docs {
		out[i] = core.Condition{
			Enabled:    d.Enabled,
			VarID:      core.VariableID(d.VarID),
			Op:         parseOp(d.Op),
			Threshold:  d.Threshold,
			ForSeconds: d.ForSeconds,
		}
	}
	return out
}
