package core

import "fmt"

// SystemConfig is the full set of typed settings loaded at boot and
// consumed by every other core component (section 3). It is read-only
// during flight; mutation only happens through the config UI collaborator,
// which always reboots on exit (section 5), so the core never observes a
// mid-flight configuration change.
type SystemConfig struct {
	SerialNumber uint32

	RequireLaunchBeforeCut bool
	RequireGPSFixBeforeCut bool

	BucketA []Condition
	BucketB []Condition

	ExternalInputs [2]ExternalInputConfig
	RemoteCut      RemoteCutConfig
	Termination    TerminationConfig
	Telemetry      TelemetryCadenceConfig
}

// DefaultConfig returns the safe-default configuration section 4.11 and
// section 6 call for when a loaded configuration fails validation: cut
// rules disabled, external input 0 enabled active-high with 50ms
// debounce, remote cut disabled, launch required, fix not required.
func DefaultConfig() SystemConfig {
	return SystemConfig{
		SerialNumber:           0,
		RequireLaunchBeforeCut: true,
		RequireGPSFixBeforeCut: false,
		BucketA:                nil,
		BucketB:                nil,
		ExternalInputs: [2]ExternalInputConfig{
			{Enabled: true, ActiveHigh: true, DebounceMs: 50},
			{Enabled: false, ActiveHigh: true, DebounceMs: 50},
		},
		RemoteCut: RemoteCutConfig{Enabled: false},
		Termination: TerminationConfig{
			Enabled:         true,
			UseGPS:          true,
			GPSDropM:        60,
			UsePressure:     true,
			PressureRiseHPa: 3,
			SustainS:        15,
		},
		Telemetry: TelemetryCadenceConfig{
			GroundIntervalS:  60,
			AscentIntervalS:  30,
			DescentIntervalS: 15,
			BeaconIntervalS:  120,
			DescentDurationS: 600,
		},
	}
}

// Validate checks every constraint from section 6. It returns the first
// violation found; callers (the configuration collaborator) are expected
// to fall back to DefaultConfig on any error, per section 4.11.
func (c *SystemConfig) Validate() error {
	if c.SerialNumber > 9_999_999 {
		return fmt.Errorf("core: serial number %d exceeds 9,999,999", c.SerialNumber)
	}

	if err := validateConditions("bucket A", c.BucketA); err != nil {
		return err
	}
	if err := validateConditions("bucket B", c.BucketB); err != nil {
		return err
	}

	if err := validateInterval("ground", c.Telemetry.GroundIntervalS); err != nil {
		return err
	}
	if err := validateInterval("ascent", c.Telemetry.AscentIntervalS); err != nil {
		return err
	}
	if err := validateInterval("descent", c.Telemetry.DescentIntervalS); err != nil {
		return err
	}
	if err := validateInterval("beacon", c.Telemetry.BeaconIntervalS); err != nil {
		return err
	}
	if c.Telemetry.DescentDurationS != 0 && c.Telemetry.DescentDurationS < 10 {
		return fmt.Errorf("core: descent_duration_s must be 0 or >= 10, got %d", c.Telemetry.DescentDurationS)
	}

	if len(c.RemoteCut.Token) == 0 && c.RemoteCut.Enabled {
		return fmt.Errorf("core: remote cut enabled with empty token")
	}

	return nil
}

func validateConditions(label string, conds []Condition) error {
	if len(conds) > MaxConditionsPerBucket {
		return fmt.Errorf("core: %s has %d conditions, max %d", label, len(conds), MaxConditionsPerBucket)
	}
	for i, c := range conds {
		if int(c.VarID) < 0 || int(c.VarID) >= NumVariables {
			return fmt.Errorf("core: %s condition %d: var_id %d out of range", label, i, c.VarID)
		}
		if c.Op < OpLT || c.Op > OpGT {
			return fmt.Errorf("core: %s condition %d: invalid op %d", label, i, c.Op)
		}
		if isNonFinite32(c.Threshold) {
			return fmt.Errorf("core: %s condition %d: threshold not finite", label, i)
		}
		if c.VarID == VarGPSLatDeg && (c.Threshold < -90 || c.Threshold > 90) {
			return fmt.Errorf("core: %s condition %d: latitude threshold out of [-90,90]", label, i)
		}
		if c.VarID == VarGPSLonDeg && (c.Threshold < -180 || c.Threshold > 180) {
			return fmt.Errorf("core: %s condition %d: longitude threshold out of [-180,180]", label, i)
		}
		if c.VarID == VarHumidityPct && (c.Threshold < 0 || c.Threshold > 100) {
			return fmt.Errorf("core: %s condition %d: humidity threshold out of [0,100]", label, i)
		}
	}
	return nil
}

func validateInterval(label string, s uint32) error {
	if s == 0 {
		return nil
	}
	const week uint32 = 7 * 24 * 3600
	if s < 10 || s > week {
		return fmt.Errorf("core: %s telemetry interval %ds out of [10s, 7d]", label, s)
	}
	return nil
}
