package instrument

import (
	"context"
	"log/slog"

	"github.com/highaltitude/cutdown/pkg/collab"
	"github.com/highaltitude/cutdown/pkg/core"
)

// Boot loads configuration from src, validates it, and falls back to
// core.DefaultConfig on any failure - the same safe-default posture
// section 4.11 requires of the configuration collaborator. It returns a
// ready-to-run core.Core alongside the config actually in effect.
func Boot(ctx context.Context, src collab.ConfigSource, logger *slog.Logger) (*core.Core, core.SystemConfig) {
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := src.Load(ctx)
	if err != nil {
		logger.Warn("config load failed, falling back to defaults", "error", err)
		cfg = core.DefaultConfig()
	} else if verr := cfg.Validate(); verr != nil {
		logger.Warn("loaded config failed validation, falling back to defaults", "error", verr)
		cfg = core.DefaultConfig()
	}

	return core.New(cfg), cfg
}
