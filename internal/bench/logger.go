package bench

import (
	"go.uber.org/zap"

	"github.com/ygrebnov/errorc"
)

// NewLogger builds a development (console) or production (JSON) logger.
func NewLogger(format string, debug bool) (*zap.Logger, error) {
	var cfg zap.Config
	switch format {
	case "dev":
		cfg = zap.NewDevelopmentConfig()
	case "json":
		cfg = zap.NewProductionConfig()
	default:
		return nil, errorc.With(ErrInvalidConfig, errorc.String("log-format", format))
	}
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
