package bench

import (
	"fmt"
	"time"

	"github.com/creasty/defaults"
	"github.com/spf13/viper"
	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/dispatch"
)

// Config describes one simulated editing session.
//
//	┌──────────────┬─────────┬───────────────────────────────────────────────┐
//	│ Key          │ Default │ Description                                   │
//	├──────────────┼─────────┼───────────────────────────────────────────────┤
//	│ policy       │ ""      │ dispatch policy flags, e.g. "queued,delay"    │
//	│ edits        │ 20      │ parameter edits to simulate                   │
//	│ interval     │ 50ms    │ pause between edits                           │
//	│ jobs         │ 4       │ jobs dispatched per edit                      │
//	│ job-duration │ 100ms   │ time one job takes                            │
//	│ workers      │ 0       │ executor workers; 0 starts one per job        │
//	│ delay        │ 500ms   │ DelayDispatch quiet period                    │
//	│ fail-every   │ 0       │ every n-th edit fails; 0 never                │
//	│ log-format   │ "dev"   │ "dev" or "json"                               │
//	└──────────────┴─────────┴───────────────────────────────────────────────┘
type Config struct {
	Policy      string        `mapstructure:"policy" default:""`
	Edits       int           `mapstructure:"edits" default:"20"`
	Interval    time.Duration `mapstructure:"interval" default:"50ms"`
	Jobs        int           `mapstructure:"jobs" default:"4"`
	JobDuration time.Duration `mapstructure:"job-duration" default:"100ms"`
	Workers     int           `mapstructure:"workers" default:"0"`
	Delay       time.Duration `mapstructure:"delay" default:"500ms"`
	FailEvery   int           `mapstructure:"fail-every" default:"0"`
	LogFormat   string        `mapstructure:"log-format" default:"dev"`
}

// NewConfig returns a Config holding the defaults.
func NewConfig() Config {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		panic(fmt.Sprintf("bench: invalid default tags: %v", err))
	}
	return cfg
}

// Load reads v on top of the defaults and validates the result.
func Load(v *viper.Viper) (Config, error) {
	cfg := NewConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errorc.With(ErrInvalidConfig, errorc.String("decode", err.Error()))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and parses the policy.
func (c Config) Validate() error {
	if _, err := dispatch.ParsePolicy(c.Policy); err != nil {
		return err
	}
	switch {
	case c.Edits < 1:
		return errorc.With(ErrInvalidConfig, errorc.String("edits", fmt.Sprint(c.Edits)))
	case c.Jobs < 0:
		return errorc.With(ErrInvalidConfig, errorc.String("jobs", fmt.Sprint(c.Jobs)))
	case c.Workers < 0:
		return errorc.With(ErrInvalidConfig, errorc.String("workers", fmt.Sprint(c.Workers)))
	case c.FailEvery < 0:
		return errorc.With(ErrInvalidConfig, errorc.String("fail-every", fmt.Sprint(c.FailEvery)))
	case c.Interval < 0 || c.JobDuration < 0:
		return errorc.With(ErrInvalidConfig, errorc.String("duration", "must not be negative"))
	case c.Delay <= 0:
		return errorc.With(ErrInvalidConfig, errorc.String("delay", c.Delay.String()))
	case c.LogFormat != "dev" && c.LogFormat != "json":
		return errorc.With(ErrInvalidConfig, errorc.String("log-format", c.LogFormat))
	}
	return nil
}
