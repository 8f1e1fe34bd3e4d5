package dispatch

import (
	"time"

	"github.com/ygrebnov/errorc"
	"go.uber.org/zap"

	"github.com/ygrebnov/dispatch/executor"
	"github.com/ygrebnov/dispatch/mainthread"
	"github.com/ygrebnov/dispatch/metrics"
)

// DefaultDelay is the quiet period used by DelayDispatch unless WithDelay overrides it.
const DefaultDelay = 500 * time.Millisecond

// config holds Dispatcher configuration.
type config struct {
	// policy selects the dispatch flags.
	// Default: 0 (cancel old batches, submit immediately)
	policy Policy

	// delay is the DelayDispatch quiet period.
	// Default: DefaultDelay
	delay time.Duration

	// executor runs the wrapped jobs.
	// Default: executor.NewDynamic()
	executor executor.Executor

	// mainThread runs finalization and progress refreshes on the owner goroutine.
	// Required.
	mainThread mainthread.Scheduler

	logger      *zap.Logger
	metrics     metrics.Provider
	progressBar ProgressBar

	// owner hooks; all optional
	handleError   func(error)
	resetOutputs  func()
	notifyResults func()
}

func defaultConfig() config {
	return config{
		policy:      0,
		delay:       DefaultDelay,
		logger:      zap.NewNop(),
		metrics:     metrics.NewNoopProvider(),
		progressBar: noopProgressBar{},
	}
}

func validateConfig(cfg *config) error {
	if cfg.mainThread == nil {
		return errorc.With(ErrInvalidConfig, errorc.String("main_thread", "required, use WithMainThread"))
	}
	if cfg.delay <= 0 {
		return errorc.With(ErrInvalidConfig, errorc.String("delay", cfg.delay.String()))
	}
	return nil
}

// Option configures a Dispatcher.
type Option func(*config) error

// WithPolicy sets the dispatch policy flags.
func WithPolicy(p Policy) Option {
	return func(cfg *config) error {
		if p&^allPolicies != 0 {
			return errorc.With(ErrInvalidPolicy, errorc.String("policy", p.String()))
		}
		cfg.policy = p
		return nil
	}
}

// WithDelay sets the DelayDispatch quiet period (must be > 0).
func WithDelay(d time.Duration) Option {
	return func(cfg *config) error {
		if d <= 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("delay", d.String()))
		}
		cfg.delay = d
		return nil
	}
}

// WithExecutor sets the executor jobs run on.
func WithExecutor(e executor.Executor) Option {
	return func(cfg *config) error {
		if e == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("executor", "nil"))
		}
		cfg.executor = e
		return nil
	}
}

// WithMainThread sets the scheduler for the owner goroutine.
func WithMainThread(s mainthread.Scheduler) Option {
	return func(cfg *config) error {
		if s == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("main_thread", "nil"))
		}
		cfg.mainThread = s
		return nil
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *config) error {
		if l == nil {
			l = zap.NewNop()
		}
		cfg.logger = l
		return nil
	}
}

// WithMetrics sets the metrics provider.
func WithMetrics(p metrics.Provider) Option {
	return func(cfg *config) error {
		if p == nil {
			p = metrics.NewNoopProvider()
		}
		cfg.metrics = p
		return nil
	}
}

// WithProgressBar connects the owner's progress indicator.
func WithProgressBar(pb ProgressBar) Option {
	return func(cfg *config) error {
		if pb == nil {
			pb = noopProgressBar{}
		}
		cfg.progressBar = pb
		return nil
	}
}

// WithErrorHandler replaces the default error handling (log, then reset outputs).
// fn runs on the owner goroutine.
func WithErrorHandler(fn func(error)) Option {
	return func(cfg *config) error { cfg.handleError = fn; return nil }
}

// WithOutputsReset sets the hook the default error handler uses to clear the
// owner's published outputs.
func WithOutputsReset(fn func()) Option {
	return func(cfg *config) error { cfg.resetOutputs = fn; return nil }
}

// WithResultsNotifier sets the hook that tells downstream consumers the owner has
// new (or invalidated) outputs.
func WithResultsNotifier(fn func()) Option {
	return func(cfg *config) error { cfg.notifyResults = fn; return nil }
}
