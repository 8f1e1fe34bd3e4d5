// Package bench simulates an interactive owner that keeps editing its input while
// background recomputations are in flight, and reports what the dispatcher did.
package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ygrebnov/dispatch"
	"github.com/ygrebnov/dispatch/executor"
	"github.com/ygrebnov/dispatch/mainthread"
	"github.com/ygrebnov/dispatch/metrics"
)

// steps is how many progress reports a simulated job makes.
const steps = 10

// Summary is what one session produced.
type Summary struct {
	Policy    dispatch.Policy
	Edits     int
	Delivered int
	Failed    int
	Shown     int

	Submitted int64
	Completed int64
	Cancelled int64
	Discarded int64
	Jobs      int64

	MeanBatch time.Duration
	Elapsed   time.Duration
}

// owner is the simulated component. Its fields are touched only on the loop goroutine.
type owner struct {
	d         *dispatch.Dispatcher
	delivered int
	failed    int
}

// Run plays cfg.Edits edits against a Dispatcher. The calling goroutine becomes the
// owner goroutine until the dispatcher is idle again.
func Run(ctx context.Context, cfg Config, log *zap.Logger) (Summary, error) {
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}
	policy, _ := dispatch.ParsePolicy(cfg.Policy)

	var exec executor.Executor
	if cfg.Workers > 0 {
		fixed := executor.NewFixed(cfg.Workers)
		defer fixed.Close()
		exec = fixed
	} else {
		exec = executor.NewDynamic()
	}

	loop := mainthread.NewLoop()
	mp := metrics.NewBasicProvider()
	bar := &countingBar{}
	o := &owner{}

	d, err := dispatch.New(
		dispatch.WithMainThread(loop),
		dispatch.WithExecutor(exec),
		dispatch.WithPolicy(policy),
		dispatch.WithDelay(cfg.Delay),
		dispatch.WithLogger(log),
		dispatch.WithMetrics(mp),
		dispatch.WithProgressBar(bar),
		dispatch.WithErrorHandler(func(err error) {
			o.failed++
			idx, _ := dispatch.ExtractJobIndex(err)
			log.Warn("recompute failed", zap.Int("job", idx), zap.Error(err))
		}),
	)
	if err != nil {
		return Summary{}, err
	}
	o.d = d

	log.Info("session started",
		zap.Stringer("policy", policy),
		zap.Int("edits", cfg.Edits),
		zap.Int("jobs", cfg.Jobs),
		zap.Int("workers", cfg.Workers),
	)

	runCtx, finish := context.WithCancel(ctx)
	defer finish()

	start := time.Now()
	go drive(runCtx, finish, loop, o, cfg)

	err = loop.Run(runCtx)
	elapsed := time.Since(start)
	loop.Close()
	d.Close()

	if ctx.Err() != nil {
		return Summary{}, ctx.Err()
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return Summary{}, err
	}

	s := Summary{
		Policy:    policy,
		Edits:     cfg.Edits,
		Delivered: o.delivered,
		Failed:    o.failed,
		Shown:     bar.shown,
		Submitted: mp.CounterValue(dispatch.MetricBatchesSubmitted),
		Completed: mp.CounterValue(dispatch.MetricBatchesCompleted),
		Cancelled: mp.CounterValue(dispatch.MetricBatchesCancelled),
		Discarded: mp.CounterValue(dispatch.MetricBatchesDiscarded),
		Jobs:      mp.CounterValue(dispatch.MetricJobsSubmitted),
		Elapsed:   elapsed,
	}
	if h, ok := mp.HistogramSnapshot(dispatch.MetricBatchDuration); ok && h.Count > 0 {
		s.MeanBatch = time.Duration(h.Mean * float64(time.Second))
	}
	log.Info("session finished",
		zap.Int("delivered", s.Delivered), zap.Int("failed", s.Failed), zap.Duration("elapsed", elapsed))
	return s, nil
}

// drive posts the edits to the owner loop, then waits for the dispatcher to go idle
// and stops the loop.
func drive(ctx context.Context, finish context.CancelFunc, loop *mainthread.Loop, o *owner, cfg Config) {
	defer finish()

	for i := 0; i < cfg.Edits; i++ {
		loop.Post(func() { o.edit(i, cfg) })
		if !sleep(ctx, cfg.Interval) {
			return
		}
	}

	for {
		idle := false
		loop.Call(func() { idle = !o.d.HasJobs() && !o.d.Pending() })
		if idle || !sleep(ctx, 10*time.Millisecond) {
			return
		}
	}
}

// edit runs on the owner goroutine and dispatches one recomputation.
func (o *owner) edit(n int, cfg Config) {
	fail := cfg.FailEvery > 0 && (n+1)%cfg.FailEvery == 0

	jobs := make([]dispatch.Job[int], cfg.Jobs)
	for i := range jobs {
		jobs[i] = func(stop dispatch.Stop, p dispatch.Progress) (int, error) {
			for k := 1; k <= steps; k++ {
				if stop.Stopped() {
					return 0, nil
				}
				time.Sleep(cfg.JobDuration / steps)
				p.Step(k, steps)
			}
			if fail && i == 0 {
				return 0, fmt.Errorf("%w: edit %d", ErrEditFailed, n)
			}
			return n*100 + i, nil
		}
	}

	_ = dispatch.DispatchMany(o.d, jobs, func([]int) {
		o.delivered++
	})
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// countingBar is the simulated owner's progress indicator.
type countingBar struct {
	shown int
}

func (b *countingBar) SetActive(bool) {}
func (b *countingBar) Show()          { b.shown++ }
func (b *countingBar) Hide()          {}
func (b *countingBar) Update(float32) {}
