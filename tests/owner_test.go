package tests

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/dispatch"
	"github.com/ygrebnov/dispatch/executor"
	"github.com/ygrebnov/dispatch/mainthread"
)

// surface is a stand-in owner: a component that keeps its published output on the
// owner goroutine and recomputes it in the background whenever its input changes.
type surface struct {
	d    *dispatch.Dispatcher
	loop *mainthread.Loop

	// touched only on the owner goroutine
	output      []int
	revisions   int
	failures    []error
	resets      int
	invalidated int
}

func newSurface(t *testing.T, exec executor.Executor, opts ...dispatch.Option) *surface {
	t.Helper()

	s := &surface{loop: mainthread.NewLoop()}
	base := []dispatch.Option{
		dispatch.WithMainThread(s.loop),
		dispatch.WithExecutor(exec),
		dispatch.WithErrorHandler(func(err error) { s.failures = append(s.failures, err) }),
		dispatch.WithOutputsReset(func() { s.resets++ }),
		dispatch.WithResultsNotifier(func() { s.invalidated++ }),
	}
	d, err := dispatch.New(append(base, opts...)...)
	require.NoError(t, err)
	s.d = d

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.loop.Run(ctx)
	}()

	t.Cleanup(func() {
		s.loop.Call(s.d.Close)
		cancel()
		wg.Wait()
	})
	return s
}

// onOwner runs fn on the owner goroutine and waits for it.
func (s *surface) onOwner(fn func()) { s.loop.Call(fn) }

// recompute dispatches one job per cell; each squares its input.
func (s *surface) recompute(t *testing.T, cells []int, work func(i, v int)) {
	t.Helper()

	jobs := make([]func(dispatch.Stop, dispatch.Progress) (int, error), len(cells))
	for i, v := range cells {
		jobs[i] = func(stop dispatch.Stop, p dispatch.Progress) (int, error) {
			if work != nil {
				work(i, v)
			}
			if stop.Stopped() {
				return 0, nil
			}
			p.Report(1)
			return v * v, nil
		}
	}

	var err error
	s.onOwner(func() {
		err = dispatch.DispatchMany(s.d, jobs, func(out []int) {
			s.output = out
			s.revisions++
		})
	})
	require.NoError(t, err)
}

// snapshot copies the owner state on the owner goroutine.
func (s *surface) snapshot() (output []int, revisions int, failures []error) {
	s.onOwner(func() {
		output = append([]int(nil), s.output...)
		revisions = s.revisions
		failures = append([]error(nil), s.failures...)
	})
	return output, revisions, failures
}

func (s *surface) idle() bool {
	var idle bool
	s.onOwner(func() { idle = !s.d.HasJobs() && !s.d.Pending() })
	return idle
}
