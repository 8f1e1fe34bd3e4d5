package dispatch

import (
	"fmt"
)

// Job is the canonical job shape. Jobs receive their batch's Stop and their own
// Progress and return a result or an error.
//
// Job bodies run on executor goroutines and may outlive the Dispatcher. They must
// capture their inputs by value and never touch owner state.
type Job[R any] func(Stop, Progress) (R, error)

// JobShape lists the function shapes DispatchOne and DispatchMany accept. Jobs that
// accept a Progress make the owner's progress bar visible.
type JobShape[R any] interface {
	func() R |
		func() (R, error) |
		func(Stop) R |
		func(Stop) (R, error) |
		func(Progress) R |
		func(Progress) (R, error) |
		func(Stop, Progress) R |
		func(Stop, Progress) (R, error) |
		func(Progress, Stop) R |
		func(Progress, Stop) (R, error) |
		Job[R]
}

// job is a Job plus whether it wants a progress bar.
type job[R any] struct {
	run             Job[R]
	reportsProgress bool
}

// newJob converts any JobShape into the canonical job.
func newJob[R any](fn interface{}) (job[R], error) {
	switch typed := fn.(type) {
	case func() R:
		return job[R]{run: func(Stop, Progress) (R, error) { return typed(), nil }}, nil

	case func() (R, error):
		return job[R]{run: func(Stop, Progress) (R, error) { return typed() }}, nil

	case func(Stop) R:
		return job[R]{run: func(s Stop, _ Progress) (R, error) { return typed(s), nil }}, nil

	case func(Stop) (R, error):
		return job[R]{run: func(s Stop, _ Progress) (R, error) { return typed(s) }}, nil

	case func(Progress) R:
		return job[R]{
			run:             func(_ Stop, p Progress) (R, error) { return typed(p), nil },
			reportsProgress: true,
		}, nil

	case func(Progress) (R, error):
		return job[R]{
			run:             func(_ Stop, p Progress) (R, error) { return typed(p) },
			reportsProgress: true,
		}, nil

	case func(Stop, Progress) R:
		return job[R]{
			run:             func(s Stop, p Progress) (R, error) { return typed(s, p), nil },
			reportsProgress: true,
		}, nil

	case func(Stop, Progress) (R, error):
		return job[R]{run: typed, reportsProgress: true}, nil

	case func(Progress, Stop) R:
		return job[R]{
			run:             func(s Stop, p Progress) (R, error) { return typed(p, s), nil },
			reportsProgress: true,
		}, nil

	case func(Progress, Stop) (R, error):
		return job[R]{
			run:             func(s Stop, p Progress) (R, error) { return typed(p, s) },
			reportsProgress: true,
		}, nil

	case Job[R]:
		return job[R]{run: typed, reportsProgress: true}, nil

	default:
		return job[R]{}, fmt.Errorf("%w: %T", ErrInvalidJobType, fn)
	}
}

// outcome is one job's result slot.
type outcome[R any] struct {
	val R
	err error
}

// execJob runs j, turning a panic into ErrJobPanicked.
func execJob[R any](j job[R], stop Stop, progress Progress) (out outcome[R]) {
	defer func() {
		if rec := recover(); rec != nil {
			out = outcome[R]{err: fmt.Errorf("%w: %v", ErrJobPanicked, rec)}
		}
	}()

	val, err := j.run(stop, progress)
	return outcome[R]{val: val, err: err}
}
