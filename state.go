package dispatch

import (
	"math"
	"sync/atomic"
	"time"
	"weak"

	"github.com/google/uuid"

	"github.com/ygrebnov/dispatch/mainthread"
)

// state is the bookkeeping shared by one batch's tasks, its finalization and the
// Dispatcher. Only stopped, outstanding and progress are touched off the owner
// goroutine.
type state struct {
	id   string
	size int

	// outstanding counts jobs that have not finished yet. Every task decrements it
	// exactly once; the task that takes it to zero posts the finalization.
	outstanding atomic.Int64
	stopped     atomic.Bool

	// progress holds one float32 (as bits) per job.
	progress       []atomic.Uint32
	refreshPending atomic.Bool

	reportsProgress bool

	owner weak.Pointer[ownerProxy]
	post  mainthread.Scheduler
	inst  *instruments

	// started is written when the batch is handed to the executor, under the
	// Dispatcher's lock.
	started time.Time
}

func newState(owner weak.Pointer[ownerProxy], post mainthread.Scheduler, inst *instruments, size int) *state {
	st := &state{
		id:       uuid.NewString(),
		size:     size,
		progress: make([]atomic.Uint32, size),
		owner:    owner,
		post:     post,
		inst:     inst,
	}
	st.outstanding.Store(int64(size))
	return st
}

func (st *state) stop() Stop { return Stop{flag: &st.stopped} }

func (st *state) reporter(i int) Progress { return Progress{st: st, id: i} }

// cancel sets the stop flag and reports whether this call set it.
func (st *state) cancel() bool { return st.stopped.CompareAndSwap(false, true) }

// finish records one finished job and reports whether it was the last one.
// atomic.Int64.Add returns the new value, so zero means this was the last job.
func (st *state) finish() bool { return st.outstanding.Add(-1) == 0 }

// resolve returns the owning Dispatcher if it is still alive.
func (st *state) resolve() *Dispatcher {
	return st.owner.Value().resolve()
}

func (st *state) setProgress(i int, v float32) {
	switch {
	case math.IsNaN(float64(v)) || v < 0:
		v = 0
	case v > 1:
		v = 1
	}
	st.progress[i].Store(math.Float32bits(v))

	// One refresh in flight per batch is enough; it reads the latest values.
	if st.refreshPending.CompareAndSwap(false, true) {
		st.post.Post(func() {
			st.refreshPending.Store(false)
			if d := st.resolve(); d != nil {
				d.refreshProgress(st)
			}
		})
	}
}

// aggregate is the mean of all job progress values.
func (st *state) aggregate() float32 {
	if st.size == 0 {
		return 1
	}
	var sum float32
	for i := range st.progress {
		sum += math.Float32frombits(st.progress[i].Load())
	}
	return sum / float32(st.size)
}

// batch adds the typed result slots and done callback to a state.
type batch[R any] struct {
	*state
	jobs    []job[R]
	results []outcome[R]
	done    func([]R)
}

func newBatch[R any](d *Dispatcher, jobs []job[R], done func([]R)) *batch[R] {
	st := newState(d.weakProxy, d.cfg.mainThread, d.inst, len(jobs))
	for _, j := range jobs {
		st.reportsProgress = st.reportsProgress || j.reportsProgress
	}
	return &batch[R]{
		state:   st,
		jobs:    jobs,
		results: make([]outcome[R], len(jobs)),
		done:    done,
	}
}

// submission turns the batch into its ready-to-run tasks.
func (b *batch[R]) submission(pb ProgressBar) *submission {
	sub := &submission{
		state:    b.state,
		tasks:    make([]func(), len(b.jobs)),
		setup:    progressSetup(pb, b.reportsProgress),
		finalize: b.finalize,
	}
	for i := range b.jobs {
		sub.tasks[i] = b.task(i)
	}
	return sub
}

// task wraps job i. Results go into slot i, so their order never depends on
// which job finishes first.
func (b *batch[R]) task(i int) func() {
	return func() {
		if !b.stopped.Load() {
			start := time.Now()
			b.results[i] = execJob(b.jobs[i], b.stop(), b.reporter(i))
			b.inst.jobDuration.Record(time.Since(start).Seconds())
		}
		if b.finish() {
			b.post.Post(b.finalize)
		}
	}
}

// finalize runs on the owner goroutine once every job has finished.
func (b *batch[R]) finalize() {
	d := b.resolve()
	if d == nil {
		return
	}
	d.finalize(b.state, func() { deliver(d, b) })
}

// submission is a batch that is ready to run but may still be held back by the
// QueuedDispatch or DelayDispatch policies.
type submission struct {
	state    *state
	tasks    []func()
	setup    func()
	finalize func()
}
