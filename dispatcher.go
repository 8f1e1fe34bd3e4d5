package dispatch

import (
	"sync"
	"time"
	"weak"

	"go.uber.org/zap"

	"github.com/ygrebnov/dispatch/executor"
)

// Dispatcher runs batches of jobs on an executor on behalf of one owner and
// delivers their results on the owner goroutine.
//
// DispatchOne, DispatchMany, StopJobs and the other methods are meant to be called
// from the owner goroutine, but they are safe for concurrent use.
type Dispatcher struct {
	cfg  config
	log  *zap.Logger
	inst *instruments
	exec executor.Executor

	// proxy is the only strong reference to the owner proxy; batches get weakProxy.
	proxy     *ownerProxy
	weakProxy weak.Pointer[ownerProxy]

	// mu guards running, queued, delay and closed. It is never held while calling
	// done callbacks, owner hooks or the executor.
	mu      sync.Mutex
	running []*state
	queued  *submission
	delay   debouncer
	closed  bool

	closeOnce sync.Once
}

// New creates a Dispatcher. WithMainThread is required.
func New(opts ...Option) (*Dispatcher, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	if cfg.executor == nil {
		cfg.executor = executor.NewDynamic()
	}

	d := &Dispatcher{
		cfg:  cfg,
		log:  cfg.logger.Named("dispatch"),
		inst: newInstruments(cfg.metrics),
		exec: cfg.executor,
	}
	d.proxy = &ownerProxy{d: d}
	d.weakProxy = weak.Make(d.proxy)
	return d, nil
}

// Policy returns the configured policy flags.
func (d *Dispatcher) Policy() Policy { return d.cfg.policy }

// KeepOldResults reports whether the KeepOldResults flag is set.
func (d *Dispatcher) KeepOldResults() bool { return d.cfg.policy.Has(KeepOldResults) }

// QueuedDispatch reports whether the QueuedDispatch flag is set.
func (d *Dispatcher) QueuedDispatch() bool { return d.cfg.policy.Has(QueuedDispatch) }

// DelayDispatch reports whether the DelayDispatch flag is set.
func (d *Dispatcher) DelayDispatch() bool { return d.cfg.policy.Has(DelayDispatch) }

// DelayInvalidation reports whether the DelayInvalidation flag is set.
func (d *Dispatcher) DelayInvalidation() bool { return d.cfg.policy.Has(DelayInvalidation) }

// HasJobs reports whether any batch is running.
func (d *Dispatcher) HasJobs() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.running) > 0
}

// Pending reports whether a batch is held back by QueuedDispatch or DelayDispatch.
func (d *Dispatcher) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.queued != nil || d.delay.pending != nil
}

// Progress returns the mean progress of the most recently started running batch,
// or 0 when nothing runs.
func (d *Dispatcher) Progress() float32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n := len(d.running); n > 0 {
		return d.running[n-1].aggregate()
	}
	return 0
}

// StopJobs cancels every running, queued and delayed batch. Jobs already running
// are not interrupted; their results are discarded and no done callback or error
// handler runs for them.
func (d *Dispatcher) StopJobs() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked(false)
}

// NewResults tells downstream consumers the owner has new outputs. The Dispatcher
// calls it after every successful done callback.
func (d *Dispatcher) NewResults() {
	if d.cfg.notifyResults != nil {
		d.cfg.notifyResults()
	}
}

// Invalidate tells downstream consumers the owner's outputs are stale. With
// DelayInvalidation set it does nothing, and consumers wait for NewResults.
func (d *Dispatcher) Invalidate() {
	if d.DelayInvalidation() {
		return
	}
	d.NewResults()
}

// Close stops every batch and detaches the Dispatcher from them. Finalizations
// still in flight become no-ops. Later dispatches fail with ErrClosed.
// Close is idempotent.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.stopLocked(false)
		d.closed = true
		d.proxy.closed.Store(true)
		d.proxy = nil
		d.log.Debug("dispatcher closed")
	})
}

// stopLocked cancels everything tracked. With keepRunning, cancelled batches stay
// in the running list until they finalize, which keeps QueuedDispatch serial.
func (d *Dispatcher) stopLocked(keepRunning bool) {
	for _, st := range d.running {
		if st.cancel() {
			d.inst.cancelled.Add(1)
		}
	}

	d.discardLocked(d.queued)
	d.queued = nil
	d.discardLocked(d.delay.reset())

	if keepRunning || len(d.running) == 0 {
		return
	}
	d.inst.running.Add(-int64(len(d.running)))
	d.running = nil
	d.cfg.progressBar.SetActive(false)
	d.cfg.progressBar.Hide()
}

// discardLocked drops a submission that never started.
func (d *Dispatcher) discardLocked(sub *submission) {
	if sub == nil {
		return
	}
	sub.state.cancel()
	d.inst.discarded.Add(1)
	d.log.Debug("batch discarded", zap.String("batch", sub.state.id))
}

// admitLocked applies the QueuedDispatch rule. It returns the submission to launch,
// or nil when the submission was queued.
func (d *Dispatcher) admitLocked(sub *submission) *submission {
	if d.QueuedDispatch() && len(d.running) > 0 {
		d.discardLocked(d.queued)
		d.queued = sub
		d.log.Debug("batch queued",
			zap.String("batch", sub.state.id), zap.Int("running", len(d.running)))
		return nil
	}
	d.startLocked(sub)
	return sub
}

// startLocked registers sub as running and prepares the progress bar.
func (d *Dispatcher) startLocked(sub *submission) {
	sub.state.started = time.Now()
	d.running = append(d.running, sub.state)
	d.inst.running.Add(1)
	d.inst.submitted.Add(1)
	sub.setup()
	d.log.Debug("batch started",
		zap.String("batch", sub.state.id), zap.Int("jobs", len(sub.tasks)))
}

// launch hands the tasks of a started submission to the executor.
// It must be called without holding mu: an inline executor may finalize the batch
// before Submit returns.
func (d *Dispatcher) launch(sub *submission) {
	if len(sub.tasks) == 0 {
		sub.state.post.Post(sub.finalize)
		return
	}
	d.inst.jobs.Add(int64(len(sub.tasks)))
	for _, task := range sub.tasks {
		d.exec.Submit(task)
	}
}

// removeRunningLocked drops st from the running list and reports whether it was there.
func (d *Dispatcher) removeRunningLocked(st *state) bool {
	for i, s := range d.running {
		if s == st {
			d.running = append(d.running[:i], d.running[i+1:]...)
			return true
		}
	}
	return false
}

// refreshProgress pushes st's aggregate to the progress bar if st is the latest batch.
func (d *Dispatcher) refreshProgress(st *state) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n := len(d.running); n == 0 || d.running[n-1] != st {
		return
	}
	d.cfg.progressBar.Update(st.aggregate())
}
