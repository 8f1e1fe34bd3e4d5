package dispatch

import (
	"errors"
	"time"

	"go.uber.org/zap"
)

// finalize runs on the owner goroutine once every job of st has finished.
// deliver hands the results to done or the error handler.
func (d *Dispatcher) finalize(st *state, deliver func()) {
	d.mu.Lock()
	if d.removeRunningLocked(st) {
		d.inst.running.Add(-1)
		d.inst.batchDuration.Record(time.Since(st.started).Seconds())
	}
	active := len(d.running) > 0
	d.cfg.progressBar.SetActive(active)
	if !active {
		d.cfg.progressBar.Hide()
	}

	// A batch finishing after StopJobs is no longer tracked; the queued one waits
	// for whatever runs now.
	var promoted *submission
	if d.QueuedDispatch() && d.queued != nil && !active {
		promoted = d.queued
		d.queued = nil
		d.startLocked(promoted)
	}
	d.mu.Unlock()

	// The promoted batch takes over; the finishing batch's results are dropped.
	if promoted != nil {
		d.log.Debug("queued batch promoted",
			zap.String("batch", promoted.state.id), zap.String("replaces", st.id))
		d.launch(promoted)
		return
	}

	if st.stopped.Load() {
		d.log.Debug("batch finished after cancellation", zap.String("batch", st.id))
		return
	}
	deliver()
}

// deliver collects b's results in job order and calls done, or routes the failures
// to the error handler.
func deliver[R any](d *Dispatcher, b *batch[R]) {
	values := make([]R, len(b.results))
	var errs []error
	for i, out := range b.results {
		if out.err != nil {
			errs = append(errs, newJobTaggedError(out.err, b.id, i))
			continue
		}
		values[i] = out.val
	}

	if len(errs) > 0 {
		d.inst.failed.Add(1)
		err := errs[0]
		if len(errs) > 1 {
			err = errors.Join(errs...)
		}
		d.handleError(b.id, err)
		return
	}

	d.inst.completed.Add(1)
	d.log.Debug("batch done", zap.String("batch", b.id), zap.Int("results", len(values)))
	b.done(values)
	d.NewResults()
}

// handleError runs the owner's error handler, or logs err and resets the outputs.
func (d *Dispatcher) handleError(batchID string, err error) {
	if d.cfg.handleError != nil {
		d.cfg.handleError(err)
		return
	}
	idx, _ := ExtractJobIndex(err)
	d.log.Error("background job failed",
		zap.String("batch", batchID), zap.Int("job", idx), zap.Error(err))
	if d.cfg.resetOutputs != nil {
		d.cfg.resetOutputs()
	}
}
