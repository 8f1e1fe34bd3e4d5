package dispatch

import (
	"time"

	"go.uber.org/zap"
)

// debouncer holds the submission waiting out the DelayDispatch quiet period.
// gen identifies the current timer; a timer whose generation is stale when it
// fires does nothing.
type debouncer struct {
	pending *submission
	timer   *time.Timer
	gen     uint64
}

// reset stops the timer and returns the pending submission, if any.
func (db *debouncer) reset() *submission {
	if db.timer != nil {
		db.timer.Stop()
		db.timer = nil
	}
	db.gen++
	sub := db.pending
	db.pending = nil
	return sub
}

// armDelayLocked replaces the pending submission with sub and restarts the timer.
func (d *Dispatcher) armDelayLocked(sub *submission) {
	d.discardLocked(d.delay.reset())
	d.delay.pending = sub
	gen := d.delay.gen

	// The timer goroutine holds only the weak proxy and the scheduler.
	owner, post := d.weakProxy, d.cfg.mainThread
	d.delay.timer = time.AfterFunc(d.cfg.delay, func() {
		post.Post(func() {
			if live := owner.Value().resolve(); live != nil {
				live.fireDelay(gen)
			}
		})
	})
	d.log.Debug("batch delayed",
		zap.String("batch", sub.state.id), zap.Duration("delay", d.cfg.delay))
}

// fireDelay runs on the owner goroutine when the quiet period of generation gen ends.
func (d *Dispatcher) fireDelay(gen uint64) {
	d.mu.Lock()
	if d.delay.gen != gen || d.delay.pending == nil {
		d.mu.Unlock()
		return
	}
	sub := d.delay.pending
	d.delay.pending = nil
	d.delay.timer = nil
	launch := d.admitLocked(sub)
	d.mu.Unlock()

	if launch != nil {
		d.launch(launch)
	}
}
