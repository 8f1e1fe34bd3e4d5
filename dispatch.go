package dispatch

import (
	"go.uber.org/zap"
)

// DispatchOne runs job in the background and calls done with its result on the
// owner goroutine.
//
// done runs at most once, and only if the Dispatcher is still open and the batch
// was neither stopped nor superseded by a later dispatch (see KeepOldResults).
// If the job fails or panics, the error handler runs instead of done. It is safe
// for done to refer to the owner.
//
//	err := dispatch.DispatchOne(d,
//		func(stop dispatch.Stop, progress dispatch.Progress) (*Image, error) {
//			if stop.Stopped() {
//				return nil, nil
//			}
//			progress.Report(0.5)
//			return render(scene), nil
//		},
//		func(img *Image) { view.SetImage(img) },
//	)
func DispatchOne[R any, J JobShape[R]](d *Dispatcher, fn J, done func(R)) error {
	j, err := newJob[R](fn)
	if err != nil {
		return err
	}
	return dispatchBatch(d, []job[R]{j}, func(results []R) {
		if done != nil {
			done(results[0])
		}
	})
}

// DispatchMany runs jobs concurrently as one batch and calls done with all results,
// in the order of jobs, once every job has finished. Progress of the batch is the
// mean of the jobs' progress. An empty batch calls done with an empty slice.
//
// The same delivery rules as for DispatchOne apply; one failed job routes the
// whole batch to the error handler.
func DispatchMany[R any, J JobShape[R]](d *Dispatcher, fns []J, done func([]R)) error {
	jobs := make([]job[R], 0, len(fns))
	for _, fn := range fns {
		j, err := newJob[R](fn)
		if err != nil {
			return err
		}
		jobs = append(jobs, j)
	}
	return dispatchBatch(d, jobs, func(results []R) {
		if done != nil {
			done(results)
		}
	})
}

func dispatchBatch[R any](d *Dispatcher, jobs []job[R], done func([]R)) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}

	if !d.KeepOldResults() {
		// Old flags flip before any new task is submitted.
		d.stopLocked(d.QueuedDispatch())
	}

	b := newBatch(d, jobs, done)
	sub := b.submission(d.cfg.progressBar)
	d.log.Debug("batch dispatched",
		zap.String("batch", b.id),
		zap.Int("jobs", len(jobs)),
		zap.Stringer("policy", d.cfg.policy),
	)

	var launch *submission
	if d.DelayDispatch() {
		d.armDelayLocked(sub)
	} else {
		launch = d.admitLocked(sub)
	}
	d.mu.Unlock()

	if launch != nil {
		d.launch(launch)
	}
	return nil
}
