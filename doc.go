// Package dispatch runs long, cancellable computations off an interactive owner's
// goroutine and hands their results back to it.
//
// A Dispatcher belongs to one owner: a long-lived component whose state lives on a
// single goroutine (the GUI or "main" thread). The owner dispatches a job, or a batch
// of jobs, together with a done callback. Jobs run on an executor.Executor; when the
// last job of a batch finishes, a finalization step is posted to the owner goroutine
// through a mainthread.Scheduler. There the Dispatcher decides whether done runs,
// whether the owner's error handler runs, or whether the batch is silently dropped.
//
// # Jobs
//
// A job is a function in one of the shapes listed by JobShape. It may accept a Stop,
// to return early once its batch is cancelled, and a Progress, to report how far it
// got. Jobs that accept a Progress make the owner's ProgressBar visible.
//
// # Policies
//
//   - default: every dispatch cancels the batches before it; only the newest done runs.
//   - KeepOldResults: earlier batches keep running and their done callbacks still run.
//   - QueuedDispatch: while a batch runs, the newest request waits and starts when the
//     running batch finalizes. Requests replaced in the meantime never run.
//   - DelayDispatch: requests wait for a quiet period (DefaultDelay, see WithDelay);
//     only the last request of a burst runs.
//   - DelayInvalidation: Invalidate is not forwarded downstream; only NewResults is.
//
// # Lifetime
//
// Jobs, batch state and pending finalizations may outlive the Dispatcher. Batches
// reach it only through a weak pointer resolved on the owner goroutine, so after
// Close (or after the Dispatcher is collected) finalizations do nothing.
//
// # Errors
//
// A job's returned error, or a recovered panic wrapped in ErrJobPanicked, is kept
// until finalization and then passed to the error handler (WithErrorHandler), tagged
// with the batch ID and job index (see JobMetaError). Cancellation is not an error.
package dispatch
