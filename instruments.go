package dispatch

import "github.com/ygrebnov/dispatch/metrics"

// Metric names recorded by a Dispatcher.
const (
	MetricBatchesSubmitted = "dispatch.batches.submitted"
	MetricBatchesCompleted = "dispatch.batches.completed"
	MetricBatchesFailed    = "dispatch.batches.failed"
	MetricBatchesCancelled = "dispatch.batches.cancelled"
	MetricBatchesDiscarded = "dispatch.batches.discarded"
	MetricBatchesRunning   = "dispatch.batches.running"
	MetricJobsSubmitted    = "dispatch.jobs.submitted"
	MetricBatchDuration    = "dispatch.batch.duration"
	MetricJobDuration      = "dispatch.job.duration"
)

type instruments struct {
	submitted metrics.Counter
	completed metrics.Counter
	failed    metrics.Counter
	cancelled metrics.Counter
	discarded metrics.Counter
	jobs      metrics.Counter
	running   metrics.UpDownCounter

	batchDuration metrics.Histogram
	jobDuration   metrics.Histogram
}

func newInstruments(p metrics.Provider) *instruments {
	return &instruments{
		submitted: p.Counter(MetricBatchesSubmitted,
			metrics.WithDescription("batches handed to the executor"), metrics.WithUnit("1")),
		completed: p.Counter(MetricBatchesCompleted,
			metrics.WithDescription("batches whose done callback ran"), metrics.WithUnit("1")),
		failed: p.Counter(MetricBatchesFailed,
			metrics.WithDescription("batches routed to the error handler"), metrics.WithUnit("1")),
		cancelled: p.Counter(MetricBatchesCancelled,
			metrics.WithDescription("running batches cancelled by StopJobs or a newer dispatch"), metrics.WithUnit("1")),
		discarded: p.Counter(MetricBatchesDiscarded,
			metrics.WithDescription("queued or delayed batches dropped before they started"), metrics.WithUnit("1")),
		jobs: p.Counter(MetricJobsSubmitted,
			metrics.WithDescription("jobs handed to the executor"), metrics.WithUnit("1")),
		running: p.UpDownCounter(MetricBatchesRunning,
			metrics.WithDescription("batches tracked as running"), metrics.WithUnit("1")),
		batchDuration: p.Histogram(MetricBatchDuration,
			metrics.WithDescription("time from batch start to finalization"), metrics.WithUnit("s")),
		jobDuration: p.Histogram(MetricJobDuration,
			metrics.WithDescription("time spent inside a job body"), metrics.WithUnit("s")),
	}
}
