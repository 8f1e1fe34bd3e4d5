package dispatch

import "sync/atomic"

// Stop tells a running job whether its batch was cancelled. Jobs poll it and
// return early with any value; the result of a cancelled batch is discarded.
//
//	func(stop dispatch.Stop) (*Mesh, error) {
//		for i := range cells {
//			if stop.Stopped() {
//				return nil, nil
//			}
//			// work
//		}
//		return mesh, nil
//	}
//
// The zero Stop is never stopped.
type Stop struct {
	flag *atomic.Bool
}

// Stopped reports whether the batch was cancelled.
func (s Stop) Stopped() bool { return s.flag != nil && s.flag.Load() }

// Progress reports one job's progress in [0, 1]. Values outside the range are
// clamped. The owner sees the mean over all jobs of the batch, so a job does not
// need to know how many siblings it has.
//
// The zero Progress discards reports.
type Progress struct {
	st *state
	id int
}

// Report stores v as this job's progress. Later reports overwrite earlier ones.
func (p Progress) Report(v float32) {
	if p.st == nil {
		return
	}
	p.st.setProgress(p.id, v)
}

// Step reports i of n steps done. It is a no-op for n <= 0.
func (p Progress) Step(i, n int) {
	if n <= 0 {
		return
	}
	p.Report(float32(i) / float32(n))
}
