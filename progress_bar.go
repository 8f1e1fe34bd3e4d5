package dispatch

// ProgressBar is the owner's progress indicator. The Dispatcher calls it on the
// owner goroutine while holding its lock, so implementations must not call back
// into the Dispatcher.
//
// A batch becomes active when it starts; the bar is shown only when a job of the
// batch accepts a Progress. Updates carry the mean progress of the most recently
// started batch. When no batch is left running the bar is deactivated and hidden.
type ProgressBar interface {
	SetActive(active bool)
	Show()
	Hide()
	Update(progress float32)
}

type noopProgressBar struct{}

func (noopProgressBar) SetActive(bool) {}
func (noopProgressBar) Show()          {}
func (noopProgressBar) Hide()          {}
func (noopProgressBar) Update(float32) {}

// progressSetup returns the closure run just before a batch starts.
func progressSetup(pb ProgressBar, reportsProgress bool) func() {
	return func() {
		pb.Update(0)
		pb.SetActive(true)
		if reportsProgress {
			pb.Show()
		}
	}
}
