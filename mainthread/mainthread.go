// Package mainthread runs closures on a single owner goroutine.
//
// Interactive applications keep their mutable state on one goroutine (the GUI or
// "main" thread). Work finished elsewhere hands its follow-up back to that goroutine
// through a Scheduler. Posting never blocks the poster, and closures posted by one
// goroutine run in the order they were posted.
package mainthread

// Scheduler runs posted closures on the owner goroutine, fire-and-forget.
type Scheduler interface {
	Post(fn func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(fn func())

// Post calls f(fn).
func (f SchedulerFunc) Post(fn func()) { f(fn) }

// Immediate runs every closure inline on the posting goroutine.
// Use it in tests where there is no owner goroutine to speak of.
var Immediate Scheduler = SchedulerFunc(func(fn func()) { fn() })
