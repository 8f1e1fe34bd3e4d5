// Package executor provides the thread pools that run dispatched jobs.
//
// An Executor accepts ready-to-run closures and eventually runs each of them on some
// goroutine. The dispatcher relies on nothing else: no return value, no ordering
// between tasks, and no feedback about when a task starts.
//
// Two implementations are provided:
//   - Dynamic: every task gets its own goroutine.
//   - Fixed: a capped number of worker goroutines consume an unbounded FIFO queue.
package executor

// Executor runs submitted tasks asynchronously.
// Submit must not block the caller for the duration of the task.
type Executor interface {
	Submit(task func())
}

// Func adapts an ordinary function to Executor.
type Func func(task func())

// Submit calls f(task).
func (f Func) Submit(task func()) { f(task) }

// Inline runs every task synchronously on the submitting goroutine.
// It is meant for tests that need a deterministic execution order.
var Inline Executor = Func(func(task func()) { task() })
