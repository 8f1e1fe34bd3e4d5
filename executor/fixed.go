package executor

import (
	"sync"
	"sync/atomic"
)

// Fixed runs tasks on at most n worker goroutines. Tasks wait in an unbounded FIFO
// queue, so Submit never blocks. Workers are started lazily, up to capacity.
type Fixed struct {
	capacity int

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	workers int
	idle    int
	closed  bool

	wg       sync.WaitGroup
	rejected atomic.Int64
}

// NewFixed returns an executor capped at n concurrent tasks. n must be > 0.
func NewFixed(n int) *Fixed {
	if n <= 0 {
		panic("executor: NewFixed requires n > 0")
	}
	f := &Fixed{capacity: n}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// Submit enqueues task. After Close the task is dropped and counted as rejected.
func (f *Fixed) Submit(task func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		f.rejected.Add(1)
		return
	}

	f.queue = append(f.queue, task)
	if f.idle == 0 && f.workers < f.capacity {
		f.workers++
		f.wg.Add(1)
		go f.work()
		return
	}
	f.cond.Signal()
}

// Close stops accepting tasks, lets the workers drain the queue and waits for them.
// It is idempotent.
func (f *Fixed) Close() {
	f.mu.Lock()
	f.closed = true
	f.cond.Broadcast()
	f.mu.Unlock()

	f.wg.Wait()
}

// Workers returns the number of worker goroutines started so far.
func (f *Fixed) Workers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.workers
}

// Rejected returns how many tasks were submitted after Close.
func (f *Fixed) Rejected() int64 {
	return f.rejected.Load()
}

func (f *Fixed) work() {
	defer f.wg.Done()
	for {
		task, ok := f.next()
		if !ok {
			return
		}
		task()
	}
}

// next pops the oldest task, waiting for one if the queue is empty.
// It reports false once the executor is closed and drained.
func (f *Fixed) next() (func(), bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for len(f.queue) == 0 {
		if f.closed {
			return nil, false
		}
		f.idle++
		f.cond.Wait()
		f.idle--
	}

	task := f.queue[0]
	f.queue[0] = nil
	f.queue = f.queue[1:]
	return task, true
}
