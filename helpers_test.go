package dispatch

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/dispatch/mainthread"
)

// manualExecutor holds submitted tasks until the test runs them.
type manualExecutor struct {
	mu        sync.Mutex
	tasks     []func()
	submitted int
}

func (m *manualExecutor) Submit(task func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, task)
	m.submitted++
}

// Len returns the number of tasks waiting to run.
func (m *manualExecutor) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Submitted returns the number of tasks ever submitted.
func (m *manualExecutor) Submitted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.submitted
}

// RunNext runs the oldest waiting task.
func (m *manualExecutor) RunNext() bool {
	m.mu.Lock()
	if len(m.tasks) == 0 {
		m.mu.Unlock()
		return false
	}
	task := m.tasks[0]
	m.tasks = m.tasks[1:]
	m.mu.Unlock()

	task()
	return true
}

// RunAll runs waiting tasks until none are left and returns how many ran.
func (m *manualExecutor) RunAll() int {
	n := 0
	for m.RunNext() {
		n++
	}
	return n
}

// fakeProgressBar records what the dispatcher asked the owner's indicator to do.
type fakeProgressBar struct {
	mu      sync.Mutex
	active  bool
	visible bool
	shows   int
	updates []float32
}

func (f *fakeProgressBar) SetActive(active bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = active
}

func (f *fakeProgressBar) Show() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visible = true
	f.shows++
}

func (f *fakeProgressBar) Hide() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visible = false
}

func (f *fakeProgressBar) Update(p float32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, p)
}

func (f *fakeProgressBar) state() (active, visible bool, shows int, last float32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n := len(f.updates); n > 0 {
		last = f.updates[n-1]
	}
	return f.active, f.visible, f.shows, last
}

// newManual builds a Dispatcher whose jobs run only when the test says so, and
// whose owner goroutine is whichever goroutine calls loop.Drain.
func newManual(t *testing.T, opts ...Option) (*Dispatcher, *mainthread.Loop, *manualExecutor) {
	t.Helper()

	loop := mainthread.NewLoop()
	exec := &manualExecutor{}
	d, err := New(append([]Option{WithMainThread(loop), WithExecutor(exec)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return d, loop, exec
}

// settle runs every job and every owner closure until both queues are empty.
func settle(loop *mainthread.Loop, exec *manualExecutor) {
	for {
		ran := exec.RunAll()
		ran += loop.Drain()
		if ran == 0 {
			return
		}
	}
}
