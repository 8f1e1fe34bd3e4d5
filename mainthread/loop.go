package mainthread

import (
	"context"
	"errors"
	"sync"
)

// ErrLoopClosed is returned by Run after Close.
var ErrLoopClosed = errors.New("mainthread: loop closed")

type funcRun struct {
	fn   func()
	done chan struct{}
}

// Loop is a FIFO queue of closures drained by whichever goroutine calls Run.
// That goroutine becomes the owner goroutine for everything posted to the Loop.
type Loop struct {
	mu      sync.Mutex
	queue   []funcRun
	wake    chan struct{}
	closing chan struct{}
	once    sync.Once
}

// NewLoop returns an idle Loop. Call Run to start draining it.
func NewLoop() *Loop {
	return &Loop{
		wake:    make(chan struct{}, 1),
		closing: make(chan struct{}),
	}
}

// Post appends fn to the queue and returns immediately.
func (l *Loop) Post(fn func()) {
	l.push(funcRun{fn: fn})
}

// Call runs fn on the owner goroutine and waits for it to return.
// Calling it from the owner goroutine itself deadlocks.
func (l *Loop) Call(fn func()) {
	done := make(chan struct{})
	l.push(funcRun{fn: fn, done: done})
	select {
	case <-done:
	case <-l.closing:
	}
}

// Run drains the queue on the calling goroutine until ctx is done or Close is called.
// Closures still queued at that point are dropped.
func (l *Loop) Run(ctx context.Context) error {
	for {
		for {
			fr, ok := l.pop()
			if !ok {
				break
			}
			fr.fn()
			if fr.done != nil {
				close(fr.done)
			}
			select {
			case <-l.closing:
				return ErrLoopClosed
			default:
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.closing:
			return ErrLoopClosed
		case <-l.wake:
		}
	}
}

// Drain runs everything currently queued, including closures those closures post,
// on the calling goroutine and returns when the queue is empty. It is meant for
// tests and tools that own the goroutine without running a full loop.
func (l *Loop) Drain() int {
	n := 0
	for {
		fr, ok := l.pop()
		if !ok {
			return n
		}
		fr.fn()
		if fr.done != nil {
			close(fr.done)
		}
		n++
	}
}

// Len returns the number of queued closures.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Close stops Run and releases goroutines blocked in Call. It is idempotent.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.closing) })
}

func (l *Loop) push(fr funcRun) {
	l.mu.Lock()
	l.queue = append(l.queue, fr)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) pop() (funcRun, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return funcRun{}, false
	}
	fr := l.queue[0]
	l.queue[0] = funcRun{}
	l.queue = l.queue[1:]
	return fr, true
}
