package dispatch

import "sync/atomic"

// ownerProxy is the only path from a batch back to its Dispatcher.
//
// The Dispatcher holds the single strong reference; batches hold a weak.Pointer.
// A Dispatcher that is closed, or dropped and collected, therefore resolves to nil
// from every batch, while jobs, batch state and pending finalizations keep running
// to completion on their own.
type ownerProxy struct {
	d      *Dispatcher
	closed atomic.Bool
}

// resolve returns the live Dispatcher or nil. Callers run on the owner goroutine.
func (p *ownerProxy) resolve() *Dispatcher {
	if p == nil || p.closed.Load() {
		return nil
	}
	return p.d
}
