package executor

import "sync"

// Dynamic starts a new goroutine for every submitted task.
type Dynamic struct {
	wg sync.WaitGroup
}

// NewDynamic returns an unbounded executor.
func NewDynamic() *Dynamic {
	return &Dynamic{}
}

func (d *Dynamic) Submit(task func()) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		task()
	}()
}

// Wait blocks until every task submitted so far has returned.
func (d *Dynamic) Wait() {
	d.wg.Wait()
}
