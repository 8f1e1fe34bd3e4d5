package executor_test

import (
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ygrebnov/dispatch/executor"
)

var _ = Describe("Dynamic", func() {
	It("should run every submitted task", func() {
		d := executor.NewDynamic()

		var ran atomic.Int32
		for range 10 {
			d.Submit(func() { ran.Add(1) })
		}
		d.Wait()

		Expect(ran.Load()).To(Equal(int32(10)))
	})

	It("should not block the submitter while a task runs", func() {
		d := executor.NewDynamic()
		unblock := make(chan struct{})

		submitted := make(chan struct{})
		go func() {
			d.Submit(func() { <-unblock })
			close(submitted)
		}()

		Eventually(submitted, time.Second).Should(BeClosed())
		close(unblock)
		d.Wait()
	})
})

var _ = Describe("Fixed", func() {
	var f *executor.Fixed

	AfterEach(func() {
		if f != nil {
			f.Close()
		}
	})

	It("should panic when capacity is zero", func() {
		Expect(func() { executor.NewFixed(0) }).To(Panic())
	})

	It("should never run more than capacity tasks at once", func() {
		f = executor.NewFixed(3)

		var running, peak atomic.Int32
		var wg sync.WaitGroup
		for range 30 {
			wg.Add(1)
			f.Submit(func() {
				defer wg.Done()
				n := running.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(2 * time.Millisecond)
				running.Add(-1)
			})
		}
		wg.Wait()

		Expect(peak.Load()).To(BeNumerically("<=", 3))
		Expect(f.Workers()).To(BeNumerically("<=", 3))
	})

	It("should start tasks in submission order on a single worker", func() {
		f = executor.NewFixed(1)

		var mu sync.Mutex
		var order []int
		for i := range 5 {
			f.Submit(func() {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
			})
		}

		Eventually(func() []int {
			mu.Lock()
			defer mu.Unlock()
			return append([]int(nil), order...)
		}, time.Second, 10*time.Millisecond).Should(Equal([]int{0, 1, 2, 3, 4}))
	})

	It("should not block Submit when every worker is busy", func() {
		f = executor.NewFixed(1)
		unblock := make(chan struct{})
		f.Submit(func() { <-unblock })

		submitted := make(chan struct{})
		go func() {
			f.Submit(func() {})
			close(submitted)
		}()

		Eventually(submitted, time.Second).Should(BeClosed())
		close(unblock)
	})

	It("should drain queued tasks on Close and reject later ones", func() {
		f = executor.NewFixed(1)
		started := make(chan struct{})
		unblock := make(chan struct{})
		var ran atomic.Int32

		f.Submit(func() {
			close(started)
			<-unblock
			ran.Add(1)
		})
		f.Submit(func() { ran.Add(1) })
		Eventually(started, time.Second).Should(BeClosed())

		closed := make(chan struct{})
		go func() {
			f.Close()
			close(closed)
		}()

		Consistently(closed, 100*time.Millisecond).ShouldNot(BeClosed())
		close(unblock)
		Eventually(closed, time.Second).Should(BeClosed())
		Expect(ran.Load()).To(Equal(int32(2)))

		f.Submit(func() { ran.Add(1) })
		Expect(f.Rejected()).To(Equal(int64(1)))
		Expect(ran.Load()).To(Equal(int32(2)))
	})
})

var _ = Describe("Inline", func() {
	It("should run the task before Submit returns", func() {
		ran := false
		executor.Inline.Submit(func() { ran = true })
		Expect(ran).To(BeTrue())
	})
})
