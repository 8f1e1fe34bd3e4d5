package tests

import (
	"context"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/ygrebnov/dispatch"
	"github.com/ygrebnov/dispatch/executor"
	"github.com/ygrebnov/dispatch/mainthread"
)

func benchmarkDispatch(b *testing.B, exec executor.Executor, policy dispatch.Policy, jobs int) {
	loop := mainthread.NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = loop.Run(ctx) }()

	d, err := dispatch.New(
		dispatch.WithMainThread(loop),
		dispatch.WithExecutor(exec),
		dispatch.WithPolicy(policy),
	)
	if err != nil {
		b.Fatalf("New: %v", err)
	}
	defer d.Close()

	fns := make([]func() int, jobs)
	for i := range fns {
		fns[i] = func() int { return i * i }
	}

	var delivered atomic.Int64
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		done := make(chan struct{})
		loop.Post(func() {
			_ = dispatch.DispatchMany(d, fns, func([]int) {
				delivered.Add(1)
				close(done)
			})
		})
		<-done
	}
	b.StopTimer()

	if delivered.Load() != int64(b.N) {
		b.Fatalf("delivered %d of %d batches", delivered.Load(), b.N)
	}
}

func BenchmarkDispatch_Dynamic_1(b *testing.B) {
	benchmarkDispatch(b, executor.NewDynamic(), 0, 1)
}

func BenchmarkDispatch_Dynamic_64(b *testing.B) {
	benchmarkDispatch(b, executor.NewDynamic(), 0, 64)
}

func BenchmarkDispatch_Fixed_64(b *testing.B) {
	exec := executor.NewFixed(runtime.NumCPU())
	defer exec.Close()
	benchmarkDispatch(b, exec, 0, 64)
}

func BenchmarkDispatch_Fixed_KeepOld_64(b *testing.B) {
	exec := executor.NewFixed(runtime.NumCPU())
	defer exec.Close()
	benchmarkDispatch(b, exec, dispatch.KeepOldResults, 64)
}
