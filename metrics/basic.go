package metrics

import (
	"math"
	"sync"
	"sync/atomic"
)

// BasicProvider keeps every instrument in memory and lets callers read them back by
// name. It backs the dispatcher tests and the dispatchbench summary.
type BasicProvider struct {
	counters   registry[*BasicCounter]
	updowns    registry[*BasicUpDownCounter]
	histograms registry[*BasicHistogram]
}

// NewBasicProvider constructs an empty BasicProvider.
func NewBasicProvider() *BasicProvider {
	return &BasicProvider{
		counters:   newRegistry(func() *BasicCounter { return &BasicCounter{} }),
		updowns:    newRegistry(func() *BasicUpDownCounter { return &BasicUpDownCounter{} }),
		histograms: newRegistry(newBasicHistogram),
	}
}

func (p *BasicProvider) Counter(name string, opts ...InstrumentOption) Counter {
	return p.counters.get(name, opts)
}

func (p *BasicProvider) UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter {
	return p.updowns.get(name, opts)
}

func (p *BasicProvider) Histogram(name string, opts ...InstrumentOption) Histogram {
	return p.histograms.get(name, opts)
}

// CounterValue returns the current value of the named counter, or 0 if it was never created.
func (p *BasicProvider) CounterValue(name string) int64 {
	if c, ok := p.counters.lookup(name); ok {
		return c.Snapshot()
	}
	return 0
}

// UpDownValue returns the current level of the named up/down counter, or 0.
func (p *BasicProvider) UpDownValue(name string) int64 {
	if u, ok := p.updowns.lookup(name); ok {
		return u.Snapshot()
	}
	return 0
}

// HistogramSnapshot returns the named histogram's snapshot and whether it exists.
func (p *BasicProvider) HistogramSnapshot(name string) (HistSnapshot, bool) {
	if h, ok := p.histograms.lookup(name); ok {
		return h.Snapshot(), true
	}
	return HistSnapshot{}, false
}

// Describe returns the metadata the named instrument was created with.
func (p *BasicProvider) Describe(name string) (InstrumentConfig, bool) {
	for _, meta := range []func(string) (InstrumentConfig, bool){p.counters.meta, p.updowns.meta, p.histograms.meta} {
		if cfg, ok := meta(name); ok {
			return cfg, true
		}
	}
	return InstrumentConfig{}, false
}

// registry creates instruments of one kind on first use and reuses them afterwards.
type registry[T any] struct {
	mu      *sync.RWMutex
	items   map[string]T
	configs map[string]InstrumentConfig
	newFn   func() T
}

func newRegistry[T any](newFn func() T) registry[T] {
	return registry[T]{
		mu:      &sync.RWMutex{},
		items:   make(map[string]T),
		configs: make(map[string]InstrumentConfig),
		newFn:   newFn,
	}
}

func (r registry[T]) lookup(name string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.items[name]
	return v, ok
}

func (r registry[T]) meta(name string) (InstrumentConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.configs[name]
	return cfg, ok
}

func (r registry[T]) get(name string, opts []InstrumentOption) T {
	if v, ok := r.lookup(name); ok {
		return v
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// another goroutine may have won the race for the write lock
	if v, ok := r.items[name]; ok {
		return v
	}
	v := r.newFn()
	r.items[name] = v
	r.configs[name] = buildConfig(opts)
	return v
}

// BasicCounter is a concurrency-safe monotonic counter.
type BasicCounter struct {
	val atomic.Int64
}

func (c *BasicCounter) Add(n int64) { c.val.Add(n) }

// Snapshot returns the current value.
func (c *BasicCounter) Snapshot() int64 { return c.val.Load() }

// BasicUpDownCounter is a concurrency-safe level.
type BasicUpDownCounter struct {
	val atomic.Int64
}

func (u *BasicUpDownCounter) Add(n int64) { u.val.Add(n) }

// Snapshot returns the current level.
func (u *BasicUpDownCounter) Snapshot() int64 { return u.val.Load() }

// BasicHistogram tracks count, sum, min and max. It keeps no buckets.
type BasicHistogram struct {
	mu   sync.Mutex
	snap HistSnapshot
}

func newBasicHistogram() *BasicHistogram {
	return &BasicHistogram{snap: HistSnapshot{Min: math.Inf(1), Max: math.Inf(-1)}}
}

func (h *BasicHistogram) Record(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.snap.Count++
	h.snap.Sum += v
	h.snap.Min = math.Min(h.snap.Min, v)
	h.snap.Max = math.Max(h.snap.Max, v)
}

// HistSnapshot is a point-in-time copy of a BasicHistogram.
type HistSnapshot struct {
	Count int64
	Sum   float64
	Min   float64
	Max   float64
	Mean  float64
}

// Snapshot returns a copy of the histogram state.
func (h *BasicHistogram) Snapshot() HistSnapshot {
	h.mu.Lock()
	s := h.snap
	h.mu.Unlock()
	if s.Count > 0 {
		s.Mean = s.Sum / float64(s.Count)
	}
	return s
}
