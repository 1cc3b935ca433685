// Package monitor keeps lightweight, concurrency-safe counters and timings
// for batches of analysis requests.
package monitor

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"
)

// Counter is a thread-safe counter
type Counter struct {
	value atomic.Int64
}

// Inc increments the counter by 1
func (c *Counter) Inc() { c.value.Add(1) }

// Get returns the current value
func (c *Counter) Get() int64 { return c.value.Load() }

// Gauge tracks a value that goes up and down together with its peak
type Gauge struct {
	value atomic.Int64
	peak  atomic.Int64
}

// Inc increments the gauge and raises the peak if needed
func (g *Gauge) Inc() {
	v := g.value.Add(1)
	for {
		p := g.peak.Load()
		if v <= p || g.peak.CompareAndSwap(p, v) {
			return
		}
	}
}

// Dec decrements the gauge
func (g *Gauge) Dec() { g.value.Add(-1) }

// Get returns the current value
func (g *Gauge) Get() int64 { return g.value.Load() }

// Peak returns the highest value seen
func (g *Gauge) Peak() int64 { return g.peak.Load() }

// Timer is a thread-safe recorder of durations
type Timer struct {
	count atomic.Int64
	total atomic.Int64
	min   atomic.Int64
	max   atomic.Int64
}

// NewTimer creates an empty timer
func NewTimer() *Timer {
	t := &Timer{}
	t.min.Store(math.MaxInt64)
	return t
}

// Record records one duration
func (t *Timer) Record(d time.Duration) {
	nanos := d.Nanoseconds()
	t.count.Add(1)
	t.total.Add(nanos)

	for {
		cur := t.min.Load()
		if nanos >= cur || t.min.CompareAndSwap(cur, nanos) {
			break
		}
	}
	for {
		cur := t.max.Load()
		if nanos <= cur || t.max.CompareAndSwap(cur, nanos) {
			break
		}
	}
}

// Count returns the number of recorded durations
func (t *Timer) Count() int64 { return t.count.Load() }

// Min returns the shortest duration, 0 when nothing was recorded
func (t *Timer) Min() time.Duration {
	m := t.min.Load()
	if m == math.MaxInt64 {
		return 0
	}
	return time.Duration(m)
}

// Max returns the longest duration
func (t *Timer) Max() time.Duration { return time.Duration(t.max.Load()) }

// Avg returns the mean duration
func (t *Timer) Avg() time.Duration {
	n := t.count.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(t.total.Load() / n)
}

// BatchStats aggregates the outcome of analysis requests
type BatchStats struct {
	Succeeded Counter
	Failed    Counter
	InFlight  Gauge
	Latency   *Timer
	started   time.Time
}

// NewBatchStats starts a batch
func NewBatchStats() *BatchStats {
	return &BatchStats{Latency: NewTimer(), started: time.Now()}
}

// Track runs fn as one request, recording its latency and outcome
func (s *BatchStats) Track(fn func() error) error {
	s.InFlight.Inc()
	start := time.Now()
	err := fn()
	s.Latency.Record(time.Since(start))
	s.InFlight.Dec()

	if err != nil {
		s.Failed.Inc()
	} else {
		s.Succeeded.Inc()
	}
	return err
}

// Summary is a one-line description of the batch
func (s *BatchStats) Summary() string {
	return fmt.Sprintf("%d analyzed, %d failed in %s (avg %s, min %s, max %s, peak concurrency %d)",
		s.Succeeded.Get(), s.Failed.Get(),
		time.Since(s.started).Round(time.Millisecond),
		s.Latency.Avg().Round(time.Millisecond),
		s.Latency.Min().Round(time.Millisecond),
		s.Latency.Max().Round(time.Millisecond),
		s.InFlight.Peak())
}
