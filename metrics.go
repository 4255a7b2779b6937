package mypthreads

import (
	"sync/atomic"
)

// LatencyBuckets defines the dispatch-latency histogram buckets in
// nanoseconds: how long a thread ran before yielding back to the
// scheduler. Logarithmic spacing from 1us to 10s.
var LatencyBuckets = []uint64{
	1_000,          // 1us
	10_000,         // 10us
	100_000,        // 100us
	1_000_000,      // 1ms
	10_000_000,     // 10ms
	100_000_000,    // 100ms
	1_000_000_000,  // 1s
	10_000_000_000, // 10s
}

const numLatencyBuckets = 8

// Metrics tracks scheduler-level counters for a Runtime.
type Metrics struct {
	DispatchCount     atomic.Uint64
	YieldCount        atomic.Uint64
	BlockCount        atomic.Uint64
	ExitCount         atomic.Uint64
	JoinCount         atomic.Uint64
	DeadlineMissCount atomic.Uint64
	MutexContention   atomic.Uint64

	TotalDispatchNs atomic.Uint64
	LatencyBuckets  [numLatencyBuckets]atomic.Uint64
}

// NewMetrics creates a new, zeroed Metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordDispatch records one dispatch's duration and updates the
// histogram.
func (m *Metrics) RecordDispatch(durationNs uint64) {
	m.DispatchCount.Add(1)
	m.TotalDispatchNs.Add(durationNs)
	for i, bucket := range LatencyBuckets {
		if durationNs <= bucket {
			m.LatencyBuckets[i].Add(1)
		}
	}
}

// RecordStateChange increments the counter matching the target state a
// thread just transitioned into.
func (m *Metrics) RecordStateChange(to State) {
	switch to {
	case StateReady:
		m.YieldCount.Add(1)
	case StateBlocked:
		m.BlockCount.Add(1)
	case StateTerminated:
		m.ExitCount.Add(1)
	}
}

// RecordDeadlineMiss increments the deadline-miss counter.
func (m *Metrics) RecordDeadlineMiss() {
	m.DeadlineMissCount.Add(1)
}

// RecordMutexContention increments the mutex-contention counter.
func (m *Metrics) RecordMutexContention() {
	m.MutexContention.Add(1)
}

// MetricsSnapshot is a point-in-time copy of Metrics' counters.
type MetricsSnapshot struct {
	DispatchCount     uint64
	YieldCount        uint64
	BlockCount        uint64
	ExitCount         uint64
	DeadlineMissCount uint64
	MutexContention   uint64

	AvgDispatchNs uint64

	LatencyHistogram [numLatencyBuckets]uint64
}

// Snapshot returns a point-in-time snapshot of m.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		DispatchCount:     m.DispatchCount.Load(),
		YieldCount:        m.YieldCount.Load(),
		BlockCount:        m.BlockCount.Load(),
		ExitCount:         m.ExitCount.Load(),
		DeadlineMissCount: m.DeadlineMissCount.Load(),
		MutexContention:   m.MutexContention.Load(),
	}
	if snap.DispatchCount > 0 {
		snap.AvgDispatchNs = m.TotalDispatchNs.Load() / snap.DispatchCount
	}
	for i := 0; i < numLatencyBuckets; i++ {
		snap.LatencyHistogram[i] = m.LatencyBuckets[i].Load()
	}
	return snap
}

// Reset zeroes all counters.
func (m *Metrics) Reset() {
	m.DispatchCount.Store(0)
	m.YieldCount.Store(0)
	m.BlockCount.Store(0)
	m.ExitCount.Store(0)
	m.JoinCount.Store(0)
	m.DeadlineMissCount.Store(0)
	m.MutexContention.Store(0)
	m.TotalDispatchNs.Store(0)
	for i := 0; i < numLatencyBuckets; i++ {
		m.LatencyBuckets[i].Store(0)
	}
}

// Observer allows pluggable collection of run-loop and scheduler events.
type Observer interface {
	ObserveDispatch(threadID ThreadId, durationNs uint64)
	ObserveStateChange(threadID ThreadId, from, to string)
	ObserveDeadlineMiss(threadID ThreadId, deadlineMs, nowMs uint64)
	ObserveMutexContention(threadID ThreadId)
}

// NoOpObserver discards every event.
type NoOpObserver struct{}

func (NoOpObserver) ObserveDispatch(ThreadId, uint64)             {}
func (NoOpObserver) ObserveStateChange(ThreadId, string, string)  {}
func (NoOpObserver) ObserveDeadlineMiss(ThreadId, uint64, uint64) {}
func (NoOpObserver) ObserveMutexContention(ThreadId)              {}

// MetricsObserver implements Observer by recording into a Metrics.
type MetricsObserver struct {
	metrics *Metrics
}

// NewMetricsObserver creates an observer that records into m.
func NewMetricsObserver(m *Metrics) *MetricsObserver {
	return &MetricsObserver{metrics: m}
}

func (o *MetricsObserver) ObserveDispatch(_ ThreadId, durationNs uint64) {
	o.metrics.RecordDispatch(durationNs)
}

// ObserveStateChange records one of the run_once response kinds into the
// matching counter. "to" is whatever internal/runtime's observeState
// passes ("ready", "blocked", "terminated", ...); anything else (e.g.
// "running", which has no counter) is ignored.
func (o *MetricsObserver) ObserveStateChange(_ ThreadId, _, to string) {
	switch to {
	case "ready":
		o.metrics.RecordStateChange(StateReady)
	case "blocked":
		o.metrics.RecordStateChange(StateBlocked)
	case "terminated":
		o.metrics.RecordStateChange(StateTerminated)
	}
}

func (o *MetricsObserver) ObserveDeadlineMiss(ThreadId, uint64, uint64) {
	o.metrics.RecordDeadlineMiss()
}

func (o *MetricsObserver) ObserveMutexContention(ThreadId) {
	o.metrics.RecordMutexContention()
}

var (
	_ Observer = (*MetricsObserver)(nil)
	_ Observer = NoOpObserver{}
)
