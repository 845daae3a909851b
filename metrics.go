package kernel

import (
	"sync/atomic"
	"time"
)

// numLatencyBuckets matches the fixed set of boundaries below: 1us, 10us,
// 100us, 1ms, 10ms, 100ms, 1s, 10s.
const numLatencyBuckets = 8

// latencyBucketBoundsNs are cumulative: bucket i counts every observation
// <= its bound, so the last bucket holds the running total.
var latencyBucketBoundsNs = [numLatencyBuckets]uint64{
	1_000,
	10_000,
	100_000,
	1_000_000,
	10_000_000,
	100_000_000,
	1_000_000_000,
	10_000_000_000,
}

// numSyscalls is one past the highest defined syscall number.
const numSyscalls = 8

// Metrics tracks operational statistics for a running Kernel: syscall
// volume (overall and per-number), dispatch latency, reschedule outcomes,
// and message codec traffic. It is safe for concurrent use.
type Metrics struct {
	SyscallCount    atomic.Uint64
	UnknownSyscalls atomic.Uint64
	TickCount       atomic.Uint64
	ContextSwitches atomic.Uint64 // reschedules that returned a different context than supplied

	SyscallByNumber [numSyscalls]atomic.Uint64

	TotalLatencyNs atomic.Uint64
	LatencyBuckets [numLatencyBuckets]atomic.Uint64

	MessagesSent     atomic.Uint64
	MessagesReceived atomic.Uint64
	SendErrors       atomic.Uint64
	FragmentsDropped atomic.Uint64
	BytesSent        atomic.Uint64
	BytesReceived    atomic.Uint64

	StartTime atomic.Int64
}

// NewMetrics returns a Metrics with StartTime set to now.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.StartTime.Store(time.Now().UnixNano())
	return m
}

// recordLatency adds ns to the running total and increments every bucket
// whose boundary is at or above ns, producing a cumulative-count
// histogram: bucket i holds the count of observations <= its bound.
func (m *Metrics) recordLatency(ns uint64) {
	m.TotalLatencyNs.Add(ns)
	for i, bound := range latencyBucketBoundsNs {
		if ns <= bound {
			m.LatencyBuckets[i].Add(1)
		}
	}
}

// RecordTrap records one Trap call: num is the dispatched syscall number
// (tallied per-number when known), switched reports whether dispatch
// resulted in a context switch, and latency is the measured dispatch
// duration.
func (m *Metrics) RecordTrap(num int, known bool, switched bool, latency time.Duration) {
	m.SyscallCount.Add(1)
	if !known {
		m.UnknownSyscalls.Add(1)
	} else if num >= 0 && num < numSyscalls {
		m.SyscallByNumber[num].Add(1)
	}
	if switched {
		m.ContextSwitches.Add(1)
	}
	m.recordLatency(uint64(latency.Nanoseconds()))
}

// RecordTick records one Tick call and whether it resulted in a context
// switch.
func (m *Metrics) RecordTick(switched bool) {
	m.TickCount.Add(1)
	if switched {
		m.ContextSwitches.Add(1)
	}
}

// RecordSend records the outcome of one message Send call; n is the
// payload length sent when err is nil.
func (m *Metrics) RecordSend(n int, err error) {
	if err != nil {
		m.SendErrors.Add(1)
		return
	}
	m.MessagesSent.Add(1)
	m.BytesSent.Add(uint64(n))
}

// RecordRecv records one successful message Recv call; n is the
// reassembled message length.
func (m *Metrics) RecordRecv(n int) {
	m.MessagesReceived.Add(1)
	m.BytesReceived.Add(uint64(n))
}

// RecordDroppedFragments tallies bogus fragments the codec discarded
// during a Recv call, whether or not that call completed a message.
func (m *Metrics) RecordDroppedFragments(n int) {
	if n > 0 {
		m.FragmentsDropped.Add(uint64(n))
	}
}

// MetricsSnapshot is a point-in-time copy of Metrics' counters.
type MetricsSnapshot struct {
	SyscallCount     uint64
	UnknownSyscalls  uint64
	TickCount        uint64
	ContextSwitches  uint64
	SyscallByNumber  [numSyscalls]uint64
	TotalLatencyNs   uint64
	LatencyBuckets   [numLatencyBuckets]uint64
	MessagesSent     uint64
	MessagesReceived uint64
	SendErrors       uint64
	FragmentsDropped uint64
	BytesSent        uint64
	BytesReceived    uint64
	UptimeNs         uint64
}

// AverageLatencyNs returns the mean recorded trap-dispatch latency, or 0 if
// none have been recorded yet.
func (s MetricsSnapshot) AverageLatencyNs() uint64 {
	if s.SyscallCount == 0 {
		return 0
	}
	return s.TotalLatencyNs / s.SyscallCount
}

// Percentile estimates the given percentile (0..100) of trap-dispatch
// latency from the cumulative bucket counts, returning the upper bound of
// the first bucket whose count reaches the target rank.
func (s MetricsSnapshot) Percentile(p float64) uint64 {
	total := s.LatencyBuckets[numLatencyBuckets-1]
	if total == 0 {
		return 0
	}
	target := uint64(p / 100 * float64(total))
	for i, count := range s.LatencyBuckets {
		if count >= target {
			return latencyBucketBoundsNs[i]
		}
	}
	return latencyBucketBoundsNs[numLatencyBuckets-1]
}

// Snapshot returns a MetricsSnapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		SyscallCount:     m.SyscallCount.Load(),
		UnknownSyscalls:  m.UnknownSyscalls.Load(),
		TickCount:        m.TickCount.Load(),
		ContextSwitches:  m.ContextSwitches.Load(),
		TotalLatencyNs:   m.TotalLatencyNs.Load(),
		MessagesSent:     m.MessagesSent.Load(),
		MessagesReceived: m.MessagesReceived.Load(),
		SendErrors:       m.SendErrors.Load(),
		FragmentsDropped: m.FragmentsDropped.Load(),
		BytesSent:        m.BytesSent.Load(),
		BytesReceived:    m.BytesReceived.Load(),
		UptimeNs:         uint64(time.Now().UnixNano() - m.StartTime.Load()),
	}
	for i := range m.SyscallByNumber {
		s.SyscallByNumber[i] = m.SyscallByNumber[i].Load()
	}
	for i := range m.LatencyBuckets {
		s.LatencyBuckets[i] = m.LatencyBuckets[i].Load()
	}
	return s
}
