package pool

import (
	"sync/atomic"
	"time"

	"github.com/ibs-source/gopool/pkg/ring"
)

// latencyRingCapacity bounds how many recent task-latency samples Metrics
// retains at once. Must be a power of two (pkg/ring.New's contract); sized
// generously enough that a burst of completions between two drains rarely
// overruns it, while staying cheap to allocate per Pool.
const latencyRingCapacity = 1024

// Metrics holds atomic lifetime counters for a Pool, in the same
// allocate-once/atomic-field style the teacher uses for its stream-pipeline
// metrics (internal/domain/metrics.go in the teacher repository). Unlike
// the pool's own mutex-guarded state, these counters are incremented
// outside the pool lock and are safe to read concurrently with everything
// else the pool does.
//
// latency is a lock-free sample ring (pkg/ring, shared with the Redis
// feed's prefetch buffer) recording how long each completed or panicked
// task spent in runTask. Sampling is best-effort: a full ring drops the
// newest sample rather than ever blocking the worker that produced it.
type Metrics struct {
	Submitted atomic.Uint64
	Rejected  atomic.Uint64
	Completed atomic.Uint64
	Panicked  atomic.Uint64

	latency *ring.Ring[time.Duration]
}

// newMetrics returns a Metrics with its latency ring allocated. Used only
// from Pool.New; the zero Metrics value is not valid because latency must
// never be nil.
func newMetrics() Metrics {
	return Metrics{latency: ring.New[time.Duration](latencyRingCapacity)}
}

// recordLatency samples one task's execution duration. Dropped silently if
// the ring is currently full.
func (m *Metrics) recordLatency(d time.Duration) {
	m.latency.Put(&d)
}

// DrainLatencySamples removes and returns every latency sample currently
// buffered, in FIFO order, leaving the ring empty. Intended for an
// observability exporter to poll periodically; samples accumulated between
// polls beyond latencyRingCapacity are lost rather than overwritten.
func (m *Metrics) DrainLatencySamples() []time.Duration {
	samples := make([]time.Duration, 0, latencyRingCapacity)
	m.latency.DrainTo(func(d *time.Duration) {
		samples = append(samples, *d)
	})
	return samples
}

// Snapshot is a point-in-time copy of Metrics's counters suitable for
// logging or publishing without exposing the atomic fields themselves.
// Latency samples are not part of Snapshot since draining them is
// destructive; use DrainLatencySamples explicitly for that.
type Snapshot struct {
	Submitted uint64
	Rejected  uint64
	Completed uint64
	Panicked  uint64
}

// Snapshot reads all counters. Individual reads are atomic; the tuple as a
// whole is not a consistent point-in-time snapshot under concurrent writes,
// which is acceptable for the advisory, observational use this type serves.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		Submitted: m.Submitted.Load(),
		Rejected:  m.Rejected.Load(),
		Completed: m.Completed.Load(),
		Panicked:  m.Panicked.Load(),
	}
}
