// Package pool implements a bounded, multi-producer/multi-consumer thread
// pool: a ring-buffer work queue coordinated by a mutex, a counting wake
// notifier, and a counting free-slot semaphore, a lazy-spawn worker policy,
// a pause/resume mechanism that logically hides queued work without
// dropping it, and a deterministic drain-on-finish shutdown.
//
// It is a generalization, in the teacher repository's idiom, of
// internal/processor/worker_pool.go + task_queue.go (channel- and
// atomic-based) to the ring-buffer/mutex/semaphore design described in
// SPEC_FULL.md, itself a port of original_source/ctpool.c.
package pool

import (
	"context"
	"sync"

	"github.com/ibs-source/gopool/internal/logger"
	"github.com/ibs-source/gopool/internal/ports"
)

// Pool is the bounded thread pool described by SPEC_FULL.md §3-4.
type Pool struct {
	mu sync.Mutex

	r          *ring
	queueSize  int
	queueCount int // spec's queue_count: visible count, always 0 while paused
	hidden     int // spec's old_count: hidden count, meaningful only while paused
	paused     bool

	threadsNum int
	running    int
	waiting    int
	block      bool
	done       bool

	wake *signal
	free *slot

	wg sync.WaitGroup

	log     ports.Logger
	Metrics Metrics
}

// New constructs a Pool per Config. The only failure mode is an invalid
// Config (negative Threads or QueueSize); unlike the C original, Go has no
// partial-construction allocation failure to recover from, so there is no
// free-resources ladder to unwind (see DESIGN.md).
func New(cfg Config) (*Pool, error) {
	threads, queueSize, err := cfg.resolve()
	if err != nil {
		return nil, err
	}

	log := cfg.Logger
	if log == nil {
		log = logger.NewNoop()
	}

	p := &Pool{
		r:           newRing(queueSize),
		queueSize:   queueSize,
		threadsNum:  threads,
		block:       cfg.Block,
		wake:        newSignal(),
		free:        newSlot(queueSize),
		log:         log.WithFields(ports.Field{Key: "component", Value: "pool"}),
		Metrics:     newMetrics(),
	}

	p.log.Info("pool created",
		ports.Field{Key: "threads", Value: threads},
		ports.Field{Key: "queue_size", Value: queueSize},
		ports.Field{Key: "block", Value: cfg.Block},
	)

	return p, nil
}

// activeCount returns whichever counter is currently in effect: queueCount
// when running, hidden when paused (spec §4.2 step 2).
func (p *Pool) activeCount() int {
	if p.paused {
		return p.hidden
	}
	return p.queueCount
}

func (p *Pool) incActiveCount() {
	if p.paused {
		p.hidden++
	} else {
		p.queueCount++
	}
}

func (p *Pool) decActiveCount() {
	if p.paused {
		p.hidden--
	} else {
		p.queueCount--
	}
}

// Submit enqueues task for execution, implementing spec.md §4.2 exactly,
// including the rollback-vs-absorb asymmetry on spawn failure (see
// DESIGN.md for why that branch is unreachable under Go's goroutine model,
// and is kept only for structural fidelity to the original).
func (p *Pool) Submit(task func()) bool {
	p.mu.Lock()

	if p.done {
		p.mu.Unlock()
		p.Metrics.Rejected.Add(1)
		return false
	}

	if p.activeCount() == p.queueSize {
		if !p.block || p.paused {
			p.mu.Unlock()
			p.Metrics.Rejected.Add(1)
			return false
		}
		if !p.waitForSlot() {
			p.mu.Unlock()
			p.Metrics.Rejected.Add(1)
			return false
		}
	} else if !p.free.tryAcquire() {
		// Invariant 5 guarantees a free slot exists whenever the active
		// counter is below capacity; reaching here means the invariant
		// was violated elsewhere, which is a bug, not a runtime condition.
		p.mu.Unlock()
		panic("pool: slot semaphore invariant violated")
	}

	p.r.put(p.activeCount(), task)
	p.incActiveCount()

	accepted := p.wakeOrSpawnLocked()
	if !accepted {
		p.decActiveCount()
		p.free.release()
	}

	p.mu.Unlock()

	if accepted {
		p.Metrics.Submitted.Add(1)
	} else {
		p.Metrics.Rejected.Add(1)
	}
	return accepted
}

// SubmitArg is a closure-capturing adapter for callers porting code written
// against the original's func(void*)+argument ABI (Design Notes §9).
func (p *Pool) SubmitArg(fn func(arg any), arg any) bool {
	return p.Submit(func() { fn(arg) })
}

// waitForSlot implements spec §4.2 step 3's blocking branch: release the
// lock, block for a free slot, re-acquire the lock, and retry if another
// producer raced in and refilled the queue first. Returns false only if
// the context is canceled, which cannot happen with context.Background
// and is kept for defensiveness.
func (p *Pool) waitForSlot() bool {
	for {
		p.mu.Unlock()
		err := p.free.acquire(context.Background())
		p.mu.Lock()
		if err != nil {
			return false
		}
		if p.activeCount() != p.queueSize {
			return true
		}
		p.free.release()
	}
}

// wakeOrSpawnLocked implements spec §4.2 step 6. Caller holds p.mu.
func (p *Pool) wakeOrSpawnLocked() bool {
	if p.waiting > 0 {
		p.wake.post()
		return true
	}
	if p.running < p.threadsNum {
		p.spawnWorkerLocked()
		return true
	}
	// threadsNum reached and no one sleeping: an already-running worker
	// will pick this task up on its next loop.
	return true
}

// spawnWorkerLocked starts one worker goroutine. Caller holds p.mu. Unlike
// pthread_create, a Go goroutine launch cannot fail, so the original's
// rollback-on-cold-failure / absorb-on-warm-failure branches collapse: a
// spawn here always succeeds (DESIGN.md Open Question O-3).
func (p *Pool) spawnWorkerLocked() {
	p.running++
	p.wg.Add(1)
	go p.runWorker()
}

// Pause hides currently queued work from workers without discarding it.
// Idempotent (spec §4.4).
func (p *Pool) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paused {
		return
	}
	p.hidden = p.queueCount
	p.queueCount = 0
	p.paused = true
}

// Resume reveals work hidden by Pause and wakes every sleeping worker.
// Idempotent on an already-running pool.
func (p *Pool) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.paused {
		return
	}
	p.queueCount = p.hidden
	p.hidden = 0
	p.paused = false
	p.wake.postN(p.waiting)
}

// ClearQueue discards queued-but-unstarted work; tasks already executing
// are unaffected. Per SPEC_FULL.md §4.4 (the "safer reimplementation"
// option from Design Notes §9), the reclaimed slots are reposted to the
// slot semaphore rather than left for Finish to absorb.
func (p *Pool) ClearQueue() {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := p.activeCount()
	if p.paused {
		p.hidden = 0
	} else {
		p.queueCount = 0
	}
	p.r.clear()
	p.free.releaseN(n)
}

// Finish is the terminal, idempotent, draining shutdown of spec §4.5. It
// blocks until every spawned worker has drained the queue and exited, or
// until ctx is done, whichever comes first; on ctx expiry it still returns
// (Go has no safe way to kill a goroutine), but stops blocking the caller.
// It reports the number of workers that were spawned over the pool's
// lifetime.
func (p *Pool) Finish(ctx context.Context) int {
	p.mu.Lock()
	if p.done {
		p.mu.Unlock()
		return 0
	}

	p.done = true
	spawned := p.running

	if p.paused {
		p.queueCount = p.hidden
		p.hidden = 0
		p.paused = false
	}

	p.wake.postN(p.waiting)
	p.mu.Unlock()

	p.log.Info("pool finishing", ports.Field{Key: "spawned", Value: spawned})

	doneCh := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(doneCh)
	}()

	select {
	case <-doneCh:
	case <-ctx.Done():
		p.log.Warn("pool finish deadline exceeded; workers still draining")
	}

	return spawned
}

// Status reports the pool's current state: StatusPaused, StatusIdle, or
// StatusRunning (spec §4.6). This is an advisory snapshot — it may change
// between the read and the caller's next action.
func (p *Pool) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paused {
		return StatusPaused
	}
	if p.waiting == p.running {
		return StatusIdle
	}
	return StatusRunning
}

// ThreadsNum returns the maximum number of workers that may ever be
// spawned. Constant after New.
func (p *Pool) ThreadsNum() int { return p.threadsNum }

// QueueSize returns the ring buffer capacity. Constant after New.
func (p *Pool) QueueSize() int { return p.queueSize }

// WorksCount returns the number of tasks currently enqueued (visible or
// hidden by pause, whichever is active).
func (p *Pool) WorksCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.activeCount()
}

// LoadFactor returns round_half_up((running+count)*100/threadsNum), taken
// verbatim from the original's ctp_get_load_factor. No guarantee it is
// <= 100.
func (p *Pool) LoadFactor() int {
	p.mu.Lock()
	running := p.running
	count := p.activeCount()
	p.mu.Unlock()

	sum := float64(running + count)
	k := (sum*100.0)/float64(p.threadsNum) + 0.5
	return int(k)
}
