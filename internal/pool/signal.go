package pool

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// signal is a counting wakeup notifier modeled directly on a POSIX sem_t
// rather than golang.org/x/sync/semaphore.Weighted: spec §4.2 step 6 /
// §4.3 step 2 deliberately tolerate a worker recording itself as waiting
// (waiting++; unlock()) before it actually calls wait. A producer racing in
// during that window observes waiting>0 and posts again before the first
// post is consumed, so the same worker can be posted to more than once
// before it ever sleeps. A real sem_t absorbs this harmlessly: its value
// just transiently exceeds the "real" number of sleepers. A Weighted
// semaphore pre-acquired down to a fixed capacity has no such slack — its
// Release panics ("released more than held") the moment a duplicate post
// pushes it past that capacity, which is reachable with an ordinary
// threadsNum=1 pool under concurrent Submit. A condition-variable-backed
// counter has no ceiling at all: pending wakeups simply accumulate until a
// waiter consumes them, exactly like sem_t.
type signal struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending int
}

func newSignal() *signal {
	s := &signal{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// post records one pending wakeup and wakes at most one waiter.
func (s *signal) post() {
	s.mu.Lock()
	s.pending++
	s.mu.Unlock()
	s.cond.Signal()
}

// postN records n pending wakeups and wakes every current waiter, used by
// Resume/Finish to release every worker sleeping on the pool.
func (s *signal) postN(n int) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	s.pending += n
	s.mu.Unlock()
	s.cond.Broadcast()
}

// wait blocks until a pending wakeup is available or ctx is done.
func (s *signal) wait(ctx context.Context) error {
	if ctx.Done() != nil {
		stop := context.AfterFunc(ctx, s.cond.Broadcast)
		defer stop()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for s.pending == 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.cond.Wait()
	}
	s.pending--
	return nil
}

// slot is a counting semaphore of free ring slots, matching sem_add in the
// original: it starts full (every slot free) and Acquire/Release move in
// the natural Weighted polarity. Unlike signal, every release here
// corresponds to a slot previously acquired (Submit acquires one per
// enqueue, ClearQueue releases exactly the n it reclaims), so Weighted's
// held-capacity accounting can never be driven negative.
type slot struct {
	sem *semaphore.Weighted
}

func newSlot(capacity int) *slot {
	return &slot{sem: semaphore.NewWeighted(int64(capacity))}
}

func (s *slot) tryAcquire() bool { return s.sem.TryAcquire(1) }

func (s *slot) acquire(ctx context.Context) error { return s.sem.Acquire(ctx, 1) }

func (s *slot) release() { s.sem.Release(1) }

func (s *slot) releaseN(n int) {
	if n > 0 {
		s.sem.Release(int64(n))
	}
}
