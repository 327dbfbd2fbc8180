package pool

import (
	"context"
	"time"

	"github.com/ibs-source/gopool/internal/ports"
)

// runWorker is the body of one pool worker goroutine, implementing spec
// §4.3. It reads p.queueCount, never p.hidden: a paused pool looks empty to
// every worker regardless of how much work Pause hid from them, which is
// exactly the intended effect.
func (p *Pool) runWorker() {
	defer p.wg.Done()

	for {
		p.mu.Lock()

		if p.queueCount == 0 {
			if p.done {
				p.running--
				p.mu.Unlock()
				return
			}

			p.waiting++
			p.mu.Unlock()

			if err := p.wake.wait(context.Background()); err != nil {
				p.mu.Lock()
				p.waiting--
				p.running--
				p.mu.Unlock()
				return
			}

			p.mu.Lock()
			p.waiting--
			p.mu.Unlock()
			continue
		}

		fn := p.r.take()
		p.queueCount--
		p.r.resetHeadIfEmpty(p.queueCount)
		p.free.release()
		p.mu.Unlock()

		p.runTask(fn)
	}
}

// runTask executes fn with panic recovery, since one misbehaving task must
// never take down its worker goroutine (and, transitively, the pool). Its
// wall-clock duration, panicked or not, is sampled into Metrics's latency
// ring.
func (p *Pool) runTask(fn func()) {
	start := time.Now()
	defer func() {
		p.Metrics.recordLatency(time.Since(start))
		if r := recover(); r != nil {
			p.Metrics.Panicked.Add(1)
			p.log.Error("task panicked", ports.Field{Key: "recover", Value: r})
		}
	}()

	fn()
	p.Metrics.Completed.Add(1)
}
