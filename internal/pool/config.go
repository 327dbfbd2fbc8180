package pool

import "github.com/ibs-source/gopool/internal/ports"

// Config parametrizes New, matching ctp_init(threads_num, queue_size, block)
// from the original C pool plus an injected logger.
type Config struct {
	// Threads is the maximum number of workers that may ever be spawned.
	// Zero infers the value from the CPU probe (numCPU).
	Threads int
	// QueueSize is the ring buffer capacity. Zero infers
	// max(MinQueueSize, Threads*QueueFactor).
	QueueSize int
	// Block, when true, makes Submit wait for a free slot instead of
	// failing immediately when the queue is full.
	Block bool
	// Logger receives structured lifecycle events. A nil Logger is
	// replaced by a no-op logger so the pool has no mandatory logging
	// side effect.
	Logger ports.Logger
}

// resolve validates cfg and fills in inferred defaults, returning the
// concrete (threads, queueSize) pair New should construct with.
func (c Config) resolve() (threads, queueSize int, err error) {
	if c.Threads < 0 {
		return 0, 0, &ConfigError{Message: "Threads must not be negative"}
	}
	if c.QueueSize < 0 {
		return 0, 0, &ConfigError{Message: "QueueSize must not be negative"}
	}

	threads = c.Threads
	if threads == 0 {
		threads = numCPU()
	}

	queueSize = c.QueueSize
	if queueSize == 0 {
		queueSize = threads * QueueFactor
		if queueSize < MinQueueSize {
			queueSize = MinQueueSize
		}
	}

	return threads, queueSize, nil
}
