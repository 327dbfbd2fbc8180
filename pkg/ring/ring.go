// Package ring implements a lock-free multi-producer multi-consumer ring buffer.
package ring

import (
	"math"
	"runtime"
	"sync/atomic"
)

const (
	// CacheLine size to prevent false sharing
	CacheLine = 64
)

// padding ensures cache line alignment
type padding [CacheLine]byte

// safeUint64ToInt converts u to int with an upper bound to avoid overflow.
func safeUint64ToInt(u uint64) int {
	maxU := uint64(math.MaxInt)
	if u > maxU {
		return math.MaxInt
	}
	return int(u)
}

// Ring is a lock-free multi-producer multi-consumer ring buffer. internal/feed
// uses it to decouple a Redis BLPOP polling cadence from Pool.Submit
// backpressure: one goroutine prefetches descriptors into the ring while
// another drains it into the pool at whatever rate Submit allows.
type Ring[T any] struct {
	_              padding
	capacity       uint32
	mask           uint32
	_              padding
	writePos       atomic.Uint64
	_              padding
	readPos        atomic.Uint64
	_              padding
	buffer         []atomic.Pointer[T]
	_              padding
	cachedWritePos atomic.Uint64
	_              padding
	cachedReadPos  atomic.Uint64
}

// New creates a new ring buffer with the given capacity.
// capacity must be a power of 2.
func New[T any](capacity uint32) *Ring[T] {
	if capacity == 0 || (capacity&(capacity-1)) != 0 {
		panic("capacity must be a power of 2")
	}

	r := &Ring[T]{
		capacity: capacity,
		mask:     capacity - 1,
		buffer:   make([]atomic.Pointer[T], capacity),
	}

	for i := range r.buffer {
		r.buffer[i].Store(nil)
	}

	return r
}

// Put attempts to put an item into the ring buffer.
// Returns false if the buffer is full.
func (r *Ring[T]) Put(item *T) bool {
	var writePos, readPos uint64

	for {
		writePos = r.writePos.Load()
		readPos = r.cachedReadPos.Load()

		if writePos-readPos >= uint64(r.capacity) {
			r.cachedReadPos.Store(r.readPos.Load())
			readPos = r.cachedReadPos.Load()

			if writePos-readPos >= uint64(r.capacity) {
				return false
			}
		}

		if r.writePos.CompareAndSwap(writePos, writePos+1) {
			break
		}

		runtime.Gosched()
	}

	idx := writePos & uint64(r.mask)
	r.buffer[idx].Store(item)

	return true
}

// Get attempts to get an item from the ring buffer.
// Returns nil if the buffer is empty.
func (r *Ring[T]) Get() *T {
	var readPos, writePos uint64

	for {
		readPos = r.readPos.Load()
		writePos = r.cachedWritePos.Load()

		if readPos >= writePos {
			r.cachedWritePos.Store(r.writePos.Load())
			writePos = r.cachedWritePos.Load()

			if readPos >= writePos {
				return nil
			}
		}

		if r.readPos.CompareAndSwap(readPos, readPos+1) {
			break
		}

		runtime.Gosched()
	}

	idx := readPos & uint64(r.mask)
	retryCount := 0
	const maxRetries = 1000
	for {
		if it := r.buffer[idx].Swap(nil); it != nil {
			return it
		}
		retryCount++
		if retryCount > maxRetries {
			return nil
		}
		runtime.Gosched()
	}
}

// TryPutBatch attempts to put multiple items into the ring buffer.
// Returns the number of items successfully put.
func (r *Ring[T]) TryPutBatch(items []*T) int {
	count := 0
	for i := 0; i < len(items); i++ {
		if !r.Put(items[i]) {
			break
		}
		count++
	}
	return count
}

// TryGetBatch attempts to get multiple items from the ring buffer.
// Returns the actual number of items retrieved.
func (r *Ring[T]) TryGetBatch(items []*T) int {
	count := 0
	for i := 0; i < len(items); i++ {
		item := r.Get()
		if item == nil {
			break
		}
		items[i] = item
		count++
	}
	return count
}

// Size returns the current number of items in the buffer.
func (r *Ring[T]) Size() int {
	writePos := r.writePos.Load()
	readPos := r.readPos.Load()
	u := writePos - readPos
	capU := uint64(r.capacity)
	if u > capU {
		u = capU
	}
	return safeUint64ToInt(u)
}

// IsEmpty returns true if the buffer is empty.
func (r *Ring[T]) IsEmpty() bool {
	return r.Size() == 0
}

// IsFull returns true if the buffer is full.
func (r *Ring[T]) IsFull() bool {
	return r.Size() >= int(r.capacity)
}

// Capacity returns the capacity of the ring buffer.
func (r *Ring[T]) Capacity() int {
	return int(r.capacity)
}

// AvailableForWrite returns the number of slots available for writing.
func (r *Ring[T]) AvailableForWrite() int {
	return int(r.capacity) - r.Size()
}

// DrainTo drains all available items to the provided function.
// Returns the number of items drained. internal/feed uses this on shutdown
// to flush anything already prefetched before the source stops.
func (r *Ring[T]) DrainTo(fn func(*T)) int {
	count := 0
	for {
		item := r.Get()
		if item == nil {
			break
		}
		fn(item)
		count++
	}
	return count
}
