package ring

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("create with valid size", func(t *testing.T) {
		r := New[interface{}](1024)
		assert.NotNil(t, r)
		assert.Equal(t, 1024, r.Capacity())
		assert.True(t, r.IsEmpty())
		assert.False(t, r.IsFull())
	})

	t.Run("create with minimum size", func(t *testing.T) {
		r := New[interface{}](1)
		assert.NotNil(t, r)
		assert.Equal(t, 1, r.Capacity())
	})

	t.Run("create with non-power-of-2 size panics", func(t *testing.T) {
		assert.Panics(t, func() {
			New[interface{}](3)
		})
	})

	t.Run("create with zero size panics", func(t *testing.T) {
		assert.Panics(t, func() {
			New[interface{}](0)
		})
	})
}

func TestPutGet_Basic(t *testing.T) {
	r := New[string](16)

	testData := "test data"

	ok := r.Put(&testData)
	assert.True(t, ok)

	retrieved := r.Get()
	require.NotNil(t, retrieved)
	assert.Equal(t, testData, *retrieved)
}

func TestPutGet_Multiple(t *testing.T) {
	r := New[int](16)

	for i := 0; i < 5; i++ {
		val := i
		ok := r.Put(&val)
		assert.True(t, ok)
	}

	for i := 0; i < 5; i++ {
		retrieved := r.Get()
		require.NotNil(t, retrieved)
		assert.Equal(t, i, *retrieved)
	}
}

func TestPutGet_PutToFull(t *testing.T) {
	r := New[int](4)

	for i := 0; i < 4; i++ {
		val := i
		ok := r.Put(&val)
		assert.True(t, ok)
	}

	assert.True(t, r.IsFull())

	val := 99
	ok := r.Put(&val)
	assert.False(t, ok)

	retrieved := r.Get()
	require.NotNil(t, retrieved)

	ok = r.Put(&val)
	assert.True(t, ok)
}

func TestPutGet_GetFromEmpty(t *testing.T) {
	r := New[string](16)

	retrieved := r.Get()
	assert.Nil(t, retrieved)

	data := "test"
	r.Put(&data)

	retrieved = r.Get()
	require.NotNil(t, retrieved)
	assert.Equal(t, "test", *retrieved)
}

func TestBatchOperations(t *testing.T) {
	t.Run("try put batch", func(t *testing.T) {
		r := New[int](8)

		items := make([]*int, 5)
		for i := 0; i < 5; i++ {
			val := i
			items[i] = &val
		}

		count := r.TryPutBatch(items)
		assert.Equal(t, 5, count)
		assert.Equal(t, 5, r.Size())

		moreItems := make([]*int, 5)
		for i := 0; i < 5; i++ {
			val := i + 10
			moreItems[i] = &val
		}

		count = r.TryPutBatch(moreItems)
		assert.Equal(t, 3, count)
		assert.True(t, r.IsFull())
	})

	t.Run("try get batch", func(t *testing.T) {
		r := New[int](8)

		for i := 0; i < 6; i++ {
			val := i
			r.Put(&val)
		}

		results := make([]*int, 4)
		count := r.TryGetBatch(results)
		assert.Equal(t, 4, count)

		for i := 0; i < 4; i++ {
			assert.NotNil(t, results[i])
			assert.Equal(t, i, *results[i])
		}

		moreResults := make([]*int, 4)
		count = r.TryGetBatch(moreResults)
		assert.Equal(t, 2, count)
		assert.True(t, r.IsEmpty())
	})
}

func TestStatistics_Size(t *testing.T) {
	r := New[int](16)
	assert.Equal(t, 0, r.Size())

	for i := 0; i < 5; i++ {
		val := i
		r.Put(&val)
	}
	assert.Equal(t, 5, r.Size())

	for i := 0; i < 2; i++ {
		r.Get()
	}
	assert.Equal(t, 3, r.Size())
}

func TestStatistics_Capacity(t *testing.T) {
	r := New[int](128)
	assert.Equal(t, 128, r.Capacity())
}

func TestStatistics_IsEmpty(t *testing.T) {
	r := New[string](16)
	assert.True(t, r.IsEmpty())

	data := "test"
	r.Put(&data)
	assert.False(t, r.IsEmpty())

	r.Get()
	assert.True(t, r.IsEmpty())
}

func TestStatistics_IsFull(t *testing.T) {
	r := New[int](4)
	assert.False(t, r.IsFull())

	for i := 0; i < 4; i++ {
		val := i
		r.Put(&val)
	}
	assert.True(t, r.IsFull())

	r.Get()
	assert.False(t, r.IsFull())
}

func TestStatistics_AvailableForWrite(t *testing.T) {
	r := New[int](8)

	assert.Equal(t, 8, r.AvailableForWrite())

	for i := 0; i < 3; i++ {
		val := i
		r.Put(&val)
	}

	assert.Equal(t, 5, r.AvailableForWrite())
}

func TestDrainTo(t *testing.T) {
	r := New[int](16)

	for i := 0; i < 10; i++ {
		val := i
		r.Put(&val)
	}

	var collected []int
	count := r.DrainTo(func(item *int) {
		collected = append(collected, *item)
	})

	assert.Equal(t, 10, count)
	assert.Equal(t, 10, len(collected))
	assert.True(t, r.IsEmpty())

	for i := 0; i < 10; i++ {
		assert.Equal(t, i, collected[i])
	}
}

func TestConcurrency_PutGet(t *testing.T) {
	r := New[int](1024)
	numProducers := 10
	numConsumers := 10
	itemsPerProducer := 100

	var wg sync.WaitGroup
	var producedCount, consumedCount atomic.Int64
	consumed := make(map[int]bool)
	var mu sync.Mutex

	for i := 0; i < numProducers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < itemsPerProducer; j++ {
				val := id*1000 + j
				for !r.Put(&val) {
					runtime.Gosched()
				}
				producedCount.Add(1)
			}
		}(i)
	}

	for i := 0; i < numConsumers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for consumedCount.Load() < int64(numProducers*itemsPerProducer) {
				item := r.Get()
				if item != nil {
					mu.Lock()
					consumed[*item] = true
					mu.Unlock()
					consumedCount.Add(1)
				} else {
					runtime.Gosched()
				}
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, producedCount.Load(), consumedCount.Load())
	assert.Equal(t, int64(numProducers*itemsPerProducer), producedCount.Load())
	assert.Equal(t, numProducers*itemsPerProducer, len(consumed))
}

func TestConcurrency_BatchOperations(t *testing.T) {
	r := New[int](256)

	var wg sync.WaitGroup
	var putCount, getCount atomic.Int64

	done := make(chan struct{})

	startBatchProducers(r, 5, 20, 10, &putCount, &wg)
	startBatchConsumers(r, 5, 10, &getCount, done, &wg)

	time.Sleep(100 * time.Millisecond)
	close(done)

	wg.Wait()

	finalCount := r.DrainTo(func(_ *int) {
		getCount.Add(1)
	})

	t.Logf("Put: %d, Get: %d, Final drain: %d", putCount.Load(), getCount.Load(), finalCount)
	assert.Equal(t, putCount.Load(), getCount.Load())
	assert.True(t, r.IsEmpty())
}

func startBatchProducers(
	r *Ring[int],
	producers, rounds, batchSize int,
	putCount *atomic.Int64,
	wg *sync.WaitGroup,
) {
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for round := 0; round < rounds; round++ {
				items := make([]*int, batchSize)
				for j := 0; j < batchSize; j++ {
					val := id*10000 + round*batchSize + j
					items[j] = &val
				}
				remaining := items
				for len(remaining) > 0 {
					count := r.TryPutBatch(remaining)
					putCount.Add(int64(count))
					if count == len(remaining) {
						break
					}
					remaining = remaining[count:]
					runtime.Gosched()
				}
			}
		}(i)
	}
}

func startBatchConsumers(
	r *Ring[int],
	consumers, batchSize int,
	getCount *atomic.Int64,
	done <-chan struct{},
	wg *sync.WaitGroup,
) {
	for i := 0; i < consumers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results := make([]*int, batchSize)
			for {
				select {
				case <-done:
					return
				default:
					count := r.TryGetBatch(results)
					if count > 0 {
						getCount.Add(int64(count))
					} else {
						runtime.Gosched()
					}
				}
			}
		}()
	}
}

func TestEdgeCases(t *testing.T) {
	t.Run("single element buffer", func(t *testing.T) {
		r := New[string](1)

		data1 := "first"
		data2 := "second"

		ok := r.Put(&data1)
		assert.True(t, ok)
		assert.True(t, r.IsFull())

		ok = r.Put(&data2)
		assert.False(t, ok)

		retrieved := r.Get()
		assert.NotNil(t, retrieved)
		assert.Equal(t, "first", *retrieved)
		assert.True(t, r.IsEmpty())

		ok = r.Put(&data2)
		assert.True(t, ok)
	})

	t.Run("power of 2 sizes", func(t *testing.T) {
		sizes := []uint32{1, 2, 4, 8, 16, 32, 64, 128}

		for _, size := range sizes {
			r := New[int](size)
			assert.Equal(t, int(size), r.Capacity())

			for i := 0; i < int(size); i++ {
				val := i
				ok := r.Put(&val)
				assert.True(t, ok)
			}
			assert.True(t, r.IsFull())

			for i := 0; i < int(size); i++ {
				item := r.Get()
				assert.NotNil(t, item)
				assert.Equal(t, i, *item)
			}
			assert.True(t, r.IsEmpty())
		}
	})

	t.Run("batch with empty slices", func(t *testing.T) {
		r := New[int](16)

		count := r.TryPutBatch([]*int{})
		assert.Equal(t, 0, count)

		count = r.TryGetBatch([]*int{})
		assert.Equal(t, 0, count)
	})
}
