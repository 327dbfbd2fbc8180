// Package feed pulls task descriptors from Redis and submits them to the pool.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/ibs-source/gopool/internal/config"
	"github.com/ibs-source/gopool/internal/pool"
	"github.com/ibs-source/gopool/internal/ports"
	"github.com/ibs-source/gopool/pkg/circuitbreaker"
	"github.com/ibs-source/gopool/pkg/jsonx"
	"github.com/ibs-source/gopool/pkg/ring"
	goredis "github.com/redis/go-redis/v9"
)

const (
	stateIdle int32 = iota
	stateRunning
	stateStopping
	stateStopped
)

// descriptor is the wire shape fetched from the Redis list: a task ID
// (stamped with a fresh UUID when the producer omits one) plus an opaque
// payload handed to the submitted closure untouched.
type descriptor struct {
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"payload"`
}

// RedisSource polls a Redis list with BLPOP, decodes JSON task descriptors,
// and submits one closure per descriptor into the pool. A lock-free ring
// buffer sits between the fetch loop and the submit loop so a momentarily
// full pool never blocks the next BLPOP round trip, and a circuit breaker
// wraps each round trip so a failing Redis stops being hammered.
type RedisSource struct {
	client goredis.UniversalClient
	cfg    config.FeedConfig
	pool   *pool.Pool
	cb     *circuitbreaker.CircuitBreaker
	buf    *ring.Ring[descriptor]
	log    ports.Logger

	state  atomic.Int32
	cancel context.CancelFunc
	bgWg   sync.WaitGroup
}

// NewRedisSource constructs a RedisSource from cfg, wiring a UniversalClient
// and a circuit breaker sized from cfg's threshold fields.
func NewRedisSource(cfg config.FeedConfig, p *pool.Pool, log ports.Logger) (*RedisSource, error) {
	client := goredis.NewUniversalClient(&goredis.UniversalOptions{
		Addrs:        []string{cfg.Address},
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	cb := circuitbreaker.New(
		"redis-feed",
		cfg.ErrorThreshold,
		cfg.SuccessThreshold,
		cfg.OpenTimeout,
		cfg.MaxConcurrent,
		cfg.VolumeThreshold,
	)

	return &RedisSource{
		client: client,
		cfg:    cfg,
		pool:   p,
		cb:     cb,
		buf:    ring.New[descriptor](nextPowerOfTwo(cfg.PrefetchSize)),
		log:    log.WithFields(ports.Field{Key: "component", Value: "feed"}),
	}, nil
}

// Start launches the fetch and submit loops. Idempotent: returns an error
// if the source is already running.
func (s *RedisSource) Start(ctx context.Context) error {
	if !s.state.CompareAndSwap(stateIdle, stateRunning) {
		return errors.New("feed: already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.bgWg.Add(2)
	go func() { defer s.bgWg.Done(); s.fetchLoop(runCtx) }()
	go func() { defer s.bgWg.Done(); s.submitLoop(runCtx) }()

	s.log.Info("feed started", ports.Field{Key: "address", Value: s.cfg.Address}, ports.Field{Key: "key", Value: s.cfg.Key})
	return nil
}

// Stop cancels both loops and waits for them to exit, then closes the
// Redis client. Idempotent.
func (s *RedisSource) Stop(ctx context.Context) error {
	if !s.state.CompareAndSwap(stateRunning, stateStopping) {
		return nil
	}

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.bgWg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.log.Warn("feed stop deadline exceeded; loops still draining")
	}

	s.state.Store(stateStopped)
	return s.client.Close()
}

// fetchLoop polls Redis for descriptors and prefetches them into the ring,
// backing off while the circuit breaker is open.
func (s *RedisSource) fetchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		d, err := s.blpop(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			if errors.Is(err, circuitbreaker.ErrOpenState) {
				s.log.Warn("feed circuit open, backing off", ports.Field{Key: "timeout", Value: s.cfg.OpenTimeout})
				sleep(ctx, s.cfg.OpenTimeout)
				continue
			}
			if !errors.Is(err, errNoItem) {
				s.log.Error("feed blpop failed", ports.Field{Key: "error", Value: err})
			}
			continue
		}

		for !s.buf.Put(&d) {
			select {
			case <-ctx.Done():
				return
			default:
				time.Sleep(time.Millisecond)
			}
		}
	}
}

var errNoItem = errors.New("feed: no item available")

// blpop performs one BLPOP round trip through the circuit breaker and
// decodes the result into a descriptor, stamping a UUID when the producer
// omitted one.
func (s *RedisSource) blpop(ctx context.Context) (descriptor, error) {
	var d descriptor
	empty := false
	execErr := s.cb.Execute(func() error {
		res, err := s.client.BLPop(ctx, s.cfg.PollTimeout, s.cfg.Key).Result()
		if errors.Is(err, goredis.Nil) {
			// An empty list is a healthy round trip, not a breaker failure.
			empty = true
			return nil
		}
		if err != nil {
			return err
		}
		decoded, decodeErr := decodeDescriptor(res)
		if decodeErr != nil {
			return decodeErr
		}
		d = decoded
		return nil
	})
	if execErr != nil {
		return descriptor{}, execErr
	}
	if empty {
		return descriptor{}, errNoItem
	}
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return d, nil
}

// decodeDescriptor validates the shape of a BLPOP reply (key name, popped
// value) and JSON-decodes the value into a descriptor. Split out from blpop
// so it can be unit tested without a live Redis connection.
func decodeDescriptor(reply []string) (descriptor, error) {
	if len(reply) != 2 {
		return descriptor{}, fmt.Errorf("feed: unexpected BLPOP reply shape (%d elements)", len(reply))
	}
	var d descriptor
	if err := jsonx.Unmarshal([]byte(reply[1]), &d); err != nil {
		return descriptor{}, fmt.Errorf("feed: decode descriptor: %w", err)
	}
	return d, nil
}

// submitLoop drains the ring and submits one pool task per descriptor.
func (s *RedisSource) submitLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.buf.DrainTo(func(*descriptor) {})
			return
		default:
		}

		d := s.buf.Get()
		if d == nil {
			time.Sleep(time.Millisecond)
			continue
		}

		id, payload := d.ID, d.Payload
		submitted := s.pool.SubmitArg(func(arg any) {
			s.handleTask(id, arg.(json.RawMessage))
		}, payload)
		if !submitted {
			s.log.Warn("feed: pool rejected task", ports.Field{Key: "id", Value: id})
		}
	}
}

// handleTask is the default per-descriptor task body. The operations
// harness has no domain logic of its own beyond decoding and submission;
// a real caller wires its own work into the closure built here.
func (s *RedisSource) handleTask(id string, payload json.RawMessage) {
	s.log.Debug("feed: task executed", ports.Field{Key: "id", Value: id}, ports.Field{Key: "bytes", Value: len(payload)})
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// nextPowerOfTwo rounds n up to the next power of two, with a floor of 1,
// since ring.New requires a power-of-2 capacity but FeedConfig.PrefetchSize
// is an arbitrary positive int (it may arrive from an env var or flag).
func nextPowerOfTwo(n int) uint32 {
	if n <= 1 {
		return 1
	}
	v := uint32(n - 1)
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	return v + 1
}
