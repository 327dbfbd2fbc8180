// Package notify publishes periodic pool status snapshots over MQTT.
package notify

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	mqttlib "github.com/eclipse/paho.mqtt.golang"
	"github.com/ibs-source/gopool/internal/config"
	"github.com/ibs-source/gopool/internal/pool"
	"github.com/ibs-source/gopool/internal/ports"
	"github.com/ibs-source/gopool/pkg/jsonfast"
)

const (
	stateIdle int32 = iota
	stateRunning
	stateStopped
)

// StatusPublisher reads a snapshot of the pool's public observers on a fixed
// tick and publishes it to an MQTT topic. The snapshot has a fixed, known
// field set, which is exactly the case jsonfast's allocation-aware builder
// targets: one builder is reused across ticks instead of allocating a new
// encoder each time.
type StatusPublisher struct {
	client mqttlib.Client
	cfg    config.NotifyConfig
	pool   *pool.Pool
	log    ports.Logger

	builder *jsonfast.Builder
	state   atomic.Int32
	stop    chan struct{}
	wg      sync.WaitGroup
}

// NewStatusPublisher constructs a StatusPublisher and its underlying Paho
// client. The client does not connect until Start is called.
func NewStatusPublisher(cfg config.NotifyConfig, p *pool.Pool, log ports.Logger) *StatusPublisher {
	opts := mqttlib.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetConnectTimeout(cfg.ConnectTimeout)
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	return &StatusPublisher{
		client:  mqttlib.NewClient(opts),
		cfg:     cfg,
		pool:    p,
		log:     log.WithFields(ports.Field{Key: "component", Value: "notify"}),
		builder: jsonfast.New(256),
		stop:    make(chan struct{}),
	}
}

// Start connects to the broker and launches the publish ticker. Idempotent.
func (s *StatusPublisher) Start(connectTimeout time.Duration) error {
	if !s.state.CompareAndSwap(stateIdle, stateRunning) {
		return nil
	}

	token := s.client.Connect()
	deadline := time.Now().Add(connectTimeout)
	for !token.WaitTimeout(50*time.Millisecond) && time.Now().Before(deadline) {
		runtime.Gosched()
	}
	if err := token.Error(); err != nil {
		s.state.Store(stateIdle)
		return err
	}

	s.wg.Add(1)
	go s.publishLoop()

	s.log.Info("notify started", ports.Field{Key: "broker", Value: s.cfg.Broker}, ports.Field{Key: "topic", Value: s.cfg.StatusTopic})
	return nil
}

// Stop halts the ticker and disconnects from the broker. Idempotent.
func (s *StatusPublisher) Stop(disconnectTimeout time.Duration) {
	if !s.state.CompareAndSwap(stateRunning, stateStopped) {
		return
	}
	close(s.stop)
	s.wg.Wait()

	ms := disconnectTimeout.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	s.client.Disconnect(uint(ms))
}

func (s *StatusPublisher) publishLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.PublishInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.publishOnce()
		case <-s.stop:
			return
		}
	}
}

// buildSnapshot encodes the pool's current observers into the reused
// builder and returns the resulting JSON bytes. Split out from publishOnce
// so the encoding can be exercised without a live broker connection.
func (s *StatusPublisher) buildSnapshot() []byte {
	s.builder.Reset()
	s.builder.BeginObject()
	s.builder.AddStringField("status", s.pool.Status().String())
	s.builder.AddIntField("queue_size", s.pool.QueueSize())
	s.builder.AddIntField("works_count", s.pool.WorksCount())
	s.builder.AddIntField("threads_num", s.pool.ThreadsNum())
	s.builder.AddIntField("load_factor", s.pool.LoadFactor())
	s.builder.AddTimeRFC3339Field("timestamp", time.Now())
	s.builder.EndObject()
	return s.builder.Bytes()
}

func (s *StatusPublisher) publishOnce() {
	payload := s.buildSnapshot()

	token := s.client.Publish(s.cfg.StatusTopic, s.cfg.QoS, false, payload)
	if !token.WaitTimeout(s.cfg.WriteTimeout) {
		s.log.Warn("notify publish timed out", ports.Field{Key: "topic", Value: s.cfg.StatusTopic})
		return
	}
	if err := token.Error(); err != nil {
		s.log.Error("notify publish failed", ports.Field{Key: "error", Value: err})
	}
}
