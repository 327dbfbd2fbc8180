package notify

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ibs-source/gopool/internal/config"
	"github.com/ibs-source/gopool/internal/logger"
	"github.com/ibs-source/gopool/internal/pool"
)

func newTestStatusPublisher(t *testing.T) *StatusPublisher {
	t.Helper()
	p, err := pool.New(pool.Config{Threads: 2, QueueSize: 8})
	if err != nil {
		t.Fatalf("pool.New() error = %v", err)
	}

	cfg := config.NotifyConfig{
		Broker:          "tcp://127.0.0.1:1883",
		ClientID:        "test-client",
		StatusTopic:     "pool/status",
		QoS:             1,
		ConnectTimeout:  time.Second,
		WriteTimeout:    time.Second,
		PublishInterval: time.Second,
	}

	return NewStatusPublisher(cfg, p, logger.NewNoop())
}

func TestNewStatusPublisher_NotConnected(t *testing.T) {
	s := newTestStatusPublisher(t)
	if s.client.IsConnected() {
		t.Fatal("IsConnected() = true before Start(); NewStatusPublisher must not dial")
	}
}

func TestBuildSnapshot_ProducesValidJSON(t *testing.T) {
	s := newTestStatusPublisher(t)

	payload := s.buildSnapshot()

	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("buildSnapshot() produced invalid JSON: %v; payload=%s", err, payload)
	}

	for _, field := range []string{"status", "queue_size", "works_count", "threads_num", "load_factor", "timestamp"} {
		if _, ok := decoded[field]; !ok {
			t.Errorf("buildSnapshot() payload missing field %q: %s", field, payload)
		}
	}

	if decoded["status"] != "idle" {
		t.Errorf("status = %v; want %q on a fresh pool", decoded["status"], "idle")
	}
	if decoded["threads_num"].(float64) != 2 {
		t.Errorf("threads_num = %v; want 2", decoded["threads_num"])
	}
	if decoded["queue_size"].(float64) != 8 {
		t.Errorf("queue_size = %v; want 8", decoded["queue_size"])
	}
}

func TestBuildSnapshot_ReusesBuilderAcrossCalls(t *testing.T) {
	s := newTestStatusPublisher(t)

	first := s.buildSnapshot()
	firstCopy := append([]byte(nil), first...)

	second := s.buildSnapshot()

	var decoded map[string]any
	if err := json.Unmarshal(second, &decoded); err != nil {
		t.Fatalf("second buildSnapshot() produced invalid JSON: %v", err)
	}
	if string(firstCopy) == "" {
		t.Fatal("first snapshot was empty")
	}
}

func TestStop_BeforeStart_IsNoop(t *testing.T) {
	s := newTestStatusPublisher(t)
	s.Stop(time.Millisecond)
	if s.state.Load() != stateIdle {
		t.Fatalf("state after Stop() without Start() = %d; want stateIdle", s.state.Load())
	}
}
