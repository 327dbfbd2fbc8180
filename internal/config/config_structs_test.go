package config

import (
	"testing"
	"time"
)

func TestConfig_Structure(t *testing.T) {
	cfg := &Config{
		App: AppConfig{
			Name:     "poolbench",
			LogLevel: "info",
		},
		Pool: PoolConfig{
			Threads:   4,
			QueueSize: 64,
		},
		Feed: FeedConfig{
			Address: "localhost:6379",
			Key:     "tasks",
		},
		Notify: NotifyConfig{
			Broker:      "tcp://localhost:1883",
			StatusTopic: "status",
		},
	}

	if cfg.App.Name != "poolbench" {
		t.Errorf("App.Name = %s; want poolbench", cfg.App.Name)
	}
	if cfg.Pool.Threads != 4 {
		t.Errorf("Pool.Threads = %d; want 4", cfg.Pool.Threads)
	}
	if cfg.Feed.Address != "localhost:6379" {
		t.Errorf("Feed.Address = %s; want localhost:6379", cfg.Feed.Address)
	}
	if cfg.Notify.Broker != "tcp://localhost:1883" {
		t.Errorf("Notify.Broker = %s; want tcp://localhost:1883", cfg.Notify.Broker)
	}
}

func TestPoolConfig_Fields(t *testing.T) {
	pc := PoolConfig{
		Threads:   8,
		QueueSize: 1024,
		Block:     true,
	}

	if pc.Threads != 8 {
		t.Errorf("Threads = %d; want 8", pc.Threads)
	}
	if pc.QueueSize != 1024 {
		t.Errorf("QueueSize = %d; want 1024", pc.QueueSize)
	}
	if !pc.Block {
		t.Error("Block = false; want true")
	}
}

func TestFeedConfig_Fields(t *testing.T) {
	fc := FeedConfig{
		Address:          "redis:6379",
		Key:              "tasks",
		PollTimeout:      5 * time.Second,
		PrefetchSize:     128,
		ErrorThreshold:   50,
		SuccessThreshold: 3,
		MaxConcurrent:    5,
	}

	if fc.Address != "redis:6379" {
		t.Errorf("Address = %s; want redis:6379", fc.Address)
	}
	if fc.PrefetchSize != 128 {
		t.Errorf("PrefetchSize = %d; want 128", fc.PrefetchSize)
	}
	if fc.PollTimeout != 5*time.Second {
		t.Errorf("PollTimeout = %v; want 5s", fc.PollTimeout)
	}
}

func TestNotifyConfig_Fields(t *testing.T) {
	nc := NotifyConfig{
		Broker:          "tcp://mqtt:1883",
		ClientID:        "client",
		StatusTopic:     "status/topic",
		QoS:             1,
		PublishInterval: 10 * time.Second,
	}

	if nc.Broker != "tcp://mqtt:1883" {
		t.Errorf("Broker = %s; want tcp://mqtt:1883", nc.Broker)
	}
	if nc.QoS != 1 {
		t.Errorf("QoS = %d; want 1", nc.QoS)
	}
	if nc.PublishInterval != 10*time.Second {
		t.Errorf("PublishInterval = %v; want 10s", nc.PublishInterval)
	}
}
