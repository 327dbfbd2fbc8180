// Package config loads, merges, and validates configuration for the pool
// benchmarking harness from defaults, environment variables, and command
// line flags, in that order of increasing precedence.
package config

import "time"

// Config holds the complete configuration for cmd/poolbench.
type Config struct {
	App    AppConfig
	Pool   PoolConfig
	Feed   FeedConfig
	Notify NotifyConfig
}

// AppConfig holds process-level configuration.
type AppConfig struct {
	Name            string
	Environment     string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// PoolConfig configures the pool.Pool constructed at startup; its fields
// mirror pool.Config directly so the two convert without a lossy
// translation layer (see internal/pool.Config.resolve).
type PoolConfig struct {
	Threads   int
	QueueSize int
	Block     bool
}

// FeedConfig configures the Redis list consumer that feeds tasks into the
// pool (internal/feed.RedisSource).
type FeedConfig struct {
	Address          string
	Key              string
	PollTimeout      time.Duration
	DialTimeout      time.Duration
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	PrefetchSize     int
	ErrorThreshold   float64 // percentage, (0, 100]: matches circuitbreaker.CircuitBreaker's scale
	SuccessThreshold int
	OpenTimeout      time.Duration
	MaxConcurrent    int
	VolumeThreshold  int
}

// NotifyConfig configures the MQTT status publisher
// (internal/notify.StatusPublisher).
type NotifyConfig struct {
	Broker          string
	ClientID        string
	StatusTopic     string
	QoS             byte
	ConnectTimeout  time.Duration
	WriteTimeout    time.Duration
	PublishInterval time.Duration
}
