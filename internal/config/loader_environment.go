package config

import (
	"os"
	"strconv"
	"time"
)

// loadAppFromEnv loads application configuration from environment variables
func loadAppFromEnv(cfg *AppConfig) {
	if v := getEnvString("APP_NAME"); v != "" {
		cfg.Name = v
	}
	if v := getEnvString("APP_ENVIRONMENT"); v != "" {
		cfg.Environment = v
	}
	if v := getEnvString("APP_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := getEnvString("APP_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := getEnvDuration("APP_SHUTDOWN_TIMEOUT"); v != 0 {
		cfg.ShutdownTimeout = v
	}
}

// loadPoolFromEnv loads pool configuration from environment variables
func loadPoolFromEnv(cfg *PoolConfig) {
	if v := getEnvInt("POOL_THREADS"); v != 0 {
		cfg.Threads = v
	}
	if v := getEnvInt("POOL_QUEUE_SIZE"); v != 0 {
		cfg.QueueSize = v
	}
	if v := getEnvBool("POOL_NONBLOCKING"); v {
		cfg.Block = false
	}
}

// loadFeedFromEnv loads Redis feed configuration from environment variables
func loadFeedFromEnv(cfg *FeedConfig) {
	loadFeedStrings(cfg)
	loadFeedTimeouts(cfg)
	loadFeedCircuitBreaker(cfg)
}

func loadFeedStrings(cfg *FeedConfig) {
	if v := getEnvString("FEED_ADDRESS"); v != "" {
		cfg.Address = v
	}
	if v := getEnvString("FEED_KEY"); v != "" {
		cfg.Key = v
	}
	if v := getEnvInt("FEED_PREFETCH_SIZE"); v != 0 {
		cfg.PrefetchSize = v
	}
}

func loadFeedTimeouts(cfg *FeedConfig) {
	if v := getEnvDuration("FEED_POLL_TIMEOUT"); v != 0 {
		cfg.PollTimeout = v
	}
	if v := getEnvDuration("FEED_DIAL_TIMEOUT"); v != 0 {
		cfg.DialTimeout = v
	}
	if v := getEnvDuration("FEED_READ_TIMEOUT"); v != 0 {
		cfg.ReadTimeout = v
	}
	if v := getEnvDuration("FEED_WRITE_TIMEOUT"); v != 0 {
		cfg.WriteTimeout = v
	}
}

func loadFeedCircuitBreaker(cfg *FeedConfig) {
	if v := getEnvFloat64("FEED_ERROR_THRESHOLD"); v != 0 {
		cfg.ErrorThreshold = v
	}
	if v := getEnvInt("FEED_SUCCESS_THRESHOLD"); v != 0 {
		cfg.SuccessThreshold = v
	}
	if v := getEnvDuration("FEED_OPEN_TIMEOUT"); v != 0 {
		cfg.OpenTimeout = v
	}
	if v := getEnvInt("FEED_MAX_CONCURRENT"); v != 0 {
		cfg.MaxConcurrent = v
	}
	if v := getEnvInt("FEED_VOLUME_THRESHOLD"); v != 0 {
		cfg.VolumeThreshold = v
	}
}

// loadNotifyFromEnv loads MQTT status publisher configuration from
// environment variables
func loadNotifyFromEnv(cfg *NotifyConfig) {
	if v := getEnvString("NOTIFY_BROKER"); v != "" {
		cfg.Broker = v
	}
	if v := getEnvString("NOTIFY_CLIENT_ID"); v != "" {
		cfg.ClientID = v
	}
	if v := getEnvString("NOTIFY_STATUS_TOPIC"); v != "" {
		cfg.StatusTopic = v
	}
	if v := getEnvInt("NOTIFY_QOS"); v != 0 && v >= 0 && v <= 2 {
		cfg.QoS = byte(v) // #nosec G115 - validated range 0-2
	}
	if v := getEnvDuration("NOTIFY_CONNECT_TIMEOUT"); v != 0 {
		cfg.ConnectTimeout = v
	}
	if v := getEnvDuration("NOTIFY_WRITE_TIMEOUT"); v != 0 {
		cfg.WriteTimeout = v
	}
	if v := getEnvDuration("NOTIFY_PUBLISH_INTERVAL"); v != 0 {
		cfg.PublishInterval = v
	}
}

// Helper functions for reading environment variables

func getEnvString(key string) string {
	return os.Getenv(key)
}

func getEnvInt(key string) int {
	value := os.Getenv(key)
	if value == "" {
		return 0
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return intValue
}

func getEnvFloat64(key string) float64 {
	value := os.Getenv(key)
	if value == "" {
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}

func getEnvDuration(key string) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return 0
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return duration
}

func getEnvBool(key string) bool {
	value := os.Getenv(key)
	return value == "true"
}
