package config

import (
	"flag"
)

// Command line flags (have precedence over environment variables)
var (
	// App flags
	flagAppName            = flag.String("app-name", "", "Application name")
	flagAppEnvironment     = flag.String("app-environment", "", "Application environment")
	flagAppLogLevel        = flag.String("app-log-level", "", "Log level")
	flagAppLogFormat       = flag.String("app-log-format", "", "Log format")
	flagAppShutdownTimeout = flag.Duration("app-shutdown-timeout", 0, "Shutdown timeout")

	// Pool flags
	flagPoolThreads      = flag.Int("pool-threads", 0, "Number of pool worker threads")
	flagPoolQueueSize    = flag.Int("pool-queue-size", 0, "Pool queue capacity")
	flagPoolNonblocking  = flag.Bool("pool-nonblocking", false, "Reject submissions instead of blocking when the queue is full")

	// Feed flags
	flagFeedAddress          = flag.String("feed-address", "", "Redis address")
	flagFeedKey              = flag.String("feed-key", "", "Redis list key tasks are popped from")
	flagFeedPollTimeout      = flag.Duration("feed-poll-timeout", 0, "Redis BLPOP timeout")
	flagFeedDialTimeout      = flag.Duration("feed-dial-timeout", 0, "Redis dial timeout")
	flagFeedReadTimeout      = flag.Duration("feed-read-timeout", 0, "Redis read timeout")
	flagFeedWriteTimeout     = flag.Duration("feed-write-timeout", 0, "Redis write timeout")
	flagFeedPrefetchSize     = flag.Int("feed-prefetch-size", 0, "Feeder prefetch ring capacity")
	flagFeedErrorThreshold   = flag.Float64("feed-error-threshold", 0, "Circuit breaker error percentage threshold (0-100]")
	flagFeedSuccessThreshold = flag.Int("feed-success-threshold", 0, "Circuit breaker half-open success threshold")
	flagFeedOpenTimeout      = flag.Duration("feed-open-timeout", 0, "Circuit breaker open-state timeout")
	flagFeedMaxConcurrent    = flag.Int("feed-max-concurrent", 0, "Circuit breaker max concurrent calls")
	flagFeedVolumeThreshold  = flag.Int("feed-volume-threshold", 0, "Circuit breaker minimum volume before tripping")

	// Notify flags
	flagNotifyBroker          = flag.String("notify-broker", "", "MQTT broker URL")
	flagNotifyClientID        = flag.String("notify-client-id", "", "MQTT client ID")
	flagNotifyStatusTopic     = flag.String("notify-status-topic", "", "MQTT status topic")
	flagNotifyQoS             = flag.Int("notify-qos", -1, "MQTT QoS (0, 1, or 2)")
	flagNotifyConnectTimeout  = flag.Duration("notify-connect-timeout", 0, "MQTT connect timeout")
	flagNotifyWriteTimeout    = flag.Duration("notify-write-timeout", 0, "MQTT publish timeout")
	flagNotifyPublishInterval = flag.Duration("notify-publish-interval", 0, "Status publish interval")
)

// applyAppFlags applies command line flags to application configuration
func applyAppFlags(cfg *AppConfig) {
	if *flagAppName != "" {
		cfg.Name = *flagAppName
	}
	if *flagAppEnvironment != "" {
		cfg.Environment = *flagAppEnvironment
	}
	if *flagAppLogLevel != "" {
		cfg.LogLevel = *flagAppLogLevel
	}
	if *flagAppLogFormat != "" {
		cfg.LogFormat = *flagAppLogFormat
	}
	if *flagAppShutdownTimeout != 0 {
		cfg.ShutdownTimeout = *flagAppShutdownTimeout
	}
}

// applyPoolFlags applies command line flags to pool configuration
func applyPoolFlags(cfg *PoolConfig) {
	if *flagPoolThreads != 0 {
		cfg.Threads = *flagPoolThreads
	}
	if *flagPoolQueueSize != 0 {
		cfg.QueueSize = *flagPoolQueueSize
	}
	if isFlagSet("pool-nonblocking") {
		cfg.Block = !*flagPoolNonblocking
	}
}

// applyFeedFlags applies command line flags to feed configuration
func applyFeedFlags(cfg *FeedConfig) {
	applyFeedFlagBasics(cfg)
	applyFeedFlagCircuitBreaker(cfg)
}

func applyFeedFlagBasics(cfg *FeedConfig) {
	if *flagFeedAddress != "" {
		cfg.Address = *flagFeedAddress
	}
	if *flagFeedKey != "" {
		cfg.Key = *flagFeedKey
	}
	if *flagFeedPollTimeout != 0 {
		cfg.PollTimeout = *flagFeedPollTimeout
	}
	if *flagFeedDialTimeout != 0 {
		cfg.DialTimeout = *flagFeedDialTimeout
	}
	if *flagFeedReadTimeout != 0 {
		cfg.ReadTimeout = *flagFeedReadTimeout
	}
	if *flagFeedWriteTimeout != 0 {
		cfg.WriteTimeout = *flagFeedWriteTimeout
	}
	if *flagFeedPrefetchSize != 0 {
		cfg.PrefetchSize = *flagFeedPrefetchSize
	}
}

func applyFeedFlagCircuitBreaker(cfg *FeedConfig) {
	if *flagFeedErrorThreshold != 0 {
		cfg.ErrorThreshold = *flagFeedErrorThreshold
	}
	if *flagFeedSuccessThreshold != 0 {
		cfg.SuccessThreshold = *flagFeedSuccessThreshold
	}
	if *flagFeedOpenTimeout != 0 {
		cfg.OpenTimeout = *flagFeedOpenTimeout
	}
	if *flagFeedMaxConcurrent != 0 {
		cfg.MaxConcurrent = *flagFeedMaxConcurrent
	}
	if *flagFeedVolumeThreshold != 0 {
		cfg.VolumeThreshold = *flagFeedVolumeThreshold
	}
}

// applyNotifyFlags applies command line flags to notify configuration
func applyNotifyFlags(cfg *NotifyConfig) {
	if *flagNotifyBroker != "" {
		cfg.Broker = *flagNotifyBroker
	}
	if *flagNotifyClientID != "" {
		cfg.ClientID = *flagNotifyClientID
	}
	if *flagNotifyStatusTopic != "" {
		cfg.StatusTopic = *flagNotifyStatusTopic
	}
	if *flagNotifyQoS != -1 && *flagNotifyQoS >= 0 && *flagNotifyQoS <= 2 {
		cfg.QoS = byte(*flagNotifyQoS) // #nosec G115 - validated range 0-2
	}
	if *flagNotifyConnectTimeout != 0 {
		cfg.ConnectTimeout = *flagNotifyConnectTimeout
	}
	if *flagNotifyWriteTimeout != 0 {
		cfg.WriteTimeout = *flagNotifyWriteTimeout
	}
	if *flagNotifyPublishInterval != 0 {
		cfg.PublishInterval = *flagNotifyPublishInterval
	}
}

// isFlagSet checks if a flag was explicitly set on the command line
func isFlagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
