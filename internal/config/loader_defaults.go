package config

import "time"

// defaultAppConfig returns the default application configuration.
func defaultAppConfig() AppConfig {
	return AppConfig{
		Name:            "poolbench",
		Environment:     "development",
		LogLevel:        "info",
		LogFormat:       "json",
		ShutdownTimeout: 30 * time.Second,
	}
}

// defaultPoolConfig returns the default pool configuration. Threads and
// QueueSize are left at zero so pool.Config.resolve infers them from the
// CPU probe, matching the original's threads_num==0 autodetect behavior.
func defaultPoolConfig() PoolConfig {
	return PoolConfig{
		Threads:   0,
		QueueSize: 0,
		Block:     true,
	}
}

// defaultFeedConfig returns the default Redis feed configuration.
func defaultFeedConfig() FeedConfig {
	return FeedConfig{
		Address:          "localhost:6379",
		Key:              "poolbench:tasks",
		PollTimeout:      5 * time.Second,
		DialTimeout:      10 * time.Second,
		ReadTimeout:      10 * time.Second,
		WriteTimeout:     5 * time.Second,
		PrefetchSize:     256,
		ErrorThreshold:   50,
		SuccessThreshold: 3,
		OpenTimeout:      30 * time.Second,
		MaxConcurrent:    10,
		VolumeThreshold:  10,
	}
}

// defaultNotifyConfig returns the default MQTT status publisher
// configuration.
func defaultNotifyConfig() NotifyConfig {
	return NotifyConfig{
		Broker:          "tcp://localhost:1883",
		ClientID:        "poolbench",
		StatusTopic:     "poolbench/status",
		QoS:             0,
		ConnectTimeout:  10 * time.Second,
		WriteTimeout:    5 * time.Second,
		PublishInterval: 5 * time.Second,
	}
}

// defaultConfig returns a complete configuration with all default values.
func defaultConfig() *Config {
	return &Config{
		App:    defaultAppConfig(),
		Pool:   defaultPoolConfig(),
		Feed:   defaultFeedConfig(),
		Notify: defaultNotifyConfig(),
	}
}
