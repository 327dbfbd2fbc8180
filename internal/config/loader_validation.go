package config

import "fmt"

// Validate checks configuration constraints
func Validate(cfg *Config) error {
	if err := validateApp(&cfg.App); err != nil {
		return err
	}
	if err := validatePool(&cfg.Pool); err != nil {
		return err
	}
	if err := validateFeed(&cfg.Feed); err != nil {
		return err
	}
	return validateNotify(&cfg.Notify)
}

// validateApp validates application configuration
func validateApp(cfg *AppConfig) error {
	if cfg.Name == "" {
		return fmt.Errorf("app name cannot be empty")
	}
	if !isValidLogLevel(cfg.LogLevel) {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}
	if !isValidLogFormat(cfg.LogFormat) {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}
	return nil
}

func isValidLogLevel(level string) bool {
	switch level {
	case "trace", "debug", "info", "warn", "error", "fatal":
		return true
	default:
		return false
	}
}

func isValidLogFormat(format string) bool {
	return format == "json" || format == "text"
}

// validatePool validates pool configuration. Zero Threads/QueueSize are
// valid: pool.Config.resolve infers them, so validation here only rejects
// negative values, mirroring pool.Config.resolve's own checks one layer up
// so misconfiguration surfaces at Load time rather than at pool.New time.
func validatePool(cfg *PoolConfig) error {
	if cfg.Threads < 0 {
		return fmt.Errorf("pool threads must not be negative")
	}
	if cfg.QueueSize < 0 {
		return fmt.Errorf("pool queue size must not be negative")
	}
	return nil
}

// validateFeed validates Redis feed configuration
func validateFeed(cfg *FeedConfig) error {
	if cfg.Address == "" {
		return fmt.Errorf("feed address cannot be empty")
	}
	if cfg.Key == "" {
		return fmt.Errorf("feed key cannot be empty")
	}
	if cfg.PrefetchSize < 1 {
		return fmt.Errorf("feed prefetch size must be positive")
	}
	if cfg.ErrorThreshold <= 0 || cfg.ErrorThreshold > 100 {
		return fmt.Errorf("feed error threshold must be in (0, 100]")
	}
	if cfg.SuccessThreshold < 1 {
		return fmt.Errorf("feed success threshold must be positive")
	}
	if cfg.MaxConcurrent < 1 {
		return fmt.Errorf("feed max concurrent must be positive")
	}
	return nil
}

// validateNotify validates MQTT status publisher configuration
func validateNotify(cfg *NotifyConfig) error {
	if cfg.Broker == "" {
		return fmt.Errorf("notify broker cannot be empty")
	}
	if cfg.ClientID == "" {
		return fmt.Errorf("notify client ID cannot be empty")
	}
	if cfg.StatusTopic == "" {
		return fmt.Errorf("notify status topic cannot be empty")
	}
	if cfg.PublishInterval <= 0 {
		return fmt.Errorf("notify publish interval must be positive")
	}
	return nil
}
