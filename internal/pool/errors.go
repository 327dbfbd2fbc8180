package pool

// ConfigError reports an invalid Config passed to New. It mirrors the
// teacher's *PoolError shape (internal/processor/worker_pool.go) rather
// than a bare errors.New, so callers can type-assert on pool-specific
// failures the way the rest of this codebase does for its own error types.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return "pool: invalid config: " + e.Message
}
