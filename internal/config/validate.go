package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTiming(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTiming() error {
	if c.Timing.BlurDurationMS <= 0 {
		return errors.New("timing.blur_duration_ms must be positive")
	}
	if c.Timing.ClearDurationMS <= 0 {
		return errors.New("timing.clear_duration_ms must be positive")
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		if c.Storage.RedisURL == "" {
			return errors.New("storage.redis_url must be set when storage.backend is redis (or export SLIDELOOP_REDIS_URL)")
		}
	default:
		return fmt.Errorf("storage.backend: unsupported value %q (want sqlite, redis or memory)", c.Storage.Backend)
	}
	if c.Storage.OpTimeoutMS < 0 {
		return errors.New("storage.op_timeout_ms must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
