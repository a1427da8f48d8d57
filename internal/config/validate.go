package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateKeys(); err != nil {
		return err
	}
	if err := c.validateRelay(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateKeys() error {
	if err := ValidateKeyName("keys.toggle_play", c.Keys.TogglePlay); err != nil {
		return err
	}
	if err := ValidateKeyName("keys.relay", c.Keys.Relay); err != nil {
		return err
	}
	if strings.EqualFold(c.Keys.TogglePlay, c.Keys.Relay) {
		return errors.New("keys.toggle_play and keys.relay must be different keys")
	}
	return nil
}

// ValidateKeyName rejects key names that would break the generated console
// statements.
func ValidateKeyName(field, key string) error {
	if key == "" {
		return fmt.Errorf("%s must be set", field)
	}
	if strings.ContainsAny(key, " \t\r\n\";") {
		return fmt.Errorf("%s %q must not contain whitespace, quotes, or semicolons", field, key)
	}
	return nil
}

func (c *Config) validateRelay() error {
	switch c.Relay.Watcher {
	case WatcherAuto, WatcherNative, WatcherPoll:
	default:
		return fmt.Errorf("relay.watcher must be one of %s, %s, %s (got %q)",
			WatcherAuto, WatcherNative, WatcherPoll, c.Relay.Watcher)
	}
	if c.Relay.DebounceMS <= 0 {
		return errors.New("relay.debounce_ms must be positive")
	}
	if c.Relay.PollIntervalMS <= 0 {
		return errors.New("relay.poll_interval_ms must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be zero or positive")
	}
	return nil
}
