package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeKeys()
	c.normalizeRelay()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if strings.TrimSpace(c.Paths.LibrariesDir) == "" {
		c.Paths.LibrariesDir = defaultLibrariesDir
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}

	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LibrariesDir, err = expandPath(c.Paths.LibrariesDir); err != nil {
		return fmt.Errorf("paths.libraries_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.UserdataDir, err = expandPath(strings.TrimSpace(c.Paths.UserdataDir)); err != nil {
		return fmt.Errorf("paths.userdata_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeKeys() {
	c.Keys.TogglePlay = strings.TrimSpace(c.Keys.TogglePlay)
	if c.Keys.TogglePlay == "" {
		c.Keys.TogglePlay = defaultTogglePlayKey
	}
	c.Keys.Relay = strings.TrimSpace(c.Keys.Relay)
	if c.Keys.Relay == "" {
		c.Keys.Relay = defaultRelayKey
	}
}

func (c *Config) normalizeRelay() {
	c.Relay.Watcher = strings.ToLower(strings.TrimSpace(c.Relay.Watcher))
	if c.Relay.Watcher == "" {
		c.Relay.Watcher = defaultWatcher
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
