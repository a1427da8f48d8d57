package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// EnvPrefix prefixes every environment variable that overrides a file value.
const EnvPrefix = "SOURCESOUND_"

// Paths contains directory configuration.
type Paths struct {
	DataDir      string `toml:"data_dir" env:"DATA_DIR"`
	LibrariesDir string `toml:"libraries_dir" env:"LIBRARIES_DIR"`
	LogDir       string `toml:"log_dir" env:"LOG_DIR"`
	// UserdataDir is the Steam userdata directory of the signed-in account,
	// e.g. ~/.steam/steam/userdata/<account id>. Only games that write their
	// config under userdata need it.
	UserdataDir string `toml:"userdata_dir" env:"USERDATA_DIR"`
}

// Keys contains the console key names bound by the generated scripts.
type Keys struct {
	TogglePlay string `toml:"toggle_play" env:"TOGGLE_PLAY_KEY"`
	Relay      string `toml:"relay" env:"RELAY_KEY"`
}

// Relay contains relay file watching configuration.
type Relay struct {
	Watcher        string `toml:"watcher" env:"WATCHER"`
	DebounceMS     int    `toml:"debounce_ms" env:"DEBOUNCE_MS"`
	PollIntervalMS int    `toml:"poll_interval_ms" env:"POLL_INTERVAL_MS"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format" env:"LOG_FORMAT"`
	Level         string `toml:"level" env:"LOG_LEVEL"`
	RetentionDays int    `toml:"retention_days" env:"LOG_RETENTION_DAYS"`
}

// Config encapsulates all configuration values for SourceSound.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Keys    Keys    `toml:"keys"`
	Relay   Relay   `toml:"relay"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file, then applies
// SOURCESOUND_* environment overrides. The returned config has all path
// fields expanded.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, "", false, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data, libraries, and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LibrariesDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath is the SQLite file holding games, libraries, and keywords.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "sourcesound.db")
}

// LockPath is the file locked while a relay session runs.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "sourcesound.lock")
}

// Debounce returns the relay debounce window.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Relay.DebounceMS) * time.Millisecond
}

// PollInterval returns the relay polling interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Relay.PollIntervalMS) * time.Millisecond
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
