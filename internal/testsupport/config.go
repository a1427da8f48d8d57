package testsupport

import (
	"path/filepath"
	"testing"

	"sourcesound/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Relay timings are shortened and the poll watcher is selected so tests do
// not depend on native notifications.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LibrariesDir = filepath.Join(base, "libraries")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Relay.Watcher = config.WatcherPoll
	cfgVal.Relay.DebounceMS = 20
	cfgVal.Relay.PollIntervalMS = 10
	cfgVal.Logging.Level = "debug"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithUserdata points paths.userdata_dir at a directory under the test base.
func WithUserdata() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.UserdataDir = filepath.Join(b.baseDir, "userdata")
	}
}

// WithKeys overrides the toggle and relay keys.
func WithKeys(togglePlay, relay string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Keys.TogglePlay = togglePlay
		b.cfg.Keys.Relay = relay
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
