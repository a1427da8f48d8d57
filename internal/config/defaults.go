package config

const (
	defaultConfigPath      = "~/.config/sourcesound/config.toml"
	projectConfigName      = "sourcesound.toml"
	defaultDataDir         = "~/.local/share/sourcesound"
	defaultLibrariesDir    = "~/.local/share/sourcesound/libraries"
	defaultLogDir          = "~/.local/share/sourcesound/logs"
	defaultTogglePlayKey   = "t"
	defaultRelayKey        = "KP_END"
	defaultWatcher         = WatcherAuto
	defaultDebounceMS      = 250
	defaultPollIntervalMS  = 250
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultLogRetentionDay = 30
)

// Relay watcher kinds.
const (
	WatcherAuto   = "auto"
	WatcherNative = "native"
	WatcherPoll   = "poll"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:      defaultDataDir,
			LibrariesDir: defaultLibrariesDir,
			LogDir:       defaultLogDir,
		},
		Keys: Keys{
			TogglePlay: defaultTogglePlayKey,
			Relay:      defaultRelayKey,
		},
		Relay: Relay{
			Watcher:        defaultWatcher,
			DebounceMS:     defaultDebounceMS,
			PollIntervalMS: defaultPollIntervalMS,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDay,
		},
	}
}
