package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path:       "~/.config/tabtime",
			SQLiteFile: "tabtime.db",
		},
		Tracker: TrackerConfig{
			FlushWindowMS: 2000,
			MaxSessions:   1000,
			EventBuffer:   100,
		},
		Daemon: DaemonConfig{
			Host:           "127.0.0.1",
			Port:           8732,
			AuthToken:      "",
			MaxRequestSize: 1048576,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
