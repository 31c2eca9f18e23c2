package config

const (
	defaultWindowWidth  = 1280
	defaultWindowHeight = 800

	defaultStreamBuffer = 256

	defaultJournalBatch = 64

	defaultMaxLogSizeMB  = 10
	defaultMaxBackups    = 3
	defaultMaxLogAgeDays = 7
)

// DefaultConfig returns the default configuration values for panehost.
func DefaultConfig() *Config {
	return &Config{
		Platform: PlatformHeadless,
		Geometry: GeometryConfig{
			Policy: "logical",
		},
		Relay: RelayConfig{
			Target: "main",
		},
		Instrumentation: InstrumentationConfig{
			Mode:              "telemetry",
			HeartbeatInterval: "5s",
		},
		Window: WindowConfig{
			Title:       "panehost",
			Width:       defaultWindowWidth,
			Height:      defaultWindowHeight,
			ScaleFactor: 1.0,
			FrontendURL: "about:blank",
		},
		IPC: IPCConfig{
			Enabled:      true,
			StreamBuffer: defaultStreamBuffer,
		},
		Journal: JournalConfig{
			Enabled:       false,
			Retention:     "168h",
			FlushInterval: "1s",
			BatchSize:     defaultJournalBatch,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  defaultMaxLogSizeMB,
			MaxBackups: defaultMaxBackups,
			MaxAgeDays: defaultMaxLogAgeDays,
			Compress:   true,
		},
	}
}
