// Package config loads panehost settings from config.toml, PANEHOST_*
// environment variables and built-in defaults.
package config

import (
	"fmt"
	"time"
)

// File permission constants
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Platform selects the embedding backend.
type Platform string

const (
	PlatformHeadless Platform = "headless"
	PlatformGTK      Platform = "gtk"
)

// Config represents the complete configuration for panehost.
type Config struct {
	// Platform is "headless" (in-process pages) or "gtk" (WebKitGTK, needs a gtk build).
	Platform        Platform              `mapstructure:"platform" toml:"platform" json:"platform" jsonschema:"enum=headless,enum=gtk"`
	Geometry        GeometryConfig        `mapstructure:"geometry" toml:"geometry" json:"geometry"`
	Relay           RelayConfig           `mapstructure:"relay" toml:"relay" json:"relay"`
	Instrumentation InstrumentationConfig `mapstructure:"instrumentation" toml:"instrumentation" json:"instrumentation"`
	Window          WindowConfig          `mapstructure:"window" toml:"window" json:"window"`
	IPC             IPCConfig             `mapstructure:"ipc" toml:"ipc" json:"ipc"`
	Journal         JournalConfig         `mapstructure:"journal" toml:"journal" json:"journal"`
	Logging         LoggingConfig         `mapstructure:"logging" toml:"logging" json:"logging"`
}

// GeometryConfig selects how caller rectangles map to native units.
type GeometryConfig struct {
	// Policy is "logical" (rectangles pass through) or "physical" (divided by the scale factor).
	Policy string `mapstructure:"policy" toml:"policy" json:"policy" jsonschema:"enum=logical,enum=physical"`
}

// RelayConfig names the frontend window that receives pane events.
type RelayConfig struct {
	Target string `mapstructure:"target" toml:"target" json:"target"`
}

// InstrumentationConfig controls the script injected into every pane.
type InstrumentationConfig struct {
	// Mode is "telemetry" (full bridge) or "none" (placeholder script).
	Mode string `mapstructure:"mode" toml:"mode" json:"mode" jsonschema:"enum=telemetry,enum=none"`
	// HeartbeatInterval is a Go duration string, e.g. "5s".
	HeartbeatInterval string `mapstructure:"heartbeat_interval" toml:"heartbeat_interval" json:"heartbeat_interval"`
}

// Heartbeat returns the parsed heartbeat interval.
func (c InstrumentationConfig) Heartbeat() (time.Duration, error) {
	return parsePositiveDuration("instrumentation.heartbeat_interval", c.HeartbeatInterval)
}

// WindowConfig describes the host window.
type WindowConfig struct {
	Title  string `mapstructure:"title" toml:"title" json:"title"`
	Width  int    `mapstructure:"width" toml:"width" json:"width"`
	Height int    `mapstructure:"height" toml:"height" json:"height"`
	// ScaleFactor is reported by the headless window. GTK reads it from the monitor.
	ScaleFactor float64 `mapstructure:"scale_factor" toml:"scale_factor" json:"scale_factor"`
	// FrontendURL is loaded into the GTK chrome webview.
	FrontendURL string `mapstructure:"frontend_url" toml:"frontend_url" json:"frontend_url"`
}

// IPCConfig controls the control socket.
type IPCConfig struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	// SocketPath defaults to $XDG_RUNTIME_DIR/panehost.sock when empty.
	SocketPath   string `mapstructure:"socket_path" toml:"socket_path" json:"socket_path"`
	StreamBuffer int    `mapstructure:"stream_buffer" toml:"stream_buffer" json:"stream_buffer"`
}

// JournalConfig controls the telemetry journal.
type JournalConfig struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	// Path defaults to $XDG_DATA_HOME/panehost/journal.sqlite when empty.
	Path          string `mapstructure:"path" toml:"path" json:"path"`
	Retention     string `mapstructure:"retention" toml:"retention" json:"retention"`
	FlushInterval string `mapstructure:"flush_interval" toml:"flush_interval" json:"flush_interval"`
	BatchSize     int    `mapstructure:"batch_size" toml:"batch_size" json:"batch_size"`
}

// RetentionDuration returns the parsed retention; zero keeps everything.
func (c JournalConfig) RetentionDuration() (time.Duration, error) {
	if c.Retention == "" || c.Retention == "0" {
		return 0, nil
	}
	return parsePositiveDuration("journal.retention", c.Retention)
}

// FlushDuration returns the parsed flush interval.
func (c JournalConfig) FlushDuration() (time.Duration, error) {
	return parsePositiveDuration("journal.flush_interval", c.FlushInterval)
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error"`
	Format string `mapstructure:"format" toml:"format" json:"format" jsonschema:"enum=console,enum=json"`
	// File enables rotated JSON file logging when non-empty. A bare name is
	// placed in the log directory.
	File       string `mapstructure:"file" toml:"file" json:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" toml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" toml:"max_backups" json:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" toml:"max_age_days" json:"max_age_days"`
	Compress   bool   `mapstructure:"compress" toml:"compress" json:"compress"`
}

func parsePositiveDuration(key, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive (got %s)", key, value)
	}
	return d, nil
}
