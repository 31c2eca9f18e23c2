package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(old, updated *Config)
	watching  bool
	created   bool
}

// NewManager creates a manager reading config.toml from the XDG config
// directory, then the working directory.
func NewManager() (*Manager, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// PANEHOST_GEOMETRY_POLICY, PANEHOST_IPC_SOCKET_PATH, ...
	v.SetEnvPrefix("PANEHOST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Short names shared with logging.NewFromEnv.
	if err := v.BindEnv("logging.level", "PANEHOST_LOG_LEVEL", "PANEHOST_LOGGING_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind PANEHOST_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "PANEHOST_LOG_FORMAT", "PANEHOST_LOGGING_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind PANEHOST_LOG_FORMAT: %w", err)
	}

	return &Manager{viper: v}, nil
}

// Load reads defaults, the config file and the environment. A missing
// config file is created from the defaults.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}

	config, err := m.decode()
	if err != nil {
		return err
	}
	m.config = config
	return nil
}

// Created reports whether Load wrote a fresh default config file.
func (m *Manager) Created() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.created
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var configFileNotFoundError viper.ConfigFileNotFoundError
	if !errors.As(err, &configFileNotFoundError) {
		configFile := m.viper.ConfigFileUsed()
		if configFile == "" {
			configFile, _ = GetConfigFile()
		}
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", configFile, err)
	}

	if createErr := m.createDefaultConfig(); createErr != nil {
		configDir, _ := GetConfigDir()
		return fmt.Errorf("failed to create default config at %s: %w", configDir, createErr)
	}
	if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
		return fmt.Errorf("failed to read newly created config file: %w", rereadErr)
	}
	return nil
}

// decode unmarshals, fills derived paths and validates.
func (m *Manager) decode() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.viper.ConfigFileUsed(),
			err,
		)
	}
	if err := ensureJournalPath(config); err != nil {
		return nil, err
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

func ensureJournalPath(config *Config) error {
	if config.Journal.Path != "" {
		return nil
	}
	path, err := GetJournalFile()
	if err != nil {
		return fmt.Errorf("failed to get journal path: %w", err)
	}
	config.Journal.Path = path
	return nil
}

func normalizeConfig(config *Config) {
	config.Platform = Platform(strings.ToLower(strings.TrimSpace(string(config.Platform))))
	config.Geometry.Policy = strings.ToLower(strings.TrimSpace(config.Geometry.Policy))
	config.Instrumentation.Mode = strings.ToLower(strings.TrimSpace(config.Instrumentation.Mode))
	config.Logging.Format = strings.ToLower(strings.TrimSpace(config.Logging.Format))
	config.Relay.Target = strings.TrimSpace(config.Relay.Target)
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	configCopy := *m.config
	return &configCopy
}

// GetConfigFile returns the path to the configuration file being used.
func (m *Manager) GetConfigFile() string {
	return m.viper.ConfigFileUsed()
}

func (m *Manager) createDefaultConfig() error {
	configFile, err := GetConfigFile()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return err
	}
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file %s already exists", configFile)
	}
	if err := WriteConfigOrdered(DefaultConfig(), configFile); err != nil {
		return err
	}
	m.created = true
	return nil
}

func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.viper.SetDefault("platform", string(defaults.Platform))
	m.viper.SetDefault("geometry.policy", defaults.Geometry.Policy)
	m.viper.SetDefault("relay.target", defaults.Relay.Target)

	m.viper.SetDefault("instrumentation.mode", defaults.Instrumentation.Mode)
	m.viper.SetDefault("instrumentation.heartbeat_interval", defaults.Instrumentation.HeartbeatInterval)

	m.viper.SetDefault("window.title", defaults.Window.Title)
	m.viper.SetDefault("window.width", defaults.Window.Width)
	m.viper.SetDefault("window.height", defaults.Window.Height)
	m.viper.SetDefault("window.scale_factor", defaults.Window.ScaleFactor)
	m.viper.SetDefault("window.frontend_url", defaults.Window.FrontendURL)

	m.viper.SetDefault("ipc.enabled", defaults.IPC.Enabled)
	m.viper.SetDefault("ipc.socket_path", defaults.IPC.SocketPath)
	m.viper.SetDefault("ipc.stream_buffer", defaults.IPC.StreamBuffer)

	m.viper.SetDefault("journal.enabled", defaults.Journal.Enabled)
	m.viper.SetDefault("journal.path", defaults.Journal.Path)
	m.viper.SetDefault("journal.retention", defaults.Journal.Retention)
	m.viper.SetDefault("journal.flush_interval", defaults.Journal.FlushInterval)
	m.viper.SetDefault("journal.batch_size", defaults.Journal.BatchSize)

	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
	m.viper.SetDefault("logging.file", defaults.Logging.File)
	m.viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	m.viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	m.viper.SetDefault("logging.max_age_days", defaults.Logging.MaxAgeDays)
	m.viper.SetDefault("logging.compress", defaults.Logging.Compress)
}

// InitDefaultFile writes the default config.toml unless one exists, and
// returns its path.
func InitDefaultFile(force bool) (string, error) {
	if err := EnsureDirectories(); err != nil {
		return "", err
	}
	path, err := GetConfigFile()
	if err != nil {
		return "", err
	}
	if _, statErr := os.Stat(path); statErr == nil && !force {
		return path, fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	}
	return path, WriteConfigOrdered(DefaultConfig(), path)
}
