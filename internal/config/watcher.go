package config

import (
	"github.com/fsnotify/fsnotify"

	"github.com/bnema/panehost/internal/logging"
)

// Watch starts watching the config file and reloads it on change. An invalid
// edit is logged and the previous configuration stays in effect.
func (m *Manager) Watch() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watching {
		return nil
	}

	m.viper.OnConfigChange(func(e fsnotify.Event) {
		log := logging.NewFromEnv()
		log.Debug().Str("op", e.Op.String()).Str("file", e.Name).Msg("fsnotify config change detected")

		m.mu.Lock()
		old := m.config
		if err := m.reload(); err != nil {
			m.mu.Unlock()
			log.Warn().Err(err).Msg("failed to reload config")
			return
		}
		m.notifyCallbacksLocked(old)
	})
	m.viper.WatchConfig()

	m.watching = true
	return nil
}

// notifyCallbacksLocked must be called with m.mu held for write. It releases
// the lock before calling callbacks.
func (m *Manager) notifyCallbacksLocked(old *Config) {
	updated := m.config
	callbacks := make([]func(old, updated *Config), len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.Unlock()

	for _, callback := range callbacks {
		callback(old, updated)
	}
}

// OnConfigChange registers a callback run after every successful reload.
func (m *Manager) OnConfigChange(callback func(old, updated *Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callbacks = append(m.callbacks, callback)
}

// reload must be called with m.mu held for write.
func (m *Manager) reload() error {
	if err := m.viper.ReadInConfig(); err != nil {
		return err
	}
	config, err := m.decode()
	if err != nil {
		return err
	}
	m.config = config
	return nil
}

// Reload re-reads the config file and notifies callbacks, as a file change would.
func (m *Manager) Reload() error {
	m.mu.Lock()
	old := m.config
	if err := m.reload(); err != nil {
		m.mu.Unlock()
		return err
	}
	m.notifyCallbacksLocked(old)
	return nil
}

// RestartRequired lists the keys that differ between old and updated. None
// of them is applied to a running server.
func RestartRequired(old, updated *Config) []string {
	if old == nil || updated == nil {
		return nil
	}
	var keys []string
	add := func(changed bool, key string) {
		if changed {
			keys = append(keys, key)
		}
	}
	add(old.Platform != updated.Platform, "platform")
	add(old.Geometry != updated.Geometry, "geometry.policy")
	add(old.Relay.Target != updated.Relay.Target, "relay.target")
	add(old.Instrumentation != updated.Instrumentation, "instrumentation")
	add(old.Window != updated.Window, "window")
	add(old.IPC != updated.IPC, "ipc")
	add(old.Journal != updated.Journal, "journal")
	add(old.Logging.Level != updated.Logging.Level, "logging.level")
	add(old.Logging != updated.Logging && old.Logging.Level == updated.Logging.Level, "logging")
	return keys
}
