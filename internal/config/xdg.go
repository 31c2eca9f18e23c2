package config

import (
	"os"
	"path/filepath"
)

const (
	appName     = "panehost"
	journalName = "journal.sqlite"
	configName  = "config.toml"
	schemaName  = "config.schema.json"

	// devDirEnv, when set, roots every panehost directory at that path.
	devDirEnv = "PANEHOST_HOME"
)

// baseDir is one XDG base directory with its fallback under $HOME.
type baseDir struct {
	env      string
	fallback []string
}

var (
	configBase = baseDir{env: "XDG_CONFIG_HOME", fallback: []string{".config"}}
	dataBase   = baseDir{env: "XDG_DATA_HOME", fallback: []string{".local", "share"}}
	stateBase  = baseDir{env: "XDG_STATE_HOME", fallback: []string{".local", "state"}}
)

// appDir returns the panehost directory inside b.
func (b baseDir) appDir() (string, error) {
	if home := os.Getenv(devDirEnv); home != "" {
		return filepath.Abs(home)
	}
	root := os.Getenv(b.env)
	if root == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		root = filepath.Join(append([]string{userHome}, b.fallback...)...)
	}
	return filepath.Join(root, appName), nil
}

func (b baseDir) join(elem ...string) (string, error) {
	dir, err := b.appDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{dir}, elem...)...), nil
}

// GetConfigDir returns $XDG_CONFIG_HOME/panehost.
func GetConfigDir() (string, error) { return configBase.appDir() }

// GetLogDir returns $XDG_STATE_HOME/panehost/logs.
func GetLogDir() (string, error) { return stateBase.join("logs") }

// GetConfigFile returns the path of config.toml.
func GetConfigFile() (string, error) { return configBase.join(configName) }

// GetSchemaFile returns the path the JSON schema is written to.
func GetSchemaFile() (string, error) { return configBase.join(schemaName) }

// GetJournalFile returns the default telemetry journal path.
func GetJournalFile() (string, error) { return dataBase.join(journalName) }

// EnsureDirectories creates the config, data and state directories.
func EnsureDirectories() error {
	for _, b := range []baseDir{configBase, dataBase, stateBase} {
		dir, err := b.appDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return err
		}
	}
	return nil
}
