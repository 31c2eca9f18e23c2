package config

import (
	"fmt"
	"math"
	"strings"
)

// validateConfig collects every invalid value into one error.
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validatePlatform(config)...)
	validationErrors = append(validationErrors, validateGeometry(config)...)
	validationErrors = append(validationErrors, validateRelay(config)...)
	validationErrors = append(validationErrors, validateInstrumentation(config)...)
	validationErrors = append(validationErrors, validateWindow(config)...)
	validationErrors = append(validationErrors, validateIPC(config)...)
	validationErrors = append(validationErrors, validateJournal(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}
	return nil
}

// Validate reports every invalid value in cfg.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	return validateConfig(cfg)
}

func validatePlatform(config *Config) []string {
	switch config.Platform {
	case PlatformHeadless, PlatformGTK:
		return nil
	default:
		return []string{fmt.Sprintf("platform must be one of: headless, gtk (got: %s)", config.Platform)}
	}
}

func validateGeometry(config *Config) []string {
	switch config.Geometry.Policy {
	case "logical", "physical":
		return nil
	default:
		return []string{fmt.Sprintf("geometry.policy must be one of: logical, physical (got: %s)", config.Geometry.Policy)}
	}
}

func validateRelay(config *Config) []string {
	if strings.TrimSpace(config.Relay.Target) == "" {
		return []string{"relay.target cannot be empty"}
	}
	return nil
}

func validateInstrumentation(config *Config) []string {
	var validationErrors []string
	switch config.Instrumentation.Mode {
	case "telemetry", "none":
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("instrumentation.mode must be one of: telemetry, none (got: %s)", config.Instrumentation.Mode))
	}
	if _, err := config.Instrumentation.Heartbeat(); err != nil {
		validationErrors = append(validationErrors, err.Error())
	}
	return validationErrors
}

func validateWindow(config *Config) []string {
	var validationErrors []string
	if config.Window.Width <= 0 {
		validationErrors = append(validationErrors, "window.width must be positive")
	}
	if config.Window.Height <= 0 {
		validationErrors = append(validationErrors, "window.height must be positive")
	}
	s := config.Window.ScaleFactor
	if math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
		validationErrors = append(validationErrors, "window.scale_factor must be a positive number")
	}
	return validationErrors
}

func validateIPC(config *Config) []string {
	if config.IPC.StreamBuffer < 0 {
		return []string{"ipc.stream_buffer must be non-negative"}
	}
	return nil
}

func validateJournal(config *Config) []string {
	var validationErrors []string
	if _, err := config.Journal.RetentionDuration(); err != nil {
		validationErrors = append(validationErrors, err.Error())
	}
	if _, err := config.Journal.FlushDuration(); err != nil {
		validationErrors = append(validationErrors, err.Error())
	}
	if config.Journal.BatchSize < 0 {
		validationErrors = append(validationErrors, "journal.batch_size must be non-negative")
	}
	return validationErrors
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	switch strings.ToLower(config.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "disabled", "off":
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.level must be one of: trace, debug, info, warn, error (got: %s)", config.Logging.Level))
	}
	switch config.Logging.Format {
	case "console", "json":
	default:
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.format must be one of: console, json (got: %s)", config.Logging.Format))
	}
	if config.Logging.MaxSizeMB < 0 || config.Logging.MaxBackups < 0 || config.Logging.MaxAgeDays < 0 {
		validationErrors = append(validationErrors, "logging rotation limits must be non-negative")
	}
	return validationErrors
}
