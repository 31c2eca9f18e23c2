package bootstrap

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/bnema/panehost/internal/config"
	"github.com/bnema/panehost/internal/logging"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger builds the process logger from the logging section. When a file
// is configured, JSON entries are also written to a rotated file; the
// returned closer releases it.
func NewLogger(cfg config.LoggingConfig, stderr io.Writer) (zerolog.Logger, io.Closer, error) {
	lc := logging.DefaultConfig()
	lc.Level = logging.ParseLevel(cfg.Level)
	if cfg.Format != "" {
		lc.Format = cfg.Format
	}
	lc.Output = stderr

	if cfg.File == "" {
		return logging.New(lc), nopCloser{}, nil
	}

	path, err := LogFilePath(cfg)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	dir, name := filepath.Split(path)

	rotator, err := logging.NewLogRotator(logging.RotatorOptions{
		Dir:        filepath.Clean(dir),
		FileName:   name,
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAgeDays: cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	})
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	return logging.NewWithRotator(lc, rotator), rotator, nil
}

// LogFilePath resolves logging.file. A bare name lives in the log directory;
// an empty setting yields "".
func LogFilePath(cfg config.LoggingConfig) (string, error) {
	if cfg.File == "" {
		return "", nil
	}
	if filepath.Base(cfg.File) != cfg.File {
		return filepath.Clean(cfg.File), nil
	}
	logDir, err := config.GetLogDir()
	if err != nil {
		return "", fmt.Errorf("resolve log directory: %w", err)
	}
	return filepath.Join(logDir, cfg.File), nil
}
