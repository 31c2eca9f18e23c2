package bootstrap

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/panehost/internal/config"
)

func TestNewLogger_StderrOnly(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := NewLogger(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)
	defer func() { _ = closer.Close() }()

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shown"`)
}

func TestNewLogger_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "panehost.log")
	var buf bytes.Buffer
	logger, closer, err := NewLogger(config.LoggingConfig{
		Level:     "info",
		Format:    "console",
		File:      path,
		MaxSizeMB: 1,
	}, &buf)
	require.NoError(t, err)

	logger.Info().Str("pane", "docs").Msg("pane created")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"pane":"docs"`)
	assert.Contains(t, buf.String(), "pane created")
}
