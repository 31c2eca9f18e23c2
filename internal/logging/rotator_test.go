package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogRotator_RotatesBySize(t *testing.T) {
	dir := t.TempDir()
	r, err := NewLogRotator(RotatorOptions{Dir: dir, FileName: "test.log", MaxSizeMB: 1, MaxBackups: 5})
	require.NoError(t, err)
	defer r.Close()

	line := []byte(strings.Repeat("x", 1023) + "\n")
	for i := 0; i < 1100; i++ {
		_, err := r.Write(line)
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var backups int
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "test.log.") {
			backups++
		}
	}
	assert.Equal(t, 1, backups)

	info, err := os.Stat(filepath.Join(dir, "test.log"))
	require.NoError(t, err)
	assert.Less(t, info.Size(), int64(1024*1024))
}

func TestLogRotator_PrunesAndCompresses(t *testing.T) {
	dir := t.TempDir()
	r, err := NewLogRotator(RotatorOptions{Dir: dir, FileName: "p.log", MaxSizeMB: 1, MaxBackups: 2, Compress: true})
	require.NoError(t, err)
	defer r.Close()

	clock := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	r.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	var failures []error
	r.onError = func(err error) { failures = append(failures, err) }

	chunk := []byte(strings.Repeat("y", 600*1024))
	for i := 0; i < 5; i++ {
		_, err := r.Write(chunk)
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var backups []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "p.log.") {
			backups = append(backups, e.Name())
			assert.True(t, strings.HasSuffix(e.Name(), ".gz"), e.Name())
		}
	}
	assert.Len(t, backups, 2)
	assert.Empty(t, failures)
}

func TestLogRotator_WriteAfterCloseReopens(t *testing.T) {
	dir := t.TempDir()
	r, err := NewLogRotator(RotatorOptions{Dir: dir})
	require.NoError(t, err)

	_, err = r.Write([]byte("one\n"))
	require.NoError(t, err)
	require.NoError(t, r.Close())
	_, err = r.Write([]byte("two\n"))
	require.NoError(t, err)
	require.NoError(t, r.Close())

	data, err := os.ReadFile(filepath.Join(dir, "panehost.log"))
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(data))
}

func TestNewLogRotator_RequiresDir(t *testing.T) {
	_, err := NewLogRotator(RotatorOptions{})
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "debug", ParseLevel("DEBUG").String())
	assert.Equal(t, "warn", ParseLevel("warning").String())
	assert.Equal(t, "info", ParseLevel("nonsense").String())
	assert.Equal(t, "disabled", ParseLevel("off").String())
}
