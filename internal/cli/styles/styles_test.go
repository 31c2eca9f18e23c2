package styles

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/panehost/internal/domain/build"
	"github.com/bnema/panehost/internal/domain/entity"
)

func TestFormatCount(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1K"},
		{1250, "1.2K"},
		{3_000_000, "3M"},
		{3_450_000, "3.4M"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCount(tt.in), "FormatCount(%d)", tt.in)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc…", Truncate("abcdef", 4))
	assert.Equal(t, "é…", Truncate("ééé", 2))
	assert.Equal(t, "…", Truncate("abc", 1))
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "just now", relativeTime(now, now.Add(-10*time.Second)))
	assert.Equal(t, "5m ago", relativeTime(now, now.Add(-5*time.Minute)))
	assert.Equal(t, "3h ago", relativeTime(now, now.Add(-3*time.Hour)))
	assert.Equal(t, "2d ago", relativeTime(now, now.Add(-49*time.Hour)))
}

func TestPaneRenderer(t *testing.T) {
	r := NewPaneRenderer(NewTheme())

	assert.Contains(t, r.RenderList(nil), "no panes")
	list := r.RenderList([]string{"docs", "feed"})
	assert.Contains(t, list, "docs")
	assert.Contains(t, list, "feed")

	created := r.RenderCreated("docs", "https://example.com/", entity.NewRect(0, 0, 10, 20))
	assert.Contains(t, created, "https://example.com/")

	failure := r.RenderFailure("pane not found", "not_found")
	assert.Contains(t, failure, "pane not found")
	assert.Contains(t, failure, "not_found")
}

func TestJournalRenderer_OldestFirst(t *testing.T) {
	r := NewJournalRenderer(NewTheme())
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	entries := []*entity.JournalEntry{
		{Label: "b", Kind: entity.TelemetryConsole, Timestamp: base.Add(time.Second), Payload: json.RawMessage(`{"n":2}`)},
		{Label: "a", Kind: entity.TelemetryInit, Timestamp: base, Payload: json.RawMessage(`{"n":1}`)},
	}

	out := r.RenderEntries(entries)
	assert.Less(t, strings.Index(out, `{"n":1}`), strings.Index(out, `{"n":2}`))
	assert.Contains(t, r.RenderEntries(nil), "journal is empty")
}

func TestConfigRenderer_Validation(t *testing.T) {
	r := NewConfigRenderer(NewTheme())
	assert.Contains(t, r.RenderValidation("/tmp/c.toml", nil), "is valid")

	out := r.RenderValidation("/tmp/c.toml", errors.New("config validation failed:\n  - bad policy\n  - bad target"))
	assert.Contains(t, out, "bad policy")
	assert.Contains(t, out, "bad target")
}

func TestAboutRenderer_FillsUnknown(t *testing.T) {
	out := NewAboutRenderer(NewTheme()).Render(build.Info{Version: "v1.2.3"})
	assert.Contains(t, out, "v1.2.3")
	assert.Contains(t, out, "unknown")
	assert.Contains(t, out, build.RepoURL())
}
