package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"

	"github.com/bnema/panehost/internal/domain/entity"
)

// maxPayloadWidth truncates payloads in journal listings.
const maxPayloadWidth = 96

// JournalRenderer renders persisted telemetry.
type JournalRenderer struct {
	theme *Theme
}

// NewJournalRenderer creates a journal renderer with the given theme.
func NewJournalRenderer(theme *Theme) *JournalRenderer {
	return &JournalRenderer{theme: theme}
}

// RenderEntries renders entries oldest first, one per line.
func (r *JournalRenderer) RenderEntries(entries []*entity.JournalEntry) string {
	if len(entries) == 0 {
		return "  " + r.theme.Subtle.Render("journal is empty")
	}

	var sb strings.Builder
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		sb.WriteString(fmt.Sprintf("%s %s %s %s\n",
			r.theme.Subtle.Render(e.Timestamp.Local().Format("15:04:05.000")),
			r.theme.Highlight.Render(e.Label),
			r.theme.EventBadge(string(e.Kind)),
			Truncate(string(e.Payload), maxPayloadWidth),
		))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// RenderKindCounts renders a per-kind summary table.
func (r *JournalRenderer) RenderKindCounts(counts []entity.KindCount) string {
	rows := make([]table.Row, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, KindCountRow{Kind: string(c.Kind), Count: c.Count}.ToRow())
	}
	t := NewStyledTable(r.theme, KindCountColumns(), rows, 36, len(rows)+1)
	t.Blur()
	return t.View()
}

// Truncate shortens s to at most width runes, marking the cut with an ellipsis.
func Truncate(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
