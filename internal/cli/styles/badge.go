package styles

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// AccentBadge renders a badge with accent color.
func (t *Theme) AccentBadge(text string) string {
	return t.Badge.Render(text)
}

// MutedBadge renders a badge with muted colors.
func (t *Theme) MutedBadge(text string) string {
	return t.BadgeMuted.Render(text)
}

// StatusBadge renders a status badge with custom colors.
func (t *Theme) StatusBadge(text string, fg, bg lipgloss.Color) string {
	style := lipgloss.NewStyle().
		Foreground(fg).
		Background(bg).
		Padding(0, 1)
	return style.Render(text)
}

// EventBadge colors a relay event or telemetry kind by severity.
func (t *Theme) EventBadge(name string) string {
	switch name {
	case "error", "unhandledrejection", "fetch-error":
		return t.StatusBadge(name, t.Background, t.Error)
	case "console", "longtask":
		return t.StatusBadge(name, t.Background, t.Warning)
	case "pane-navigated", "pane-navigation-started", "init":
		return t.AccentBadge(name)
	default:
		return t.MutedBadge(name)
	}
}

// RelativeTime formats a time as a human-readable relative string.
func RelativeTime(tm time.Time) string {
	return relativeTime(time.Now(), tm)
}

func relativeTime(now, tm time.Time) string {
	diff := now.Sub(tm)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
}
