package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/panehost/internal/domain/entity"
)

// PaneRenderer renders control command results.
type PaneRenderer struct {
	theme *Theme
}

// NewPaneRenderer creates a pane renderer with the given theme.
func NewPaneRenderer(theme *Theme) *PaneRenderer {
	return &PaneRenderer{theme: theme}
}

// RenderList renders the live pane labels.
func (r *PaneRenderer) RenderList(labels []string) string {
	if len(labels) == 0 {
		return "  " + r.theme.Subtle.Render("no panes")
	}
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  %s %s\n", r.theme.Title.Render("Panes"), r.theme.MutedBadge(fmt.Sprintf("%d", len(labels)))))
	for _, label := range labels {
		sb.WriteString(fmt.Sprintf("    %s %s\n", iconStyle.Render(IconPane), r.theme.Normal.Render(label)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// RenderCreated renders a freshly attached pane.
func (r *PaneRenderer) RenderCreated(label, url string, bounds entity.Rect) string {
	return fmt.Sprintf("  %s %s %s %s\n    %s",
		r.theme.SuccessStyle.Render(IconCheck),
		r.theme.Highlight.Render(label),
		r.theme.Subtle.Render(IconArrow),
		r.theme.Normal.Render(url),
		r.theme.Subtle.Render("bounds "+bounds.String()),
	)
}

// RenderDone confirms a command that returns no result.
func (r *PaneRenderer) RenderDone(cmd, label string) string {
	return fmt.Sprintf("  %s %s %s", r.theme.SuccessStyle.Render(IconCheck), cmd, r.theme.Highlight.Render(label))
}

// RenderNavigationState renders back/forward availability.
func (r *PaneRenderer) RenderNavigationState(label string, state entity.NavigationState) string {
	mark := func(ok bool) string {
		if ok {
			return r.theme.SuccessStyle.Render(IconCheck)
		}
		return r.theme.Subtle.Render(IconX)
	}
	return fmt.Sprintf("  %s\n    back    %s\n    forward %s",
		r.theme.Highlight.Render(label), mark(state.CanGoBack), mark(state.CanGoForward))
}

// RenderFailure renders a failed command with its response code.
func (r *PaneRenderer) RenderFailure(message, code string) string {
	out := fmt.Sprintf("  %s %s", r.theme.ErrorStyle.Render(IconX), r.theme.ErrorStyle.Render(message))
	if code != "" {
		out += " " + r.theme.MutedBadge(code)
	}
	return out
}
