package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ConfigRenderer renders config command output.
type ConfigRenderer struct {
	theme *Theme
}

// NewConfigRenderer creates a new config renderer with the given theme.
func NewConfigRenderer(theme *Theme) *ConfigRenderer {
	return &ConfigRenderer{theme: theme}
}

// RenderPath renders a labelled file path.
func (r *ConfigRenderer) RenderPath(label, path string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)
	return fmt.Sprintf("  %s %s %s", iconStyle.Render(IconConfig), r.theme.Normal.Render(label), r.theme.Subtle.Render(path))
}

// RenderWritten confirms a file was written.
func (r *ConfigRenderer) RenderWritten(what, path string) string {
	return fmt.Sprintf("  %s %s written to %s",
		r.theme.SuccessStyle.Render(IconCheck),
		what,
		r.theme.Subtle.Render(path),
	)
}

// RenderExists explains that a file was left untouched.
func (r *ConfigRenderer) RenderExists(path string) string {
	return fmt.Sprintf("  %s %s already exists (use --force to overwrite)",
		r.theme.WarningStyle.Render(IconWarning),
		r.theme.Subtle.Render(path),
	)
}

// RenderValidation renders the outcome of validating the config file.
func (r *ConfigRenderer) RenderValidation(path string, err error) string {
	if err == nil {
		return fmt.Sprintf("  %s %s is valid", r.theme.SuccessStyle.Render(IconCheck), r.theme.Subtle.Render(path))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  %s %s is invalid\n", r.theme.ErrorStyle.Render(IconX), r.theme.Subtle.Render(path)))
	for _, line := range strings.Split(err.Error(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s %s\n", r.theme.ErrorStyle.Render(IconCursor), line))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// RenderError renders an error message.
func (r *ConfigRenderer) RenderError(err error) string {
	return fmt.Sprintf("  %s %s", r.theme.ErrorStyle.Render(IconX), r.theme.ErrorStyle.Render(err.Error()))
}
