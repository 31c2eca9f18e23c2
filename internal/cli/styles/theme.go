// Package styles renders panehost CLI output with lipgloss.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette is the set of base colors a Theme is derived from.
type Palette struct {
	Background, Raised, Text, Muted, Accent, Border string
	Error, Warning, Success                         string
}

// DarkPalette is used on dark terminals.
var DarkPalette = Palette{
	Background: "#0a0a0b",
	Raised:     "#2d2d2d",
	Text:       "#f5f5f5",
	Muted:      "#909090",
	Accent:     "#60a5fa",
	Border:     "#333333",
	Error:      "#ef4444",
	Warning:    "#f59e0b",
	Success:    "#4ade80",
}

// LightPalette is used on light terminals.
var LightPalette = Palette{
	Background: "#ffffff",
	Raised:     "#e5e7eb",
	Text:       "#111827",
	Muted:      "#6b7280",
	Accent:     "#2563eb",
	Border:     "#d1d5db",
	Error:      "#dc2626",
	Warning:    "#b45309",
	Success:    "#15803d",
}

// Theme holds the colors and styles every renderer draws with.
type Theme struct {
	Background     lipgloss.Color
	SurfaceVariant lipgloss.Color
	Text           lipgloss.Color
	Accent         lipgloss.Color
	Border         lipgloss.Color
	Error          lipgloss.Color
	Warning        lipgloss.Color

	Title        lipgloss.Style
	Normal       lipgloss.Style
	Subtle       lipgloss.Style
	Highlight    lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	SuccessStyle lipgloss.Style
	Badge        lipgloss.Style
	BadgeMuted   lipgloss.Style
}

// NewTheme picks the palette matching the terminal background.
func NewTheme() *Theme {
	if lipgloss.HasDarkBackground() {
		return NewThemeFromPalette(DarkPalette)
	}
	return NewThemeFromPalette(LightPalette)
}

// NewThemeFromPalette derives a Theme from p.
func NewThemeFromPalette(p Palette) *Theme {
	fg := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }

	return &Theme{
		Background:     lipgloss.Color(p.Background),
		SurfaceVariant: lipgloss.Color(p.Raised),
		Text:           lipgloss.Color(p.Text),
		Accent:         lipgloss.Color(p.Accent),
		Border:         lipgloss.Color(p.Border),
		Error:          lipgloss.Color(p.Error),
		Warning:        lipgloss.Color(p.Warning),

		Title:        fg(p.Text).Bold(true),
		Normal:       fg(p.Text),
		Subtle:       fg(p.Muted),
		Highlight:    fg(p.Accent).Bold(true),
		ErrorStyle:   fg(p.Error),
		WarningStyle: fg(p.Warning),
		SuccessStyle: fg(p.Success),
		Badge:        fg(p.Background).Background(lipgloss.Color(p.Accent)).Padding(0, 1),
		BadgeMuted:   fg(p.Text).Background(lipgloss.Color(p.Raised)).Padding(0, 1),
	}
}
