package styles

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// NewStyledTable creates a themed table model.
func NewStyledTable(theme *Theme, columns []table.Column, rows []table.Row, width, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
		table.WithWidth(width),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Foreground(theme.Accent).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(theme.Text).
		Background(theme.SurfaceVariant).
		Bold(true)
	s.Cell = s.Cell.
		Foreground(theme.Text)

	t.SetStyles(s)
	return t
}

// KindCountColumns returns columns for the journal kind summary.
func KindCountColumns() []table.Column {
	return []table.Column{
		{Title: "Kind", Width: 22},
		{Title: "Events", Width: 10},
	}
}

// KindCountRow is one line of the journal kind summary.
type KindCountRow struct {
	Kind  string
	Count int64
}

// ToRow converts to table.Row.
func (k KindCountRow) ToRow() table.Row {
	return table.Row{k.Kind, FormatCount(k.Count)}
}

// FormatCount abbreviates large counts (1.2K, 3M).
func FormatCount(n int64) string {
	switch {
	case n >= 1_000_000:
		return formatTenths(n/100_000) + "M"
	case n >= 1_000:
		return formatTenths(n/100) + "K"
	default:
		return strconv.FormatInt(n, 10)
	}
}

func formatTenths(tenths int64) string {
	whole, dec := tenths/10, tenths%10
	if dec == 0 {
		return strconv.FormatInt(whole, 10)
	}
	return strconv.FormatInt(whole, 10) + "." + strconv.FormatInt(dec, 10)
}
