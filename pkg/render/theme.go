package render

import "github.com/charmbracelet/lipgloss"

const (
	IconSuccess  = "✓"
	IconError    = "✗"
	IconInactive = "○"
)

type Theme struct {
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Muted    lipgloss.Style
	Active   lipgloss.Style
	Inactive lipgloss.Style
	Dead     lipgloss.Style
}

func DefaultTheme() Theme {
	success := lipgloss.Color("#22C55E")
	errorC := lipgloss.Color("#EF4444")
	muted := lipgloss.Color("#6B7280")
	text := lipgloss.Color("#F9FAFB")
	textDim := lipgloss.Color("#9CA3AF")

	return Theme{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(text),
		Cell:     lipgloss.NewStyle().Foreground(textDim),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Active:   lipgloss.NewStyle().Foreground(success),
		Inactive: lipgloss.NewStyle().Foreground(muted),
		Dead:     lipgloss.NewStyle().Foreground(errorC),
	}
}

// PlainTheme renders without any styling, for pipes and tests.
func PlainTheme() Theme {
	s := lipgloss.NewStyle()
	return Theme{Header: s, Cell: s, Muted: s, Active: s, Inactive: s, Dead: s}
}
