package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Row struct {
	Icon      string
	IconStyle *lipgloss.Style
	Cells     []string
}

type Table struct {
	Headers []string
	Rows    []Row
	theme   Theme
}

func NewTable(theme Theme, headers ...string) *Table {
	return &Table{Headers: headers, theme: theme}
}

func (t *Table) Add(row Row) {
	t.Rows = append(t.Rows, row)
}

func (t *Table) widths() []int {
	w := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		w[i] = lipgloss.Width(h)
	}
	for _, r := range t.Rows {
		for i, c := range r.Cells {
			if i < len(w) && lipgloss.Width(c) > w[i] {
				w[i] = lipgloss.Width(c)
			}
		}
	}
	return w
}

func (t *Table) Render() string {
	if len(t.Rows) == 0 {
		return t.theme.Muted.Render("(no data)")
	}
	widths := t.widths()
	hasIcons := false
	for _, r := range t.Rows {
		if r.Icon != "" {
			hasIcons = true
			break
		}
	}

	line := func(icon string, cells []string, style lipgloss.Style) string {
		var parts []string
		if hasIcons {
			parts = append(parts, icon+" ")
		}
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = truncate(cells[i], w)
			}
			s := style.Width(w)
			if i < len(widths)-1 {
				s = s.MarginRight(2)
			}
			parts = append(parts, s.Render(cell))
		}
		return strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, parts...), " ")
	}

	lines := []string{line(" ", t.Headers, t.theme.Header)}
	for _, r := range t.Rows {
		icon := r.Icon
		if icon == "" {
			icon = " "
		} else if r.IconStyle != nil {
			icon = r.IconStyle.Render(icon)
		}
		lines = append(lines, line(icon, r.Cells, t.theme.Cell))
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
