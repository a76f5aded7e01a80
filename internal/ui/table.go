package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table рисует таблицу с выровненными колонками. Пустая таблица
// заменяется строкой empty.
func (r *Renderer) Table(headers []string, rows [][]string, empty string) string {
	if len(rows) == 0 {
		return r.styles.Muted.Render(empty)
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(headers) && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	b.WriteString(r.row(headers, widths, r.styles.Header))
	b.WriteString("\n")
	total := 0
	for _, w := range widths {
		total += w + 2
	}
	b.WriteString(r.styles.Muted.Render(strings.Repeat("─", total)))
	for _, row := range rows {
		b.WriteString("\n")
		b.WriteString(r.row(row, widths, lipgloss.NewStyle()))
	}
	return b.String()
}

func (r *Renderer) row(cells []string, widths []int, style lipgloss.Style) string {
	out := make([]string, len(widths))
	for i, w := range widths {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		out[i] = style.Width(w + 2).Render(cell)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
